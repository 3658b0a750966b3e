// Package httpapi serves locate requests over HTTP with echo.
package httpapi

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/toyz/locus/internal/report"
	"github.com/toyz/locus/internal/service"
	"github.com/toyz/locus/internal/utils"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// LocateRequest is the body of POST /v1/locate
type LocateRequest struct {
	Signature string `json:"signature"`
}

// BatchRequest is the body of POST /v1/locate/batch
type BatchRequest struct {
	Signatures []string `json:"signatures"`
}

// BatchResponse is returned by POST /v1/locate/batch
type BatchResponse struct {
	Results []service.Result `json:"results"`
	Located int              `json:"located"`
	Failed  int              `json:"failed"`
}

// Server exposes a Service over HTTP
type Server struct {
	engine      *echo.Echo
	svc         *service.Service
	diagnostics *utils.DiagnosticSystem
}

// NewServer creates the echo engine and registers the routes
func NewServer(svc *service.Service, diagnostics *utils.DiagnosticSystem) *Server {
	if diagnostics == nil {
		diagnostics = utils.NewSilentDiagnostics()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{engine: e, svc: svc, diagnostics: diagnostics}
	e.HTTPErrorHandler = s.handleError
	e.Use(s.requestID)

	e.GET("/healthz", s.health)
	v1 := e.Group("/v1")
	v1.POST("/locate", s.locate)
	v1.POST("/locate/batch", s.locateBatch)
	v1.GET("/outline/:type", s.outline)

	return s
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.diagnostics.Info("listening on http://%s", addr)
	err := s.engine.Start(addr)
	if stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.engine.Shutdown(ctx)
}

func (s *Server) requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Response().Header().Set(RequestIDHeader, id)
		c.Set("request_id", id)

		err := next(c)
		s.diagnostics.Verbose("%s %s %s", id, c.Request().Method, c.Request().URL.Path)
		return err
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *HttpError
	var echoErr *echo.HTTPError
	switch {
	case stderrors.As(err, &httpErr):
	case stderrors.As(err, &echoErr):
		httpErr = NewHttpError(echoErr.Code, http.StatusText(echoErr.Code))
		if msg, ok := echoErr.Message.(string); ok {
			httpErr.Message = msg
		}
	default:
		httpErr = ErrInternalServerError(err.Error())
	}

	if httpErr.StatusCode >= http.StatusInternalServerError {
		s.diagnostics.Error("%v: %s", c.Get("request_id"), httpErr.Message)
	}
	if writeErr := c.JSON(httpErr.StatusCode, httpErr); writeErr != nil {
		s.diagnostics.Error("failed to write error response: %v", writeErr)
	}
}

func (s *Server) health(c echo.Context) error {
	cfg := s.svc.Config()
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"parser": cfg.Source.Parser,
		"naming": s.svc.Naming().String(),
		"roots":  s.svc.AbsRoots(),
	})
}

func (s *Server) locate(c echo.Context) error {
	var req LocateRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest("invalid JSON body")
	}
	if strings.TrimSpace(req.Signature) == "" {
		return ErrBadRequest("signature is required")
	}

	result := s.svc.LocateText(req.Signature)
	if !result.OK() {
		return FromError(result.Err, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) locateBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest("invalid JSON body")
	}
	if len(req.Signatures) == 0 {
		return ErrBadRequest("signatures must not be empty")
	}
	if len(req.Signatures) > service.MaxBatchSize {
		return NewHttpError(http.StatusRequestEntityTooLarge, "too many signatures").WithDetails(map[string]int{"max": service.MaxBatchSize})
	}

	results := s.svc.LocateAll(c.Request().Context(), req.Signatures, nil)
	located, failed := report.Summary(results)
	return c.JSON(http.StatusOK, BatchResponse{Results: results, Located: located, Failed: failed})
}

func (s *Server) outline(c echo.Context) error {
	outline, err := s.svc.Outline(c.Param("type"))
	if err != nil {
		return FromError(err, nil)
	}
	return c.JSON(http.StatusOK, outline)
}
