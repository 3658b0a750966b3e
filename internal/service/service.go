// Package service wires configuration, the source provider and the locator
// into the operations the CLI, HTTP and MCP surfaces expose.
package service

import (
	"context"
	stderrors "errors"
	"path/filepath"

	"github.com/toyz/locus/internal/config"
	"github.com/toyz/locus/internal/descriptor"
	"github.com/toyz/locus/internal/erasure"
	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
	"github.com/toyz/locus/internal/registry"
	"github.com/toyz/locus/internal/source"
	"github.com/toyz/locus/internal/store"
	"github.com/toyz/locus/internal/utils"
)

// Result is the outcome of locating one signature. Implicit is set when a
// compiler-generated member has no source declaration.
type Result struct {
	Input       string                    `json:"input" yaml:"input"`
	Signature   *models.CompiledSignature `json:"signature,omitempty" yaml:"signature,omitempty"`
	File        string                    `json:"file,omitempty" yaml:"file,omitempty"`
	Declaration string                    `json:"declaration,omitempty" yaml:"declaration,omitempty"`
	Range       *models.SourceRange       `json:"range,omitempty" yaml:"range,omitempty"`
	ErrorKind   string                    `json:"error,omitempty" yaml:"error,omitempty"`
	Message     string                    `json:"message,omitempty" yaml:"message,omitempty"`
	Suggestions []string                  `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Implicit    bool                      `json:"implicit,omitempty" yaml:"implicit,omitempty"`
	Err         error                     `json:"-" yaml:"-"`
}

// OK reports whether the signature was located
func (r Result) OK() bool {
	return r.Err == nil && r.Range != nil
}

// Failed reports whether locating the signature failed. Implicit members
// are neither located nor failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Service locates declarations for one configuration
type Service struct {
	cfg         *config.Config
	diagnostics *utils.DiagnosticSystem
	provider    *source.Provider
	locator     *erasure.Locator
	store       *store.TreeStore
	naming      descriptor.Naming
}

// New validates cfg and builds the provider, optional tree store and locator
func New(cfg *config.Config, diagnostics *utils.DiagnosticSystem) (*Service, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if diagnostics == nil {
		diagnostics = utils.NewSilentDiagnostics()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	parser, err := registry.NewParserRegistry().MustGetParser(cfg.Source.Parser)
	if err != nil {
		return nil, err
	}

	opts := []source.Option{
		source.WithRoots(cfg.Source.Roots...),
		source.WithExtension(cfg.Source.Extension),
		source.WithSearch(cfg.Source.Search),
		source.WithExcludes(cfg.Source.Excludes...),
		source.WithDiagnostics(diagnostics),
	}

	s := &Service{
		cfg:         cfg,
		diagnostics: diagnostics,
		naming:      cfg.CompiledNaming(),
	}

	if cfg.Cache.Enabled {
		trees, err := store.Open(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		s.store = trees
		opts = append(opts, source.WithStore(trees))
		diagnostics.Debug("tree store at %s", cfg.Cache.Path)
	}

	s.provider = source.NewProvider(parser, opts...)

	var locatorOpts []erasure.LocatorOption
	if cfg.Naming.Qualified {
		locatorOpts = append(locatorOpts, erasure.WithQualifiedNames())
	}
	s.locator = erasure.NewLocator(s.provider, locatorOpts...)

	return s, nil
}

// Config returns the configuration the service was built from
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Naming returns the compiled type naming in effect
func (s *Service) Naming() descriptor.Naming {
	return s.naming
}

// Provider returns the syntax tree provider
func (s *Service) Provider() *source.Provider {
	return s.provider
}

// Locate resolves one compiled signature
func (s *Service) Locate(sig models.CompiledSignature) Result {
	result := Result{Input: sig.String(), Signature: &sig}

	res, err := s.locator.Resolve(sig)
	if err != nil && sig.MaybeImplicit && errors.HasCode(err, errors.DeclarationNotFoundCode) {
		s.diagnostics.Verbose("%s: compiler generated, no source declaration", sig)
		result.Implicit = true
		return result
	}
	if err != nil {
		s.diagnostics.Verbose("%s: %v", sig, err)
		return result.withError(err)
	}

	s.diagnostics.Verbose("%s -> %s:%s", sig, res.File, res.Range)
	result.File = res.File
	result.Declaration = res.Declaration.Signature()
	result.Range = &res.Range
	return result
}

// LocateText parses a textual signature and resolves it
func (s *Service) LocateText(text string) Result {
	sig, err := descriptor.ParseSignature(text, s.naming)
	if err != nil {
		s.diagnostics.Verbose("%s: %v", text, err)
		return Result{Input: text}.withError(err)
	}
	result := s.Locate(sig)
	result.Input = text
	return result
}

// Progress is called after each signature of a batch
type Progress func(done, total int)

// MaxBatchSize bounds the signatures accepted by one remote batch call
const MaxBatchSize = 1000

// LocateAll resolves every text in order. It stops early, marking the rest
// as not attempted, when ctx is cancelled.
func (s *Service) LocateAll(ctx context.Context, texts []string, progress Progress) []Result {
	results := make([]Result, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Input: text}.withError(errors.WrapWithOperation("locate", text, err))
			continue
		}
		results[i] = s.LocateText(text)
		if progress != nil {
			progress(i+1, len(texts))
		}
	}
	return results
}

// LocateSignatures is LocateAll for already decoded signatures
func (s *Service) LocateSignatures(ctx context.Context, sigs []models.CompiledSignature, progress Progress) []Result {
	results := make([]Result, len(sigs))
	for i, sig := range sigs {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Input: sig.String(), Signature: &sigs[i]}.withError(errors.WrapWithOperation("locate", sig.String(), err))
			continue
		}
		results[i] = s.Locate(sig)
		if progress != nil {
			progress(i+1, len(sigs))
		}
	}
	return results
}

// StoreStats reports the persistent cache, or false when it is disabled
func (s *Service) StoreStats() (store.Stats, bool, error) {
	if s.store == nil {
		return store.Stats{}, false, nil
	}
	stats, err := s.store.Stats()
	return stats, true, err
}

// PurgeStore empties the persistent cache and the in-memory trees
func (s *Service) PurgeStore() (int, error) {
	s.provider.Invalidate()
	if s.store == nil {
		return 0, nil
	}
	return s.store.Purge()
}

// Close releases the tree store
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (r Result) withError(err error) Result {
	r.Err = err
	r.ErrorKind = ErrorKind(err)
	r.Message = err.Error()
	var locusErr errors.LocusError
	if stderrors.As(err, &locusErr) {
		r.Suggestions = locusErr.Suggestions()
	}
	return r
}

// ErrorKind names the failure category of err as shown in reports
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	return errors.CodeOf(err).String()
}

// AbsRoots returns the configured roots as absolute paths
func (s *Service) AbsRoots() []string {
	roots := make([]string, 0, len(s.cfg.Source.Roots))
	for _, root := range s.cfg.Source.Roots {
		if abs, err := filepath.Abs(root); err == nil {
			roots = append(roots, abs)
		} else {
			roots = append(roots, root)
		}
	}
	return roots
}
