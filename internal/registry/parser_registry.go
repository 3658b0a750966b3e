package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/javasrc"
	"github.com/toyz/locus/internal/models"
	"github.com/toyz/locus/internal/treesitter"
	"github.com/toyz/locus/internal/utils"
)

// ParserRegistryInterface defines the interface for source parser registry operations
type ParserRegistryInterface interface {
	RegisterParser(parser models.SourceParser) error
	GetParser(name string) (models.SourceParser, bool)
	ListParsers() []string
	HasParser(name string) bool
	ClearCustomParsers()
}

// builtin parsers, created once and shared; both are safe for concurrent use
var builtinParsers = []models.SourceParser{
	javasrc.NewParser(),
	treesitter.NewParser(),
}

var parserAliases = map[string]string{
	"javasrc":     javasrc.BackendName,
	"tree-sitter": treesitter.BackendName,
	"ts":          treesitter.BackendName,
}

// ResolveParserAlias maps alternative spellings to a backend name
func ResolveParserAlias(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if resolved, ok := parserAliases[name]; ok {
		return resolved
	}
	return name
}

// ParserRegistry manages the source parser backends by name
type ParserRegistry struct {
	parsers *utils.Registry[string, models.SourceParser]
}

// NewParserRegistry creates a new parser registry with the built-in backends
func NewParserRegistry() *ParserRegistry {
	parsers := utils.NewRegistry[string, models.SourceParser]("parser", "parser name")
	parsers.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[models.SourceParser]("parser name"),
		utils.NoDuplicateValidator[string, models.SourceParser]("parser"),
	))
	parsers.Reset(builtinParserMap())

	return &ParserRegistry{parsers: parsers}
}

func builtinParserMap() map[string]models.SourceParser {
	builtins := make(map[string]models.SourceParser, len(builtinParsers))
	for _, parser := range builtinParsers {
		builtins[parser.Name()] = parser
	}
	return builtins
}

// RegisterParser registers a new backend under its name
func (r *ParserRegistry) RegisterParser(parser models.SourceParser) error {
	if err := r.parsers.Register(parser.Name(), parser); err != nil {
		return errors.ConfigurationError("source.parser", err.Error())
	}
	return nil
}

// GetParser retrieves a backend by name, resolving aliases
func (r *ParserRegistry) GetParser(name string) (models.SourceParser, bool) {
	if parser, exists := r.parsers.Get(name); exists {
		return parser, true
	}
	return r.parsers.Get(ResolveParserAlias(name))
}

// MustGetParser returns the named backend or a configuration error listing
// the registered names
func (r *ParserRegistry) MustGetParser(name string) (models.SourceParser, error) {
	if parser, ok := r.GetParser(name); ok {
		return parser, nil
	}
	return nil, errors.ConfigurationError("source.parser", fmt.Sprintf("unknown parser '%s'", name)).
		WithSuggestion(fmt.Sprintf("available parsers: %s", strings.Join(r.ListParsers(), ", ")))
}

// ListParsers returns all registered backend names, sorted
func (r *ParserRegistry) ListParsers() []string {
	names := r.parsers.List()
	sort.Strings(names)
	return names
}

// HasParser checks if a backend is registered under name
func (r *ParserRegistry) HasParser(name string) bool {
	_, exists := r.GetParser(name)
	return exists
}

// ClearCustomParsers removes only custom backends, keeping the built-in ones
func (r *ParserRegistry) ClearCustomParsers() {
	r.parsers.Reset(builtinParserMap())
}
