// Package source finds and parses the Java compilation unit that declares a
// type. Provider satisfies erasure.TreeProvider.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
	"github.com/toyz/locus/internal/utils"
)

// DefaultExtension is the source file suffix used when none is configured
const DefaultExtension = ".java"

// TreeStore is the persistent cache a Provider consults before parsing
type TreeStore interface {
	Get(path string, stamp utils.FileStamp, parser string) (*models.SyntaxTree, bool, error)
	Put(path string, stamp utils.FileStamp, parser string, tree *models.SyntaxTree) error
}

// Provider maps type identities to files under a set of source roots and
// parses them. Parsed trees are cached in memory until the file changes.
type Provider struct {
	roots       []string
	extension   string
	search      bool
	walker      *Walker
	excludes    []string
	parser      models.SourceParser
	reader      *utils.FileReader
	cache       *utils.Cache[string, *models.SyntaxTree]
	store       TreeStore
	diagnostics *utils.DiagnosticSystem
}

// Option configures a Provider
type Option func(*Provider)

// WithRoots sets the source roots, tried in order
func WithRoots(roots ...string) Option {
	return func(p *Provider) {
		p.roots = append([]string(nil), roots...)
	}
}

// WithExtension sets the source file suffix
func WithExtension(ext string) Option {
	return func(p *Provider) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext != "" {
			p.extension = ext
		}
	}
}

// WithSearch enables the recursive fallback when the package path does not
// hold the file
func WithSearch(enabled bool) Option {
	return func(p *Provider) {
		p.search = enabled
	}
}

// WithExcludes skips files matching any of the doublestar patterns
func WithExcludes(patterns ...string) Option {
	return func(p *Provider) {
		p.excludes = append([]string(nil), patterns...)
	}
}

// WithStore adds a persistent tree cache
func WithStore(store TreeStore) Option {
	return func(p *Provider) {
		p.store = store
	}
}

// WithDiagnostics routes cache and parse events to diagnostics
func WithDiagnostics(d *utils.DiagnosticSystem) Option {
	return func(p *Provider) {
		p.diagnostics = d
	}
}

// NewProvider creates a provider parsing with parser
func NewProvider(parser models.SourceParser, opts ...Option) *Provider {
	p := &Provider{
		roots:       []string{"."},
		extension:   DefaultExtension,
		search:      true,
		parser:      parser,
		reader:      utils.NewFileReader(),
		cache:       utils.NewCache[string, *models.SyntaxTree](),
		diagnostics: utils.NewSilentDiagnostics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.walker = NewWalker([]string{"**/*" + p.extension}, p.excludes)
	return p
}

// Parser returns the backend trees are parsed with
func (p *Provider) Parser() models.SourceParser {
	return p.parser
}

// Roots returns the configured source roots
func (p *Provider) Roots() []string {
	return append([]string(nil), p.roots...)
}

// Tree returns the syntax tree of the file declaring id
func (p *Provider) Tree(id models.TypeIdentity) (*models.SyntaxTree, error) {
	path, err := p.Resolve(id)
	if err != nil {
		return nil, err
	}
	return p.ParseFile(path)
}

// Resolve returns the path of the file declaring id. The conventional
// <root>/<package>/<Top><ext> location is tried in every root before the
// recursive search.
func (p *Provider) Resolve(id models.TypeIdentity) (string, error) {
	if id.Name == "" {
		return "", errors.New(errors.FileSystemErrorCode, "type identity has no name")
	}

	relative := id.SourceFile(p.extension)
	searched := make([]string, 0, len(p.roots))

	for _, root := range p.roots {
		candidate := filepath.Join(root, filepath.FromSlash(relative))
		searched = append(searched, candidate)
		if p.walker.Excluded(relative) {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	if p.search {
		path, err := p.find(id)
		if err != nil {
			return "", err
		}
		if path != "" {
			return path, nil
		}
	}

	return "", errors.FileNotFound(relative, searched).
		WithContext("declaring_type", id.String()).
		WithSuggestion("check source.roots or pass --root for the directory holding " + relative)
}

// find walks every root for <Top><ext> and accepts the first file whose
// package declaration matches id.
func (p *Provider) find(id models.TypeIdentity) (string, error) {
	fileName := id.TopLevel() + p.extension

	for _, root := range p.roots {
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		files, err := p.walker.Walk(root)
		if err != nil {
			return "", errors.WrapFileSystemError("search", root, err)
		}
		for _, file := range files {
			if filepath.Base(file) != fileName {
				continue
			}
			tree, err := p.ParseFile(file)
			if err != nil {
				p.diagnostics.Debug("skipping %s: %v", file, err)
				continue
			}
			if tree.Package == id.Package {
				p.diagnostics.Debug("found %s by search in %s", id, root)
				return file, nil
			}
		}
	}
	return "", nil
}

// ParseFile parses path, serving cached trees while the file is unchanged
func (p *Provider) ParseFile(path string) (*models.SyntaxTree, error) {
	cleanPath, stamp, err := p.reader.Stat(path)
	if err != nil {
		return nil, err
	}
	key, err := filepath.Abs(cleanPath)
	if err != nil {
		key = cleanPath
	}

	if tree, ok := p.cache.Lookup(key, stamp); ok {
		p.diagnostics.Debug("cache hit %s", cleanPath)
		return tree, nil
	}

	if p.store != nil {
		tree, ok, err := p.store.Get(key, stamp, p.parser.Name())
		if err != nil {
			p.diagnostics.Warn("%v", err)
		} else if ok {
			p.diagnostics.Debug("store hit %s", cleanPath)
			tree.Path = cleanPath
			p.cache.Store(key, tree, stamp)
			return tree, nil
		}
	}

	file, err := p.reader.ReadSource(cleanPath)
	if err != nil {
		return nil, err
	}

	p.diagnostics.Debug("parsing %s with %s", cleanPath, p.parser.Name())
	tree, err := p.parser.Parse(cleanPath, file.Content)
	if err != nil {
		if errors.HasCode(err, errors.SyntaxErrorCode) {
			return nil, err
		}
		return nil, errors.WrapParseError(cleanPath, err).WithParser(p.parser.Name())
	}

	if p.store != nil {
		if err := p.store.Put(key, file.Stamp, p.parser.Name(), tree); err != nil {
			p.diagnostics.Warn("%v", err)
		}
	}
	p.cache.Store(key, tree, file.Stamp)
	return tree, nil
}

// CacheStats reports in-memory cache activity
func (p *Provider) CacheStats() utils.CacheStats {
	return p.cache.Stats()
}

// Invalidate drops every in-memory tree
func (p *Provider) Invalidate() {
	p.cache.Clear()
}
