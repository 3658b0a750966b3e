package source

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/javasrc"
	"github.com/toyz/locus/internal/models"
	"github.com/toyz/locus/internal/store"
)

const fixtureRoot = "testdata/src/main/java"

type countingParser struct {
	models.SourceParser
	calls atomic.Int32
}

func (c *countingParser) Parse(filename string, src []byte) (*models.SyntaxTree, error) {
	c.calls.Add(1)
	return c.SourceParser.Parse(filename, src)
}

func writeSource(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProvider_ConventionalLayout(t *testing.T) {
	p := NewProvider(javasrc.NewParser(), WithRoots("testdata/missing", fixtureRoot))

	tests := []struct {
		name  string
		typ   string
		owner string
	}{
		{"top level", "org.samples.Person", "Person"},
		{"nested binary name", "org.samples.Person$Address", "Person.Address"},
		{"nested canonical name", "org.samples.Person.Greeter", "Person.Greeter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := p.Tree(models.ParseTypeIdentity(tt.typ))
			require.NoError(t, err)
			assert.Equal(t, "org.samples", tree.Package)
			assert.Equal(t, filepath.Join(fixtureRoot, "org", "samples", "Person.java"), tree.Path)
			assert.NotEmpty(t, tree.DeclarationsOwnedBy(tt.owner))
		})
	}
}

func TestProvider_SearchFallback(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "alpha/Person.java", "package org.decoy;\nclass Person { void decoy() {} }\n")
	want := writeSource(t, root, "modules/core/Person.java", "package org.samples;\nclass Person { void real() {} }\n")

	p := NewProvider(javasrc.NewParser(), WithRoots(root))
	path, err := p.Resolve(models.ParseTypeIdentity("org.samples.Person"))
	require.NoError(t, err)
	assert.Equal(t, want, path)

	tree, err := p.Tree(models.ParseTypeIdentity("org.samples.Person"))
	require.NoError(t, err)
	assert.Len(t, tree.DeclarationsNamed("real"), 1)
}

func TestProvider_SearchDisabledAndExcluded(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "build/generated/Person.java", "package org.samples;\nclass Person {}\n")
	id := models.ParseTypeIdentity("org.samples.Person")

	tests := []struct {
		name string
		opts []Option
	}{
		{"search disabled", []Option{WithRoots(root), WithSearch(false)}},
		{"excluded directory", []Option{WithRoots(root), WithExcludes("build/**")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(javasrc.NewParser(), tt.opts...)
			_, err := p.Tree(id)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
			assert.Contains(t, err.Error(), "org/samples/Person.java")
		})
	}
}

func TestProvider_SyntaxError(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "org/samples/Broken.java", "package org.samples;\nclass Broken { void f( }\n")

	p := NewProvider(javasrc.NewParser(), WithRoots(root))
	_, err := p.Tree(models.ParseTypeIdentity("org.samples.Broken"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.SyntaxErrorCode))
}

func TestProvider_MemoryCache(t *testing.T) {
	root := t.TempDir()
	path := writeSource(t, root, "org/samples/Person.java", "package org.samples;\nclass Person { void a() {} }\n")
	parser := &countingParser{SourceParser: javasrc.NewParser()}
	p := NewProvider(parser, WithRoots(root))
	id := models.ParseTypeIdentity("org.samples.Person")

	first, err := p.Tree(id)
	require.NoError(t, err)
	second, err := p.Tree(id)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), parser.calls.Load())
	assert.Equal(t, 1, p.CacheStats().Hits)

	require.NoError(t, os.WriteFile(path, []byte("package org.samples;\nclass Person { void a() {} void b() {} }\n"), 0644))
	third, err := p.Tree(id)
	require.NoError(t, err)
	assert.Len(t, third.DeclarationsNamed("b"), 1)
	assert.Equal(t, int32(2), parser.calls.Load())

	p.Invalidate()
	assert.Zero(t, p.CacheStats().Size)
}

func TestProvider_PersistentStore(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "org/samples/Person.java", "package org.samples;\nclass Person { void a(int x) {} }\n")
	id := models.ParseTypeIdentity("org.samples.Person")

	trees, err := store.Open(filepath.Join(t.TempDir(), "trees.db"))
	require.NoError(t, err)
	defer trees.Close()

	warm := &countingParser{SourceParser: javasrc.NewParser()}
	_, err = NewProvider(warm, WithRoots(root), WithStore(trees)).Tree(id)
	require.NoError(t, err)
	assert.Equal(t, int32(1), warm.calls.Load())

	cold := &countingParser{SourceParser: javasrc.NewParser()}
	tree, err := NewProvider(cold, WithRoots(root), WithStore(trees)).Tree(id)
	require.NoError(t, err)
	assert.Zero(t, cold.calls.Load())
	require.Len(t, tree.DeclarationsNamed("a"), 1)
	assert.Equal(t, "int", tree.DeclarationsNamed("a")[0].Parameters[0].Type.String())
}

func TestWalker(t *testing.T) {
	root := t.TempDir()
	a := writeSource(t, root, "a/A.java", "")
	writeSource(t, root, "a/A.class", "")
	writeSource(t, root, "target/B.java", "")
	c := writeSource(t, root, "z/deep/C.java", "")

	files, err := NewWalker([]string{"**/*.java"}, []string{"target/**"}).Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, files)
}
