package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/locus/internal/models"
	"github.com/toyz/locus/internal/utils"
)

func openTestStore(t *testing.T) *TreeStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache", "trees.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTree() *models.SyntaxTree {
	return &models.SyntaxTree{
		Path:    "/src/org/samples/Person.java",
		Package: "org.samples",
		Types:   []string{"Person"},
		Declarations: []*models.ParsedDeclaration{
			{
				Name:           "getAge",
				Kind:           models.MethodDeclaration,
				Owner:          "Person",
				TypeParameters: []string{"T"},
				Parameters: []models.ParsedParameter{
					{Name: "offset", Type: models.Named("int")},
					{Name: "markers", Type: models.Array(models.Named("T"), 1)},
				},
				Range: &models.SourceRange{
					Begin: models.Position{Line: 35, Column: 5},
					End:   models.Position{Line: 39, Column: 5},
				},
			},
		},
	}
}

func TestTreeStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	stamp := utils.FileStamp{ModTime: time.Unix(1700000000, 123456789), Size: 512}

	require.NoError(t, s.Put("/src/org/samples/Person.java", stamp, "participle", sampleTree()))

	tree, ok, err := s.Get("/src/org/samples/Person.java", stamp, "participle")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleTree(), tree)
}

func TestTreeStore_Misses(t *testing.T) {
	s := openTestStore(t)
	stamp := utils.FileStamp{ModTime: time.Unix(1700000000, 0), Size: 512}
	require.NoError(t, s.Put("/src/Person.java", stamp, "participle", sampleTree()))

	tests := []struct {
		name   string
		path   string
		stamp  utils.FileStamp
		parser string
	}{
		{"unknown path", "/src/Other.java", stamp, "participle"},
		{"modified file", "/src/Person.java", utils.FileStamp{ModTime: time.Unix(1700000001, 0), Size: 512}, "participle"},
		{"resized file", "/src/Person.java", utils.FileStamp{ModTime: stamp.ModTime, Size: 513}, "participle"},
		{"other backend", "/src/Person.java", stamp, "treesitter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, ok, err := s.Get(tt.path, tt.stamp, tt.parser)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, tree)
		})
	}
}

func TestTreeStore_PurgeAndStats(t *testing.T) {
	s := openTestStore(t)
	stamp := utils.FileStamp{ModTime: time.Unix(1700000000, 0), Size: 1}

	require.NoError(t, s.Put("/a/A.java", stamp, "participle", sampleTree()))
	require.NoError(t, s.Put("/a/B.java", stamp, "participle", sampleTree()))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Positive(t, stats.Bytes)
	assert.Equal(t, s.Path(), stats.Path)

	require.NoError(t, s.Delete("/a/A.java"))

	removed, err := s.Purge()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	stats, err = s.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestTreeStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trees.db")
	stamp := utils.FileStamp{ModTime: time.Unix(1700000000, 0), Size: 1}

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("/a/A.java", stamp, "treesitter", sampleTree()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("/a/A.java", stamp, "treesitter")
	require.NoError(t, err)
	assert.True(t, ok)
}
