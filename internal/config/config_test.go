package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/locus/internal/descriptor"
	"github.com/toyz/locus/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"src/main/java"}, cfg.Source.Roots)
	assert.Equal(t, ".java", cfg.Source.Extension)
	assert.Equal(t, "participle", cfg.Source.Parser)
	assert.True(t, cfg.Source.Search)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "127.0.0.1:7878", cfg.Server.Addr)
	assert.Equal(t, descriptor.SimpleNames, cfg.CompiledNaming())
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `
source:
  roots: [app/src, lib/src]
  parser: treesitter
naming:
  qualified: true
output:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"app/src", "lib/src"}, cfg.Source.Roots)
	assert.Equal(t, "treesitter", cfg.Source.Parser)
	assert.Equal(t, ".java", cfg.Source.Extension, "unset keys keep their defaults")
	assert.Equal(t, descriptor.QualifiedNames, cfg.CompiledNaming())
	assert.Equal(t, "json", cfg.Output.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingAndInvalid(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("source: [unclosed"), 0644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	nested := DefaultConfig()
	nested.Logging.Level = "debug"
	require.NoError(t, nested.Save(filepath.Join(dir, ".locus", "config.yaml")))

	cfg, err = LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)

	top := DefaultConfig()
	top.Server.Addr = ":9000"
	require.NoError(t, top.Save(filepath.Join(dir, FileName)))

	cfg, err = LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr, "locus.yaml wins over .locus/config.yaml")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Roots = nil
	cfg.Source.Extension = "java"
	cfg.Source.Parser = "javac"
	cfg.Source.Excludes = []string{"[broken"}
	cfg.Cache.Enabled = true
	cfg.Cache.Path = ""
	cfg.Output.Format = "xml"
	cfg.Server.Addr = " "
	cfg.Logging.Level = "chatty"

	err := cfg.Validate()
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 8, multi.Count())

	fields := make([]interface{}, 0, multi.Count())
	for _, e := range multi.Errors {
		fields = append(fields, e.Context()["field"])
	}
	assert.Equal(t, []interface{}{
		"source.roots", "source.extension", "source.parser", "source.excludes[0]",
		"cache.path", "output.format", "server.addr", "logging.level",
	}, fields)
}

func TestValidate_ParserAliases(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Parser = "tree-sitter"
	assert.NoError(t, cfg.Validate())
}
