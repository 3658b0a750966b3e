package service

import (
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/toyz/locus/internal/classfile"
	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
)

// Manifest lists the inputs of a batch run
type Manifest struct {
	Signatures []string `yaml:"signatures"`
	Classes    []string `yaml:"classes"` // doublestar globs of .class files
}

// LoadManifest reads a batch manifest from a YAML file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.WrapConfigurationError(path, "parse", err).
			WithSuggestion("a manifest has 'signatures' and 'classes' lists")
	}
	return &manifest, nil
}

// ClassFiles expands doublestar patterns into a sorted, de-duplicated file list
func ClassFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Wrapf(errors.ConfigurationErrorCode, err, "invalid class pattern '%s'", pattern)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// SignaturesFromClasses reads every class file matching patterns and returns
// the signatures of their source-declared methods and constructors
func (s *Service) SignaturesFromClasses(patterns []string) ([]models.CompiledSignature, error) {
	files, err := ClassFiles(patterns)
	if err != nil {
		return nil, err
	}

	var sigs []models.CompiledSignature
	for _, file := range files {
		class, err := classfile.ReadFile(file)
		if err != nil {
			return nil, err
		}
		classSigs, err := class.Signatures(s.naming)
		if err != nil {
			return nil, err
		}
		s.diagnostics.Debug("%s: %d signatures", file, len(classSigs))
		sigs = append(sigs, classSigs...)
	}
	return sigs, nil
}
