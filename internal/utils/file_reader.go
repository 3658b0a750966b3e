package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/locus/internal/errors"
)

// SourceFile is the content of a file together with the stamp it was read at
type SourceFile struct {
	Path    string
	Content []byte
	Stamp   FileStamp
}

// FileReader reads source files, rejecting unusable paths up front
type FileReader struct {
	maxSize int64
}

// DefaultMaxSourceSize bounds the files the reader will load
const DefaultMaxSourceSize = 8 << 20

// NewFileReader creates a new FileReader with the default size limit
func NewFileReader() *FileReader {
	return &FileReader{maxSize: DefaultMaxSourceSize}
}

// Stat returns the stamp of filePath after validating the path
func (fr *FileReader) Stat(filePath string) (string, FileStamp, error) {
	cleanPath, info, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", FileStamp{}, err
	}
	return cleanPath, StampFromInfo(info), nil
}

// ReadSource reads filePath and records its stamp
func (fr *FileReader) ReadSource(filePath string) (*SourceFile, error) {
	cleanPath, info, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return nil, err
	}
	if info.Size() > fr.maxSize {
		return nil, errors.New(errors.FileSystemErrorCode, "source file too large").
			WithContext("path", cleanPath).
			WithContext("size", info.Size())
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}

	return &SourceFile{
		Path:    cleanPath,
		Content: content,
		Stamp:   StampFromInfo(info),
	}, nil
}

// validateAndCleanPath validates and cleans a file path
func (fr *FileReader) validateAndCleanPath(filePath string) (string, os.FileInfo, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", nil, errors.New(errors.FileSystemErrorCode, "file path cannot be empty")
	}

	cleanPath := filepath.Clean(filePath)

	info, err := os.Stat(cleanPath)
	if os.IsNotExist(err) {
		return "", nil, errors.FileNotFound(cleanPath, nil)
	}
	if err != nil {
		return "", nil, errors.WrapFileSystemError("stat", cleanPath, err)
	}
	if info.IsDir() {
		return "", nil, errors.New(errors.FileSystemErrorCode, "path is a directory").
			WithContext("path", cleanPath)
	}

	return cleanPath, info, nil
}
