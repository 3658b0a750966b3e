// Package store persists parsed syntax trees between runs in a bbolt file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
	"github.com/toyz/locus/internal/utils"
)

// FormatVersion changes whenever the stored tree layout changes; entries
// written under another version are ignored.
const FormatVersion = 1

var (
	bucketTrees = []byte("trees")
	bucketMeta  = []byte("meta")
	keyVersion  = []byte("format_version")
)

// TreeStore caches syntax trees keyed by absolute source path. An entry is
// only served when the file stamp and parser backend both match.
type TreeStore struct {
	db   *bbolt.DB
	path string
}

type treeEntry struct {
	ModTime int64              `json:"mod_time"`
	Size    int64              `json:"size"`
	Parser  string             `json:"parser"`
	Version int                `json:"version"`
	Tree    *models.SyntaxTree `json:"tree"`
}

// Stats describes the store contents
type Stats struct {
	Path    string `json:"path" yaml:"path"`
	Entries int    `json:"entries" yaml:"entries"`
	Bytes   int64  `json:"bytes" yaml:"bytes"`
}

// Open opens or creates the store at path, creating parent directories
func Open(path string) (*TreeStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.WrapFileSystemError("create directory for", path, err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.WrapStoreError("open", err).WithContext("path", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketTrees, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return tx.Bucket(bucketMeta).Put(keyVersion, []byte(fmt.Sprint(FormatVersion)))
	})
	if err != nil {
		db.Close()
		return nil, errors.WrapStoreError("initialize", err).WithContext("path", path)
	}

	return &TreeStore{db: db, path: path}, nil
}

// Path returns the database file location
func (s *TreeStore) Path() string {
	return s.path
}

// Get returns the stored tree for sourcePath when it was produced by parser
// from a file with the given stamp
func (s *TreeStore) Get(sourcePath string, stamp utils.FileStamp, parser string) (*models.SyntaxTree, bool, error) {
	var tree *models.SyntaxTree
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTrees).Get([]byte(sourcePath))
		if data == nil {
			return nil
		}
		var entry treeEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		if entry.Version != FormatVersion || entry.Parser != parser {
			return nil
		}
		stored := utils.FileStamp{ModTime: time.Unix(0, entry.ModTime), Size: entry.Size}
		if !stored.Matches(stamp) {
			return nil
		}
		tree = entry.Tree
		return nil
	})
	if err != nil {
		return nil, false, errors.WrapStoreError("read", err).WithContext("source", sourcePath)
	}
	return tree, tree != nil, nil
}

// Put stores tree for sourcePath, replacing any previous entry
func (s *TreeStore) Put(sourcePath string, stamp utils.FileStamp, parser string, tree *models.SyntaxTree) error {
	entry := treeEntry{
		ModTime: stamp.ModTime.UnixNano(),
		Size:    stamp.Size,
		Parser:  parser,
		Version: FormatVersion,
		Tree:    tree,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return errors.WrapStoreError("encode", err).WithContext("source", sourcePath)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTrees).Put([]byte(sourcePath), data)
	})
	if err != nil {
		return errors.WrapStoreError("write", err).WithContext("source", sourcePath)
	}
	return nil
}

// Delete removes the entry for sourcePath
func (s *TreeStore) Delete(sourcePath string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTrees).Delete([]byte(sourcePath))
	})
	if err != nil {
		return errors.WrapStoreError("delete", err).WithContext("source", sourcePath)
	}
	return nil
}

// Purge removes every stored tree and returns how many were dropped
func (s *TreeStore) Purge() (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		removed = tx.Bucket(bucketTrees).Stats().KeyN
		if err := tx.DeleteBucket(bucketTrees); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketTrees)
		return err
	})
	if err != nil {
		return 0, errors.WrapStoreError("purge", err)
	}
	return removed, nil
}

// Stats reports the number of entries and the database size
func (s *TreeStore) Stats() (Stats, error) {
	stats := Stats{Path: s.path}
	err := s.db.View(func(tx *bbolt.Tx) error {
		stats.Entries = tx.Bucket(bucketTrees).Stats().KeyN
		stats.Bytes = tx.Size()
		return nil
	})
	if err != nil {
		return Stats{}, errors.WrapStoreError("stats", err)
	}
	return stats, nil
}

// Close releases the database file lock
func (s *TreeStore) Close() error {
	return s.db.Close()
}
