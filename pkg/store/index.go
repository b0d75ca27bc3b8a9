// Package store persists the attachment metadata index in a Pebble
// database so collector output can be re-queried without re-scanning the
// CSV export. The index is a write-once batch artifact: one build pass
// writes it, inspection reads it, nothing serves from it.
package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"synparse/pkg/attach"
	"synparse/pkg/logger"
	"synparse/pkg/models"
)

var db *pebble.DB

// keyPrefix namespaces attachment metadata entries.
const keyPrefix = "attach:"

// Open opens (or creates) the Pebble database at path and keeps a package
// handle, mirroring single-process batch usage.
func Open(path string) error {
	var err error
	logger.Info("opening_index_db", zap.String("path", path))
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("index_open_failed", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

// OpenReadOnly opens an existing index for inspection.
func OpenReadOnly(path string) error {
	var err error
	db, err = pebble.Open(path, &pebble.Options{ReadOnly: true})
	return err
}

// Close closes the opened database if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	return nil
}

// Ready reports whether the index is opened.
func Ready() bool { return db != nil }

// Key returns the storage key for an attachment identity. The full
// 4-tuple goes into the key, so same-named attachments from different
// contexts occupy distinct entries by construction.
func Key(ref models.AttachmentRef) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%s:%s", keyPrefix, ref.Type, ref.Direction, ref.Day, ref.Name))
}

// SaveMeta writes one attachment's owning-message metadata.
func SaveMeta(meta attach.Meta) error {
	if db == nil {
		return fmt.Errorf("index not opened; call store.Open first")
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal attachment meta: %w", err)
	}
	return db.Set(Key(meta.Ref), data, pebble.Sync)
}

// GetMeta looks up the metadata for an attachment identity.
func GetMeta(ref models.AttachmentRef) (attach.Meta, bool, error) {
	var meta attach.Meta
	if db == nil {
		return meta, false, fmt.Errorf("index not opened; call store.Open first")
	}
	val, closer, err := db.Get(Key(ref))
	if err == pebble.ErrNotFound {
		return meta, false, nil
	}
	if err != nil {
		return meta, false, err
	}
	defer closer.Close()
	if err := json.Unmarshal(val, &meta); err != nil {
		return meta, false, fmt.Errorf("unmarshal attachment meta: %w", err)
	}
	return meta, true, nil
}

// BuildFrom writes a full reverse index in one batch and returns the entry
// count.
func BuildFrom(index attach.Index) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("index not opened; call store.Open first")
	}
	batch := db.NewBatch()
	defer batch.Close()
	n := 0
	for _, meta := range index {
		data, err := json.Marshal(meta)
		if err != nil {
			return n, err
		}
		if err := batch.Set(Key(meta.Ref), data, nil); err != nil {
			return n, err
		}
		n++
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, err
	}
	logger.Info("index_built", zap.Int("entries", n))
	return n, nil
}

// Each iterates every stored entry in key order.
func Each(fn func(key string, meta attach.Meta) error) error {
	if db == nil {
		return fmt.Errorf("index not opened; call store.Open first")
	}
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "\xff"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()
	for iter.First(); iter.Valid(); iter.Next() {
		key := string(iter.Key())
		if !strings.HasPrefix(key, keyPrefix) {
			continue
		}
		var meta attach.Meta
		if err := json.Unmarshal(iter.Value(), &meta); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		if err := fn(key, meta); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Count returns the number of stored entries.
func Count() (int, error) {
	n := 0
	err := Each(func(string, attach.Meta) error {
		n++
		return nil
	})
	return n, err
}
