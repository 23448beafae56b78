package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ZaguanLabs/pagetl"
)

// SnapshotVersion is the only snapshot format Load accepts.
const SnapshotVersion = "1"

// Snapshot is the JSON form of a saved cache.
type Snapshot struct {
	Version  string            `json:"version"`
	SavedAt  string            `json:"saved_at"`
	Entries  []SnapshotEntry   `json:"entries"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SnapshotEntry is a single cache entry.
type SnapshotEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Enumerable is a cache whose entries can be listed. *InMemoryCache
// satisfies it.
type Enumerable interface {
	Entries() map[string]string
}

// LoadResult contains statistics about a load.
type LoadResult struct {
	Metadata map[string]string
	Loaded   int
	Failed   int
}

// Save writes every entry of src to w. Entries are sorted by key.
func Save(w io.Writer, src Enumerable, metadata map[string]string) error {
	data := src.Entries()
	snap := Snapshot{
		Version:  SnapshotVersion,
		SavedAt:  time.Now().UTC().Format(time.RFC3339),
		Entries:  make([]SnapshotEntry, 0, len(data)),
		Metadata: metadata,
	}
	for k, v := range data {
		snap.Entries = append(snap.Entries, SnapshotEntry{Key: k, Value: v})
	}
	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].Key < snap.Entries[j].Key })

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return &pagetl.CacheError{Message: "encoding snapshot", Cause: err}
	}
	return nil
}

// SaveFile writes a snapshot to path, replacing it atomically.
func SaveFile(path string, src Enumerable, metadata map[string]string) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".pagetl-cache-*")
	if err != nil {
		return &pagetl.CacheError{Message: "creating snapshot", Cause: err}
	}
	tmp := f.Name()

	if err := Save(f, src, metadata); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &pagetl.CacheError{Message: "writing snapshot", Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &pagetl.CacheError{Message: "replacing snapshot", Cause: err}
	}
	return nil
}

// Load reads a snapshot from r into dst.
func Load(r io.Reader, dst pagetl.TranslationCache) (*LoadResult, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, &pagetl.CacheError{Message: "decoding snapshot", Cause: err}
	}
	if snap.Version != SnapshotVersion {
		return nil, &pagetl.CacheError{Message: fmt.Sprintf("unsupported snapshot version %q", snap.Version)}
	}

	result := &LoadResult{Metadata: snap.Metadata}
	for _, e := range snap.Entries {
		if err := dst.Set(e.Key, e.Value); err != nil {
			result.Failed++
			continue
		}
		result.Loaded++
	}
	return result, nil
}

// LoadFile reads the snapshot at path into dst. A missing file returns an
// error matching os.ErrNotExist.
func LoadFile(path string, dst pagetl.TranslationCache) (*LoadResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f, dst)
}
