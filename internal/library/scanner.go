// Package library lists the documents available for translation in the
// uploads directory.
package library

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tajreba/doc-translator/internal/document"
)

// Document describes one uploadable file in the library.
type Document struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Format   string    `json:"format"`
	ModTime  time.Time `json:"mod_time"`
	Artifact bool      `json:"artifact"`
}

type scanCache struct {
	scanned   time.Time
	documents []Document
}

// Scanner enumerates translatable documents in one directory, with a short
// TTL cache so rapid UI polling does not hammer the filesystem.
type Scanner struct {
	dir string

	mu       sync.RWMutex
	cacheTTL time.Duration
	cache    *scanCache
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithCacheTTL overrides the scan cache lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Scanner) { s.cacheTTL = ttl }
}

// NewScanner creates a scanner over dir.
func NewScanner(dir string, opts ...Option) *Scanner {
	s := &Scanner{dir: dir, cacheTTL: 5 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the scanned directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// Resolve maps a library name to its absolute path, or ok=false when the
// file does not exist in the library.
func (s *Scanner) Resolve(name string) (string, bool) {
	base := filepath.Base(name)
	if base != name || name == "" {
		return "", false
	}
	path := filepath.Join(s.dir, base)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Scan lists documents newest-first, serving from cache within the TTL.
func (s *Scanner) Scan() ([]Document, error) {
	s.mu.RLock()
	if s.cache != nil && time.Since(s.cache.scanned) < s.cacheTTL {
		docs := s.cache.documents
		s.mu.RUnlock()
		return docs, nil
	}
	s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !document.Supported(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, Document{
			Name:     entry.Name(),
			Size:     info.Size(),
			Format:   strings.TrimPrefix(strings.ToLower(filepath.Ext(entry.Name())), "."),
			ModTime:  info.ModTime(),
			Artifact: isArtifact(entry.Name()),
		})
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ModTime.After(docs[j].ModTime)
	})

	s.mu.Lock()
	s.cache = &scanCache{scanned: time.Now(), documents: docs}
	s.mu.Unlock()
	return docs, nil
}

// isArtifact marks documents the pipeline itself generated.
func isArtifact(name string) bool {
	return strings.HasPrefix(name, "translated_") || strings.HasPrefix(name, "exported_")
}
