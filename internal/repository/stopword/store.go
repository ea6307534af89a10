// Package stopword loads per-language and customer-specific stop-word lists.
package stopword

import (
	"bufio"
	"errors"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/kailas-cloud/typeahead/internal/metrics"
	"go.uber.org/zap"
)

const (
	sourceLanguage = "lang"
	sourceCustomer = "customer"
)

// Store holds the stop-word sets. Every file path is attempted at most once;
// the sets only grow for the lifetime of the process.
type Store struct {
	language fs.FS
	customer fs.FS
	logger   *zap.Logger

	mu        sync.RWMutex
	attempted map[string]bool // source:path -> loaded
	byLang    map[string]map[string]struct{}
	global    map[string]struct{}
}

// New creates a store reading <lang>.txt files from language and merging every
// regular file below customer into the global set. customer may be nil.
func New(language, customer fs.FS, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		language:  language,
		customer:  customer,
		logger:    logger,
		attempted: make(map[string]bool),
		byLang:    make(map[string]map[string]struct{}),
		global:    make(map[string]struct{}),
	}
	s.loadCustomer()
	return s
}

func (s *Store) loadCustomer() {
	if s.customer == nil {
		return
	}
	err := fs.WalkDir(s.customer, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("stop-word walk failed", zap.String("path", p), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		s.mu.Lock()
		s.loadLocked(sourceCustomer, s.customer, p, s.global)
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		s.logger.Warn("stop-word walk failed", zap.Error(err))
	}
}

// Load makes sure the stop words of lang are loaded. It reports whether the
// language file exists. Outcomes are memoized, missing files included.
func (s *Store) Load(lang string) bool {
	if lang == "" || strings.ContainsAny(lang, `/\`) {
		return false
	}
	p := lang + ".txt"
	key := memoKey(sourceLanguage, p)

	s.mu.RLock()
	loaded, seen := s.attempted[key]
	s.mu.RUnlock()
	if seen {
		return loaded
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if loaded, seen = s.attempted[key]; seen {
		return loaded
	}
	set, ok := s.byLang[lang]
	if !ok {
		set = make(map[string]struct{})
	}
	if s.loadLocked(sourceLanguage, s.language, p, set) {
		s.byLang[lang] = set
		return true
	}
	return false
}

// Contains reports whether word is a stop word of lang or a global stop word.
// The comparison is case-insensitive.
func (s *Store) Contains(lang, word string) bool {
	w := strings.ToLower(word)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.global[w]; ok {
		return true
	}
	_, ok := s.byLang[lang][w]
	return ok
}

// loadLocked reads p from fsys into set and memoizes the outcome. Caller holds mu.
func (s *Store) loadLocked(source string, fsys fs.FS, p string, set map[string]struct{}) bool {
	key := memoKey(source, p)
	if loaded, seen := s.attempted[key]; seen {
		return loaded
	}
	loaded := s.read(fsys, p, set)
	s.attempted[key] = loaded
	if loaded {
		metrics.StopWordLoadsTotal.WithLabelValues("loaded").Inc()
	} else {
		metrics.StopWordLoadsTotal.WithLabelValues("missing").Inc()
	}
	return loaded
}

func (s *Store) read(fsys fs.FS, p string, set map[string]struct{}) bool {
	if fsys == nil {
		return false
	}
	f, err := fsys.Open(p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("stop-word file unreadable", zap.String("path", p), zap.Error(err))
		}
		return false
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		w := strings.ToLower(strings.TrimRight(sc.Text(), "\r\n"))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
		n++
	}
	if err := sc.Err(); err != nil {
		s.logger.Warn("stop-word file read failed", zap.String("path", p), zap.Error(err))
		return false
	}
	s.logger.Debug("stop words loaded", zap.String("path", p), zap.Int("words", n))
	return true
}

func memoKey(source, p string) string {
	return source + ":" + path.Clean(p)
}
