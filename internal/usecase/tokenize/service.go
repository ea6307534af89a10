// Package tokenize turns plain text into a filtered, order-preserving token sequence.
package tokenize

import (
	"strings"

	"github.com/kailas-cloud/typeahead/internal/domain/token"
	"go.uber.org/zap"
)

// Service tokenizes text against language stop-word lists.
type Service struct {
	stopWords     StopWords
	minWordLength int
	logger        *zap.Logger
}

// New creates a Service. minWordLength <= 0 falls back to token.DefaultMinWordLength.
func New(stopWords StopWords, minWordLength int, logger *zap.Logger) *Service {
	if minWordLength <= 0 {
		minWordLength = token.DefaultMinWordLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{stopWords: stopWords, minWordLength: minWordLength, logger: logger}
}

// Tokenize splits text on single spaces, cleans every candidate and drops empty,
// numeric, short and stop-word candidates. Duplicates are kept.
// An unsupported language yields an empty slice.
func (s *Service) Tokenize(text, lang string, minWordLength int) []string {
	if minWordLength <= 0 {
		minWordLength = s.minWordLength
	}
	if !s.stopWords.Load(lang) {
		s.logger.Warn("tokenization unsupported for language", zap.String("language", lang))
		return []string{}
	}

	candidates := strings.Split(text, " ")
	tokens := make([]string, 0, len(candidates))
	for _, c := range candidates {
		w := token.Clean(c)
		if !token.Acceptable(w, minWordLength) {
			continue
		}
		if s.stopWords.Contains(lang, w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}
