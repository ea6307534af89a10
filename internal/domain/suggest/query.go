// Package suggest holds the validated search-as-you-type query and its result shape.
package suggest

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/domain/content"
)

// MaxTermLength is the maximum accepted term length in bytes.
const MaxTermLength = 256

// reserved query syntax characters removed from terms
var sanitizer = strings.NewReplacer(
	"=", "", ">", "", "<", "", "(", "", ")", "", "{", "", "}", "",
	"[", "", "]", "", "^", "", `"`, "", "~", "", "*", "", "?", "",
	":", "", `\`, "", "/", "", "+", "", "|", "", "#", "", "@", "", "&", "",
)

// Query is a validated suggest request.
type Query struct {
	term                  string
	contextNodeIdentifier string
	dimensions            content.Dimensions
}

// NewQuery validates the raw term and scope. term must be a string.
func NewQuery(term any, contextNodeIdentifier string, dimensions content.Dimensions) (Query, error) {
	s, ok := term.(string)
	if !ok {
		return Query{}, domain.ErrInvalidTerm
	}
	if len(s) > MaxTermLength {
		return Query{}, fmt.Errorf("term too long (max %d bytes): %w", MaxTermLength, domain.ErrValidation)
	}
	if contextNodeIdentifier == "" {
		return Query{}, fmt.Errorf("contextNodeIdentifier is required: %w", domain.ErrValidation)
	}
	return Query{
		term:                  s,
		contextNodeIdentifier: contextNodeIdentifier,
		dimensions:            dimensions.Clone(),
	}, nil
}

// Term returns the raw term.
func (q *Query) Term() string { return q.term }

// ContextNodeIdentifier returns the identifier of the node scoping the query.
func (q *Query) ContextNodeIdentifier() string { return q.contextNodeIdentifier }

// Dimensions returns the dimension combination of the scope.
func (q *Query) Dimensions() content.Dimensions { return q.dimensions }

// ScopeKey identifies the template for this query's scope.
func (q *Query) ScopeKey() string {
	return content.ScopeKey(q.contextNodeIdentifier, q.dimensions)
}

// FullTerm returns the sanitized, lower-cased term.
func (q *Query) FullTerm() string {
	return Sanitize(strings.ToLower(q.term))
}

// FirstWordTerm returns the sanitized first space-delimited word of the lower-cased term.
// The completion suggester only works well with a single word.
func (q *Query) FirstWordTerm() string {
	first, _, _ := strings.Cut(strings.ToLower(q.term), " ")
	return Sanitize(first)
}

// Sanitize removes characters with a meaning in the search syntax.
func Sanitize(term string) string {
	return sanitizer.Replace(term)
}
