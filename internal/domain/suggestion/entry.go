package suggestion

import "github.com/kailas-cloud/typeahead/internal/domain"

// Entry is a weighted completion suggester input.
type Entry struct {
	Input    []string            `json:"input"`
	Weight   int                 `json:"weight"`
	Contexts map[string][]string `json:"contexts,omitempty"`
}

// NewEntries builds the completion entries for a token sequence.
// Empty token sequences produce no entries; weights below 1 are raised to 1.
func NewEntries(tokens []string, weight int, ctx Context) []Entry {
	input := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			input = append(input, t)
		}
	}
	if len(input) == 0 {
		return []Entry{}
	}
	if weight < 1 {
		weight = 1
	}
	return []Entry{{
		Input:  input,
		Weight: weight,
		Contexts: map[string][]string{
			domain.SuggestionContextName: {ctx.Identifier()},
		},
	}}
}
