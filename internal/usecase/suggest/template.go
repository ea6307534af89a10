package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/domain/content"
	"github.com/kailas-cloud/typeahead/internal/domain/suggestion"
)

// Placeholders embedded in cached templates. They never occur in sanitized terms.
const (
	FullTermPlaceholder      = "---term-soh2gufuNi---"
	FirstWordTermPlaceholder = "---term-dae5kaJ1ie---"
)

const (
	aggregationName = "autocomplete"
	suggesterName   = "suggestions"
)

type request struct {
	Query   query                `json:"query"`
	Size    int                  `json:"size"`
	Aggs    map[string]agg       `json:"aggs,omitempty"`
	Suggest map[string]suggester `json:"suggest,omitempty"`
	Source  []string             `json:"_source"`
}

type query struct {
	Bool boolQuery `json:"bool"`
}

type boolQuery struct {
	Filter  []clause `json:"filter"`
	MustNot []clause `json:"must_not"`
}

// clause is a single leaf query such as {"term": {"field": value}}.
type clause map[string]map[string]any

type agg struct {
	Terms termsAgg `json:"terms"`
}

type termsAgg struct {
	Field   string            `json:"field"`
	Order   map[string]string `json:"order"`
	Include string            `json:"include"`
	Size    int               `json:"size"`
}

type suggester struct {
	Prefix     string         `json:"prefix"`
	Completion completionSpec `json:"completion"`
}

type completionSpec struct {
	Field    string              `json:"field"`
	Fuzzy    bool                `json:"fuzzy"`
	Size     int                 `json:"size"`
	Contexts map[string][]string `json:"contexts"`
}

// BuildTemplate serializes the suggest request for queries below node, with both
// term placeholders still embedded. The output is deterministic for a given node
// and settings.
func BuildTemplate(node *content.Node, settings domain.SuggestSettings) (string, error) {
	req := request{
		Query: query{Bool: boolQuery{
			Filter: []clause{
				{"term": {domain.FieldParentPath: node.Path()}},
				{"term": {domain.FieldWorkspace: node.Workspace()}},
				{"term": {domain.FieldDimensionsHash: node.Dimensions().Digest()}},
				{"prefix": {domain.FieldCompletion: FullTermPlaceholder}},
			},
			MustNot: []clause{
				{"term": {domain.FieldHidden: true}},
			},
		}},
		Size:   0,
		Source: sourceFields(settings.SourceFields),
	}

	if settings.AutocompleteEnabled {
		req.Aggs = map[string]agg{
			aggregationName: {Terms: termsAgg{
				Field:   domain.FieldCompletion,
				Order:   map[string]string{"_count": "desc"},
				Include: FullTermPlaceholder + ".*",
				Size:    sizeOrDefault(settings.AutocompleteSize),
			}},
		}
	}

	if settings.SuggestionsEnabled {
		req.Suggest = map[string]suggester{
			suggesterName: {
				Prefix: FirstWordTermPlaceholder,
				Completion: completionSpec{
					Field: domain.FieldSuggestion,
					Fuzzy: true,
					Size:  sizeOrDefault(settings.SuggestionsSize),
					Contexts: map[string][]string{
						domain.SuggestionContextName: {suggestion.ForSearch(node).Identifier()},
					},
				},
			},
		}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal template: %w", err)
	}
	return string(data), nil
}

// Substitute returns the request body for the given terms. tpl is not modified.
func Substitute(tpl, fullTerm, firstWordTerm string) []byte {
	r := strings.NewReplacer(
		FullTermPlaceholder, jsonEscape(fullTerm),
		FirstWordTermPlaceholder, jsonEscape(firstWordTerm),
	)
	return []byte(r.Replace(tpl))
}

// jsonEscape returns s encoded as the inside of a JSON string literal.
func jsonEscape(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b[1 : len(b)-1])
}

func sourceFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{domain.FieldPath}
	}
	return out
}

func sizeOrDefault(n int) int {
	if n <= 0 {
		return 10
	}
	return n
}
