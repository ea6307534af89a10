package suggest

import (
	"errors"

	"github.com/tidwall/gjson"
)

var errInvalidResponse = errors.New("invalid search response")

// extract reads the aggregation bucket keys and the first suggester's option sources.
// Absent sections yield empty lists.
func extract(body []byte) ([]string, []map[string]any, error) {
	if !gjson.ValidBytes(body) {
		return nil, nil, errInvalidResponse
	}

	keys := gjson.GetBytes(body, "aggregations."+aggregationName+".buckets.#.key").Array()
	completions := make([]string, 0, len(keys))
	for _, k := range keys {
		completions = append(completions, k.String())
	}

	sources := gjson.GetBytes(body, "suggest."+suggesterName+".0.options.#._source").Array()
	suggestions := make([]map[string]any, 0, len(sources))
	for _, src := range sources {
		if m, ok := src.Value().(map[string]any); ok {
			suggestions = append(suggestions, m)
		}
	}
	return completions, suggestions, nil
}
