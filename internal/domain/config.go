package domain

// KeyPrefix namespaces every key this service writes to the key-value store.
const KeyPrefix = "typeahead:"

// Fields of the search backend documents shared by the indexing and the query side.
const (
	FieldPath              = "neos_path"
	FieldParentPath        = "neos_parent_path"
	FieldWorkspace         = "neos_workspace"
	FieldHidden            = "neos_hidden"
	FieldNodeType          = "neos_node_type"
	FieldCompletion        = "neos_completion"
	FieldSuggestion        = "neos_suggestion"
	FieldSuggestionContext = "neos_suggestion_context"
	FieldDimensionsHash    = "neos_dimensions_hash"
)

// SuggestionContextName is the completion suggester context holding the suggestion context identifier.
const SuggestionContextName = "suggestion_context"

// SuggestSettings controls the autocomplete aggregation and the completion suggester.
type SuggestSettings struct {
	AutocompleteEnabled bool
	AutocompleteSize    int
	SuggestionsEnabled  bool
	SuggestionsSize     int
	SourceFields        []string
}

// DefaultSuggestSettings mirrors the configuration defaults.
func DefaultSuggestSettings() SuggestSettings {
	return SuggestSettings{
		AutocompleteEnabled: true,
		AutocompleteSize:    10,
		SuggestionsEnabled:  true,
		SuggestionsSize:     10,
		SourceFields:        []string{FieldPath},
	}
}

// IndexSettings controls which node properties feed the completion and suggestion fields.
type IndexSettings struct {
	CompletionProperties []string
	SuggestionProperties []string
	SuggestionWeight     int
}

// DefaultIndexSettings mirrors the configuration defaults.
func DefaultIndexSettings() IndexSettings {
	return IndexSettings{
		CompletionProperties: []string{"title", "text"},
		SuggestionProperties: []string{"title"},
		SuggestionWeight:     1,
	}
}
