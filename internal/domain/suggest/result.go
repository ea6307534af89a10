package suggest

// Result is the suggest response envelope. Errors carries recoverable backend failures.
type Result struct {
	Completions []string         `json:"completions"`
	Suggestions []map[string]any `json:"suggestions"`
	Errors      []string         `json:"errors,omitempty"`
}

// EmptyResult returns a result with empty, non-nil lists.
func EmptyResult() Result {
	return Result{
		Completions: []string{},
		Suggestions: []map[string]any{},
	}
}

// Failed returns an empty result carrying a single error message.
func Failed(message string) Result {
	r := EmptyResult()
	r.Errors = []string{message}
	return r
}
