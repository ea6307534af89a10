package typeahead

import (
	"github.com/kailas-cloud/typeahead/internal/domain/content"
	domsuggest "github.com/kailas-cloud/typeahead/internal/domain/suggest"
)

// Dimensions maps a dimension name to its ordered values, e.g. {"language": ["de"]}.
type Dimensions map[string][]string

// Node is a content node to index.
type Node struct {
	Identifier string
	Path       string
	SiteName   string
	Workspace  string // default "live"
	Hidden     bool
	NodeType   string
	SuperTypes []string
	Properties map[string]any
	Dimensions Dimensions
}

// Result is the answer to a keystroke. Errors carries backend failures; the
// lists are then empty.
type Result struct {
	Completions []string
	Suggestions []map[string]any
	Errors      []string
}

// Failed reports whether the backend could not answer.
func (r Result) Failed() bool { return len(r.Errors) > 0 }

// IndexResult is the document written for an indexed node.
type IndexResult struct {
	ID       string
	Document map[string]any
}

func (n *Node) toDomain() (content.Node, error) {
	//nolint:wrapcheck // domain errors are returned as-is
	return content.NewNode(
		n.Identifier, n.Path, n.SiteName, n.Workspace, n.Hidden,
		n.NodeType, n.SuperTypes, n.Properties, content.Dimensions(n.Dimensions),
	)
}

func resultFromDomain(r domsuggest.Result) Result {
	return Result{
		Completions: r.Completions,
		Suggestions: r.Suggestions,
		Errors:      r.Errors,
	}
}
