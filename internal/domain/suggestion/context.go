// Package suggestion holds the suggestion context and the weighted completion entries
// written next to every indexed node.
package suggestion

import (
	"strings"

	"github.com/kailas-cloud/typeahead/internal/domain/content"
)

// Visibility of a node inside the suggestion index.
type Visibility string

const (
	// Visible nodes are offered as suggestions.
	Visible Visibility = "visible"
	// Hidden nodes are indexed but never match a search-time context.
	Hidden Visibility = "hidden"
)

// Properties that hide a node from suggestions when truthy.
const (
	PropertyMetaRobotsNoindex     = "metaRobotsNoindex"
	PropertyInternalSearchNoIndex = "internalSearchNoIndex"
)

// Context scopes suggestion matches to a site, a workspace, a visibility and a
// dimension combination.
type Context struct {
	SiteName       string
	Workspace      string
	Visibility     Visibility
	DimensionsHash string // digest of the node's dimension combination
}

// ForIndex derives the context stored with an indexed node.
func ForIndex(n *content.Node) Context {
	return build(n, visibilityOf(n))
}

// ForSearch derives the context a query issued below n must match: only visible entries.
func ForSearch(n *content.Node) Context {
	return build(n, Visible)
}

// build is shared by the index and the search side; both must produce identical identifiers.
func build(n *content.Node, v Visibility) Context {
	return Context{
		SiteName:       n.SiteName(),
		Workspace:      n.Workspace(),
		Visibility:     v,
		DimensionsHash: n.Dimensions().Digest(),
	}
}

func visibilityOf(n *content.Node) Visibility {
	if n.IsHidden() ||
		n.Truthy(PropertyMetaRobotsNoindex) ||
		n.IsExcludedFromIndex() ||
		n.Truthy(PropertyInternalSearchNoIndex) {
		return Hidden
	}
	return Visible
}

// Values returns the context as the {siteName, workspace, isHidden, dimensions} mapping.
func (c Context) Values() map[string]string {
	return map[string]string{
		"siteName":   c.SiteName,
		"workspace":  c.Workspace,
		"isHidden":   string(c.Visibility),
		"dimensions": c.DimensionsHash,
	}
}

// Identifier serializes the context for the completion suggester. Site and
// workspace names never contain content.ScopeSeparator.
func (c Context) Identifier() string {
	return strings.Join(
		[]string{c.SiteName, c.Workspace, string(c.Visibility), c.DimensionsHash},
		content.ScopeSeparator,
	)
}
