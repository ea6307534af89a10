package content

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/typeahead/internal/domain"
)

// MixinHiddenFromInternalSearch marks node types that never reach the internal search.
const MixinHiddenFromInternalSearch = "Typeahead:Mixin.HiddenFromInternalSearch"

// LanguageDimension is the dimension holding the node's language.
const LanguageDimension = "language"

// ScopeSeparator joins the parts of a suggestion context identifier.
// Site and workspace names must not contain it.
const ScopeSeparator = "|"

// Node is a content repository node as seen by the search layer (immutable value object).
type Node struct {
	identifier string
	path       string
	siteName   string
	workspace  string
	hidden     bool
	nodeType   string
	superTypes []string
	properties map[string]any
	dimensions Dimensions
}

// NewNode validates and creates a Node.
func NewNode(
	identifier, path, siteName, workspace string, hidden bool,
	nodeType string, superTypes []string,
	properties map[string]any, dimensions Dimensions,
) (Node, error) {
	if identifier == "" {
		return Node{}, fmt.Errorf("node identifier is required: %w", domain.ErrValidation)
	}
	if !strings.HasPrefix(path, "/") {
		return Node{}, fmt.Errorf("node path must be absolute, got %q: %w", path, domain.ErrValidation)
	}
	if strings.Contains(siteName, ScopeSeparator) {
		return Node{}, fmt.Errorf("site name must not contain %q: %w", ScopeSeparator, domain.ErrValidation)
	}
	if workspace == "" {
		workspace = "live"
	}
	if strings.Contains(workspace, ScopeSeparator) {
		return Node{}, fmt.Errorf("workspace must not contain %q: %w", ScopeSeparator, domain.ErrValidation)
	}
	return Node{
		identifier: identifier,
		path:       path,
		siteName:   siteName,
		workspace:  workspace,
		hidden:     hidden,
		nodeType:   nodeType,
		superTypes: append([]string(nil), superTypes...),
		properties: cloneProperties(properties),
		dimensions: dimensions.Clone(),
	}, nil
}

// Identifier returns the node identifier.
func (n *Node) Identifier() string { return n.identifier }

// Path returns the absolute node path.
func (n *Node) Path() string { return n.path }

// SiteName returns the name of the site the node belongs to.
func (n *Node) SiteName() string { return n.siteName }

// Workspace returns the workspace name.
func (n *Node) Workspace() string { return n.workspace }

// IsHidden reports whether the node itself is hidden.
func (n *Node) IsHidden() bool { return n.hidden }

// NodeType returns the node type name.
func (n *Node) NodeType() string { return n.nodeType }

// SuperTypes returns the node type's declared super types.
func (n *Node) SuperTypes() []string { return n.superTypes }

// Properties returns all node properties.
func (n *Node) Properties() map[string]any { return n.properties }

// Dimensions returns the node's dimension values.
func (n *Node) Dimensions() Dimensions { return n.dimensions }

// Property returns a property value and whether it is set.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.properties[name]
	return v, ok
}

// IsOfType reports whether the node type is typeName or inherits from it.
func (n *Node) IsOfType(typeName string) bool {
	if n.nodeType == typeName {
		return true
	}
	for _, st := range n.superTypes {
		if st == typeName {
			return true
		}
	}
	return false
}

// IsExcludedFromIndex reports whether the node type is hidden from the internal search.
func (n *Node) IsExcludedFromIndex() bool {
	return n.IsOfType(MixinHiddenFromInternalSearch)
}

// Language returns the first value of the language dimension, or "" when absent.
func (n *Node) Language() string {
	return n.dimensions.First(LanguageDimension)
}

// ParentPaths returns the node path and all of its ancestor paths, root first.
func (n *Node) ParentPaths() []string {
	parts := strings.Split(strings.Trim(n.path, "/"), "/")
	paths := make([]string, 0, len(parts))
	current := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		current += "/" + p
		paths = append(paths, current)
	}
	return paths
}

// Truthy reports whether a property is set to a value that casts to true:
// true, non-zero numbers, strings other than "" and "0", non-empty lists and maps.
func (n *Node) Truthy(name string) bool {
	v, ok := n.properties[name]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func cloneProperties(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
