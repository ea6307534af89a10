package content

import (
	domcontent "github.com/kailas-cloud/typeahead/internal/domain/content"
)

// nodeDTO is the stored JSON shape of a content node.
type nodeDTO struct {
	Identifier string                `json:"identifier"`
	Path       string                `json:"path"`
	SiteName   string                `json:"site_name"`
	Workspace  string                `json:"workspace"`
	Hidden     bool                  `json:"hidden"`
	NodeType   string                `json:"node_type"`
	SuperTypes []string              `json:"super_types,omitempty"`
	Properties map[string]any        `json:"properties,omitempty"`
	Dimensions domcontent.Dimensions `json:"dimensions,omitempty"`
}

func toDTO(n *domcontent.Node) nodeDTO {
	return nodeDTO{
		Identifier: n.Identifier(),
		Path:       n.Path(),
		SiteName:   n.SiteName(),
		Workspace:  n.Workspace(),
		Hidden:     n.IsHidden(),
		NodeType:   n.NodeType(),
		SuperTypes: n.SuperTypes(),
		Properties: n.Properties(),
		Dimensions: n.Dimensions(),
	}
}

func (d nodeDTO) toDomain() (domcontent.Node, error) {
	return domcontent.NewNode(
		d.Identifier, d.Path, d.SiteName, d.Workspace, d.Hidden,
		d.NodeType, d.SuperTypes, d.Properties, d.Dimensions,
	)
}
