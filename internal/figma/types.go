package figma

import "github.com/HartBrook/figstyle/internal/styles"

// StylesResponse represents the response from the file styles endpoint.
type StylesResponse struct {
	Status int  `json:"status"`
	Error  bool `json:"error"`
	Meta   Meta `json:"meta"`
}

// Meta contains metadata about published styles in a file.
type Meta struct {
	Styles []StyleMetadata `json:"styles"`
}

// StyleMetadata describes a single published style. The style's values live
// on the node identified by NodeID.
type StyleMetadata struct {
	Key          string `json:"key"`
	FileKey      string `json:"file_key"`
	NodeID       string `json:"node_id"`
	StyleType    string `json:"style_type"` // FILL, TEXT, EFFECT or GRID
	Name         string `json:"name"`
	Description  string `json:"description"`
	SortPosition string `json:"sort_position,omitempty"`
}

// NodesResponse represents the response from the file nodes endpoint.
// Nodes that do not exist map to nil.
type NodesResponse struct {
	Name         string               `json:"name"`
	LastModified string               `json:"lastModified"`
	Version      string               `json:"version"`
	Nodes        map[string]*NodeData `json:"nodes"`
}

// NodeData wraps a node document. The document is kept loosely typed so
// that every paint, effect and grid field reaches the normalizer.
type NodeData struct {
	Document styles.Values `json:"document"`
}

// apiError is the error body returned by the API.
type apiError struct {
	Status int    `json:"status"`
	Err    string `json:"err"`
}
