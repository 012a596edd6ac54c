package sources

// ConfigField describes one configuration field for a source backend.
type ConfigField struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "string", "bool"
	Required    bool   `json:"required"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
}

// SourceTypeInfo describes a source backend and the configuration it expects.
// Returned by Factory.ConfigSpec() and exposed via GET /sources and GET /sources/:type.
type SourceTypeInfo struct {
	Type        string        `json:"type"`
	Description string        `json:"description"`
	Fields      []ConfigField `json:"fields"`
}
