package sources

// Config is a key-value map for backend-specific configuration.
// The process passes it when creating a reader; implementations interpret it.
type Config map[string]any

// String returns the string value for key, or "" when absent or not a string.
func (c Config) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// Bool returns the bool value for key, or false when absent or not a bool.
func (c Config) Bool(key string) bool {
	b, _ := c[key].(bool)
	return b
}
