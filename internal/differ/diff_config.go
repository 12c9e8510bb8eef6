package differ

// DiffConfig holds configuration for inline text diffs
type DiffConfig struct {
	Enabled               bool `json:"enabled" yaml:"enabled"`
	EnableSemanticCleanup bool `json:"enable_semantic_cleanup" yaml:"enable_semantic_cleanup"`
	// MaxTextLength skips the inline diff for longer values.
	MaxTextLength int `json:"max_text_length,omitempty" yaml:"max_text_length,omitempty" validate:"min=0"`
}

// DefaultDiffConfig returns default configuration
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		Enabled:               true,
		EnableSemanticCleanup: true,
		MaxTextLength:         4096,
	}
}
