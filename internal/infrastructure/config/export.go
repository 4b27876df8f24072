package config

// ExportConfig holds audit export configuration
type ExportConfig struct {
	// Directory the finalized batch documents are written to
	Directory string `mapstructure:"directory" validate:"required"`

	// File permissions for exported documents (octal string, e.g. "0644")
	FileMode string `mapstructure:"file_mode"`
}
