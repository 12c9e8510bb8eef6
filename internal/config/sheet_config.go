package config

// SheetConfig locates the workbook holding the tracked rows
type SheetConfig struct {
	Path       string `json:"path,omitempty" yaml:"path,omitempty" validate:"required"`
	SheetName  string `json:"sheet_name,omitempty" yaml:"sheet_name,omitempty"`
	HeaderRows int    `json:"header_rows" yaml:"header_rows" validate:"min=0"`
}

// NewDefaultSheetConfig creates default sheet configuration
func NewDefaultSheetConfig() SheetConfig {
	return SheetConfig{
		Path:       DefaultSheetPath,
		SheetName:  DefaultSheetName,
		HeaderRows: DefaultSheetHeaderRows,
	}
}
