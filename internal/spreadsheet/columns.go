package spreadsheet

import (
	"fmt"
	"os"
	"strings"

	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// ColumnsConfig holds the required-column lists per spreadsheet source, loaded
// from spreadsheets_config.yaml. POS export schemas drift between register
// configurations, so validation is permissive when no list is configured.
type ColumnsConfig struct {
	sources map[string][]string
}

// MissingColumnsError names every missing column, not just the first, so an
// operator can fix the export in one pass.
type MissingColumnsError struct {
	Source  string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("spreadsheet %q is missing required columns: %s",
		e.Source, strings.Join(e.Columns, ", "))
}

// LoadColumnsConfig reads the column configuration file. A missing file is
// not an error: validation is simply skipped, with a warning.
func LoadColumnsConfig(path string) (*ColumnsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Column config not found, validation will be skipped", map[string]interface{}{
				"path": path,
			})
			return &ColumnsConfig{sources: map[string][]string{}}, nil
		}
		return nil, fmt.Errorf("failed to read column config: %w", err)
	}

	sources := map[string][]string{}
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse column config: %w", err)
	}

	return &ColumnsConfig{sources: sources}, nil
}

// Validate checks the frame against the required columns for the named
// source. No configured list means no validation; any missing column is a
// hard failure before a single row is processed.
func (c *ColumnsConfig) Validate(frame *Frame, source string) error {
	if c == nil {
		return nil
	}
	expected := c.sources[source]
	if len(expected) == 0 {
		logger.Warn("No expected columns configured, skipping validation", map[string]interface{}{
			"source": source,
		})
		return nil
	}

	var missing []string
	for _, column := range expected {
		if !frame.HasColumn(column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Source: source, Columns: missing}
	}
	return nil
}
