package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dori/grove/internal/model"
	"gopkg.in/yaml.v3"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Snapshot is the export document
type Snapshot struct {
	ExportedAt time.Time     `json:"exportedAt" yaml:"exportedAt"`
	Groups     []model.Group `json:"groups" yaml:"groups"`
	Tasks      []model.Task  `json:"tasks" yaml:"tasks"`
}

// Export writes every stored group and task to w in the given format
func (s *Store) Export(w io.Writer, format string) error {
	snap := Snapshot{
		ExportedAt: time.Now(),
		Groups:     s.LoadGroups(),
		Tasks:      s.LoadTasks(),
	}
	return WriteSnapshot(w, snap, format)
}

// WriteSnapshot encodes snap to w
func WriteSnapshot(w io.Writer, snap Snapshot, format string) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode JSON export: %w", err)
		}
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode YAML export: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
	return nil
}
