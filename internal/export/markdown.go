package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/balkashynov/shyft/internal/models"
)

// ExportError wraps a failure to write a shift's markdown file
type ExportError struct {
	ShiftID string
	Path    string
	Err     error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export shift %s to %s: %v", e.ShiftID, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Markdown writes one document per shift into a logs directory
type Markdown struct {
	dir string
}

// NewMarkdown creates an exporter writing into dir
func NewMarkdown(dir string) *Markdown {
	return &Markdown{dir: dir}
}

// Dir returns the logs directory
func (m *Markdown) Dir() string {
	return m.dir
}

// Path returns where the export for id lives
func (m *Markdown) Path(id string) string {
	return filepath.Join(m.dir, id+".md")
}

// Export renders and writes {id}.md, replacing any existing file
func (m *Markdown) Export(id string, attempts []models.TaskAttempt) (string, error) {
	path := m.Path(id)
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", &ExportError{ShiftID: id, Path: path, Err: err}
	}
	if err := os.WriteFile(path, []byte(Render(id, attempts)), 0644); err != nil {
		return "", &ExportError{ShiftID: id, Path: path, Err: err}
	}
	return path, nil
}

// Render builds the document for a shift. Output depends only on the inputs.
func Render(id string, attempts []models.TaskAttempt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# `%s.md`\n\n----\n", id)

	for i, a := range attempts {
		fmt.Fprintf(&b, "\n\n%d. `%s`\n\n", i+1, a.PlatformID)
		fmt.Fprintf(&b, "[Permalink]\n%s\n\n", a.Permalink)
		fmt.Fprintf(&b, "[Response IDs]\n1. %s\n2. %s\n\n", a.Response1ID, a.Response2ID)
		fmt.Fprintf(&b, "[Rank]\n%s\n\n", a.Rank)
		fmt.Fprintf(&b, "[Justification]\n%s\n\n", a.Justification)
	}

	return b.String()
}
