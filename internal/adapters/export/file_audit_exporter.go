package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fitza/batchtrace-go/internal/domain/batch"
)

// FileAuditExporter writes the terminal snapshot of a finalized batch to
// a JSON document on disk, one file per batch. The document uses the
// same serialized form the repository stores, so the audit trail and the
// database never disagree about a batch's content.
type FileAuditExporter struct {
	directory string
	fileMode  os.FileMode
}

// NewFileAuditExporter creates an exporter writing into the given directory
func NewFileAuditExporter(directory string, fileMode os.FileMode) *FileAuditExporter {
	if fileMode == 0 {
		fileMode = 0o644
	}
	return &FileAuditExporter{directory: directory, fileMode: fileMode}
}

// Export writes the batch snapshot as batch_<id>_<state>.json.
// Exporting the same terminal snapshot twice is harmless; the file is
// simply rewritten with identical content.
func (e *FileAuditExporter) Export(ctx context.Context, b *batch.Batch) error {
	doc, err := batch.ToDocument(b)
	if err != nil {
		return fmt.Errorf("failed to serialize batch %s for export: %w", b.BatchID(), err)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize batch %s for export: %w", b.BatchID(), err)
	}

	if err := os.MkdirAll(e.directory, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(e.directory, FileName(b.BatchID(), b.State()))
	if err := os.WriteFile(path, raw, e.fileMode); err != nil {
		return fmt.Errorf("failed to write audit document: %w", err)
	}

	return nil
}

// FileName builds the export file name for a batch, replacing characters
// that are unsafe in file names
func FileName(batchID string, state batch.State) string {
	return fmt.Sprintf("batch_%s_%s.json", sanitize(batchID), state)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
