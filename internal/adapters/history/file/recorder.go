package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang-chat-blast/internal/domain"
)

var labelSanitizeRe = regexp.MustCompile(`[^\w-]`)

// Recorder writes each batch record as pretty-printed JSON under a dated
// folder: <dir>/<YYYY-MM-DD>/<label>.json. Matches the operator expectation
// that a day's blasts can be reviewed by listing one directory.
type Recorder struct {
	dir string
}

// New creates a Recorder rooted at dir. The directory tree is created lazily
// on the first record of each day.
func New(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Record persists one batch record.
func (r *Recorder) Record(ctx context.Context, rec domain.BatchRecord) error {
	day := rec.CreatedAt.UTC().Format("2006-01-02")
	folder := filepath.Join(r.dir, day)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("create history folder: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	path := filepath.Join(folder, fileName(rec)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// fileName derives a filesystem-safe name from the batch label, falling back
// to a timestamped default for unlabeled batches.
func fileName(rec domain.BatchRecord) string {
	label := strings.TrimSpace(rec.Label)
	if label == "" {
		return fmt.Sprintf("envio-%d", rec.CreatedAt.UnixMilli())
	}
	return labelSanitizeRe.ReplaceAllString(label, "_")
}
