package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sellermetrics/backend-go/internal/domain"
)

// Exporter writes recommendation batches to CSV and optionally mirrors
// them to object storage for the operator's archive.
type Exporter struct {
	dir     string
	storage ObjectStorage
	now     func() time.Time
}

// NewExporter creates an Exporter. storage may be nil to keep exports
// local only.
func NewExporter(dir string, storage ObjectStorage) *Exporter {
	if dir == "" {
		dir = filepath.Join("data", "exports")
	}
	return &Exporter{dir: dir, storage: storage, now: time.Now}
}

// ExportRecommendations writes the batch to a dated CSV and uploads it
// when object storage is configured. Returns the local path.
func (e *Exporter) ExportRecommendations(
	ctx context.Context,
	tenantID string,
	recs []domain.ReorderRecommendation,
) (string, error) {
	name := fmt.Sprintf("recommendations_%s_%s.csv", tenantID, e.now().Format("20060102_150405"))
	path := filepath.Join(e.dir, name)

	if err := WriteRecommendationsCSV(path, recs); err != nil {
		return "", fmt.Errorf("failed to write recommendations CSV: %w", err)
	}

	if e.storage != nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return path, fmt.Errorf("failed to read export for upload: %w", err)
		}

		key := filepath.Join("exports", tenantID, name)
		if err := e.storage.UploadObject(ctx, key, data); err != nil {
			// The local copy is the primary artifact; a failed mirror is
			// logged and surfaced but does not invalidate the export.
			log.Warn().Err(err).Str("key", key).Msg("export upload failed")
			return path, err
		}
	}

	return path, nil
}
