package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sellermetrics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStorage struct {
	uploads map[string][]byte
}

func (s *fakeObjectStorage) UploadObject(_ context.Context, key string, data []byte) error {
	if s.uploads == nil {
		s.uploads = make(map[string][]byte)
	}
	s.uploads[key] = data
	return nil
}

func sampleRecs() []domain.ReorderRecommendation {
	return []domain.ReorderRecommendation{
		{
			ProductID:                  1,
			SKU:                        "A-1",
			ProductName:                "Widget",
			CurrentQuantity:            10,
			RecommendedQuantity:        50,
			Priority:                   domain.PriorityHigh,
			EstimatedDaysUntilStockout: 5,
			ProfitMargin:               40,
			Reason:                     "stock covers 5.0 days at the current sales rate",
		},
		{
			ProductID:           2,
			SKU:                 "B-2",
			ProductName:         "Gadget",
			RecommendedQuantity: 0,
			Priority:            domain.PriorityLow,
			BelowMarginFloor:    true,
		},
	}
}

func TestWriteRecommendationsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recs.csv")
	require.NoError(t, WriteRecommendationsCSV(path, sampleRecs()))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "SKU", rows[0][0])
	assert.Equal(t, []string{"A-1", "Widget", "10", "50", "high", "5.0", "40.00", "false", "stock covers 5.0 days at the current sales rate"}, rows[1])
	assert.Equal(t, "true", rows[2][7])
}

func TestExportRecommendationsUploadsWhenConfigured(t *testing.T) {
	storage := &fakeObjectStorage{}
	e := NewExporter(t.TempDir(), storage)
	e.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }

	path, err := e.ExportRecommendations(context.Background(), "t1", sampleRecs())
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, "recommendations_t1_20260828_120000.csv", filepath.Base(path))

	key := filepath.Join("exports", "t1", filepath.Base(path))
	require.Contains(t, storage.uploads, key)
	assert.NotEmpty(t, storage.uploads[key])
}

func TestExportRecommendationsLocalOnly(t *testing.T) {
	e := NewExporter(t.TempDir(), nil)

	path, err := e.ExportRecommendations(context.Background(), "t1", sampleRecs())
	require.NoError(t, err)
	assert.FileExists(t, path)
}
