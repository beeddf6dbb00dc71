package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sellermetrics/backend-go/internal/domain"
)

// WriteRecommendationsCSV writes a recommendation batch to a CSV file,
// creating parent directories as needed.
func WriteRecommendationsCSV(path string, recs []domain.ReorderRecommendation) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed creating directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"SKU", "Product Name", "Available Qty", "Recommended Qty",
		"Priority", "Days Until Stockout", "Profit Margin", "Below Margin Floor", "Reason",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range recs {
		record := []string{
			rec.SKU,
			rec.ProductName,
			fmt.Sprintf("%.0f", rec.CurrentQuantity),
			fmt.Sprintf("%d", rec.RecommendedQuantity),
			string(rec.Priority),
			fmt.Sprintf("%.1f", rec.EstimatedDaysUntilStockout),
			fmt.Sprintf("%.2f", rec.ProfitMargin),
			fmt.Sprintf("%t", rec.BelowMarginFloor),
			rec.Reason,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
