package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/sellermetrics/backend-go/internal/engine"
)

// parseFloatLoose coerces a numeric cell to a float64, returning 0 for
// malformed values so one bad cell never aborts an import. Data-quality
// reporting happens separately via the skipped-cell counter.
func parseFloatLoose(raw string, badCells *int) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSuffix(cleaned, "%")
	if cleaned == "" {
		return 0
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		if badCells != nil {
			*badCells++
		}
		return 0
	}
	return v
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func parseDateLoose(raw string) time.Time {
	cleaned := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t
		}
	}
	return time.Time{}
}

func openCSV(path string) (*csv.Reader, *os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader, file, nil
}

// headerIndex maps normalized column names to their positions.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return index
}

func cell(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func runProductImport(c *cli.Context) error {
	db := dbFrom(c)
	tenantID := c.String("tenant")

	reader, file, err := openCSV(c.String("file"))
	if err != nil {
		return err
	}
	defer file.Close()

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	index := headerIndex(header)

	classifier := engine.DefaultClassifierPolicy()

	query := `
		INSERT INTO products (tenant_id, sku, name, quantity, sales_qty, cost_per_item, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (tenant_id, sku)
		DO UPDATE SET
			name = EXCLUDED.name,
			quantity = EXCLUDED.quantity,
			sales_qty = EXCLUDED.sales_qty,
			cost_per_item = EXCLUDED.cost_per_item,
			status = EXCLUDED.status,
			updated_at = NOW()
	`

	stmt, err := db.PrepareContext(c.Context, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var imported, skipped, badCells int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}

		sku := strings.TrimSpace(cell(row, index, "sku"))
		if sku == "" {
			skipped++
			continue
		}

		quantity := parseFloatLoose(cell(row, index, "quantity"), &badCells)
		salesQty := parseFloatLoose(cell(row, index, "sales_qty"), &badCells)
		status := classifier.Classify(quantity, salesQty)

		_, err = stmt.ExecContext(
			c.Context,
			tenantID,
			sku,
			strings.TrimSpace(cell(row, index, "name")),
			quantity,
			salesQty,
			parseFloatLoose(cell(row, index, "cost_per_item"), &badCells),
			status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product %s: %w", sku, err)
		}
		imported++
	}

	log.Printf("products: imported %d rows (%d skipped, %d malformed cells coerced to 0)", imported, skipped, badCells)
	return nil
}

func runSaleImport(c *cli.Context) error {
	db := dbFrom(c)
	tenantID := c.String("tenant")

	reader, file, err := openCSV(c.String("file"))
	if err != nil {
		return err
	}
	defer file.Close()

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	index := headerIndex(header)

	query := `
		INSERT INTO sales (
			tenant_id, product_id, sku, product_name, quantity, unit_price,
			fees, shipping_cost, label_cost, total_revenue, net_profit, roi,
			status, sold_at
		)
		SELECT $1, p.id, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'completed', $12
		FROM products p
		WHERE p.tenant_id = $1 AND p.sku = $2
	`

	stmt, err := db.PrepareContext(c.Context, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var imported, skipped, badCells int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}

		sku := strings.TrimSpace(cell(row, index, "sku"))
		if sku == "" {
			skipped++
			continue
		}

		soldAt := parseDateLoose(cell(row, index, "sold_at"))
		if soldAt.IsZero() {
			soldAt = time.Now()
		}

		result, err := stmt.ExecContext(
			c.Context,
			tenantID,
			sku,
			strings.TrimSpace(cell(row, index, "product_name")),
			parseFloatLoose(cell(row, index, "quantity"), &badCells),
			parseFloatLoose(cell(row, index, "unit_price"), &badCells),
			parseFloatLoose(cell(row, index, "fees"), &badCells),
			parseFloatLoose(cell(row, index, "shipping_cost"), &badCells),
			parseFloatLoose(cell(row, index, "label_cost"), &badCells),
			parseFloatLoose(cell(row, index, "total_revenue"), &badCells),
			parseFloatLoose(cell(row, index, "net_profit"), &badCells),
			parseFloatLoose(cell(row, index, "roi"), &badCells),
			soldAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sale for %s: %w", sku, err)
		}

		if rows, err := result.RowsAffected(); err == nil && rows == 0 {
			// Sale references an unknown SKU for this tenant.
			skipped++
			continue
		}
		imported++
	}

	log.Printf("sales: imported %d rows (%d skipped, %d malformed cells coerced to 0)", imported, skipped, badCells)
	return nil
}
