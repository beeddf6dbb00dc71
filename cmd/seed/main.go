package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newTenantFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "tenant",
		Usage:    "Tenant id the imported rows belong to",
		Required: true,
		EnvVars:  []string{"SEED_TENANT_ID"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	db, _ := c.Context.Value(dbKey).(*sql.DB)
	return db
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Import seller data into the database",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "Import a products CSV (sku, name, quantity, sales_qty, cost_per_item)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newTenantFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the products CSV file",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runProductImport,
			},
			{
				Name:  "sales",
				Usage: "Import a sales CSV (sku, product_name, quantity, unit_price, fees, shipping_cost, label_cost, total_revenue, net_profit, roi, sold_at)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newTenantFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the sales CSV file",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runSaleImport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
