// cmd/riskcli/main.go
//
// riskcli runs the dashboard analytics against local CSV exports without
// starting the HTTP server. Useful for spot-checking a planning export
// before loading it into the dashboard.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/supplyview/backend-go/internal/bom"
	"github.com/andresuchdata/supplyview/backend-go/internal/cache"
	"github.com/andresuchdata/supplyview/backend-go/internal/config"
	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
	"github.com/andresuchdata/supplyview/backend-go/internal/leadtime"
	"github.com/andresuchdata/supplyview/backend-go/internal/service"
	"github.com/andresuchdata/supplyview/backend-go/internal/store"
)

func newInventoryFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "inventory-csv",
		Usage:    "Path to the inventory time-series CSV export",
		Required: true,
		EnvVars:  []string{"APP_INVENTORY_CSV"},
	}
}

func newBomFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "bom-csv",
		Usage:   "Path to the bill-of-materials CSV export (optional)",
		EnvVars: []string{"APP_BOM_CSV"},
	}
}

func newReferenceFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "reference",
		Usage: "Lead-time reference date as YYYY-MM-DD (defaults to the export's first date)",
	}
}

func loadService(c *cli.Context) (*service.DashboardService, error) {
	cfg := config.Load()
	svc := service.NewDashboardService(store.New(), bom.NewTable(), leadtime.NewPolicy(cfg.LeadTime), cache.NewNoopTimelineCache())

	if raw := c.String("reference"); raw != "" {
		ref, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid reference date %q: %w", raw, err)
		}
		svc.SetReferenceClock(func() time.Time { return ref })
	}

	f, err := os.Open(c.String("inventory-csv"))
	if err != nil {
		return nil, fmt.Errorf("open inventory csv: %w", err)
	}
	defer f.Close()
	if _, err := svc.LoadInventory(c.Context, f); err != nil {
		return nil, fmt.Errorf("load inventory csv: %w", err)
	}

	if path := c.String("bom-csv"); path != "" {
		bf, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bom csv: %w", err)
		}
		defer bf.Close()
		if _, err := svc.LoadBOM(c.Context, bf); err != nil {
			return nil, fmt.Errorf("load bom csv: %w", err)
		}
	}

	return svc, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "riskcli",
		Usage: "Inventory risk analytics over local CSV exports",
		Commands: []*cli.Command{
			{
				Name:  "timeline",
				Usage: "Print the shortage risk timeline",
				Flags: []cli.Flag{
					newInventoryFlag(),
					newBomFlag(),
					newReferenceFlag(),
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort mode: itemCode, leadTime, duration, or planning",
						Value: string(domain.SortByItemCode),
					},
					&cli.IntFlag{
						Name:  "min-days",
						Usage: "Minimum consecutive at-risk days per block",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "critical-only",
						Usage: "Only include Critical blocks",
					},
					&cli.StringFlag{
						Name:  "item-code",
						Usage: "Restrict to one item code",
					},
					&cli.StringFlag{
						Name:  "inv-org",
						Usage: "Restrict to one inventory org",
					},
				},
				Action: runTimeline,
			},
			{
				Name:  "feasibility",
				Usage: "Print the component-limited production projection for one item",
				Flags: []cli.Flag{
					newInventoryFlag(),
					newBomFlag(),
					&cli.StringFlag{
						Name:     "item-code",
						Usage:    "Parent item code",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "inv-org",
						Usage:    "Inventory org",
						Required: true,
					},
				},
				Action: runFeasibility,
			},
			{
				Name:  "graph",
				Usage: "Print the item/location relationship graph",
				Flags: []cli.Flag{
					newInventoryFlag(),
					newBomFlag(),
					&cli.StringFlag{
						Name:  "link-dimension",
						Usage: "Cluster dimension: itemClass or strategy",
						Value: string(domain.LinkByItemClass),
					},
					&cli.BoolFlag{
						Name:  "hide-orphans",
						Usage: "Drop nodes with no edges",
					},
				},
				Action: runGraph,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runTimeline(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}

	riskFilter := domain.DefaultRiskFilter()
	if c.Bool("critical-only") {
		riskFilter.IncludeWatchOut = false
	}
	if v := c.Int("min-days"); v > 0 {
		riskFilter.MinConsecutiveDays = v
	}

	filter := domain.RecordFilter{
		ItemCode: c.String("item-code"),
		InvOrg:   c.String("inv-org"),
	}

	groups, err := svc.Timeline(c.Context, filter, riskFilter, domain.ParseSortMode(c.String("sort")))
	if err != nil {
		return err
	}
	return printJSON(groups)
}

func runFeasibility(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}

	result := svc.Feasibility(c.String("item-code"), c.String("inv-org"), domain.RecordFilter{})
	return printJSON(result)
}

func runGraph(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}

	cfg := domain.GraphConfig{
		LinkDimension: domain.ParseLinkDimension(c.String("link-dimension")),
		HideOrphans:   c.Bool("hide-orphans"),
	}
	return printJSON(svc.Graph(domain.RecordFilter{}, cfg))
}
