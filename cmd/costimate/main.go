// Costimate CLI - Residential Construction Cost Estimation
//
// Usage:
//   costimate estimate --project project.json [options]
//   costimate validate --project project.json
//   costimate serve --port 8080
//   costimate catalog info
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"construction-cost/api"
	"construction-cost/catalog"
	"construction-cost/config"
	"construction-cost/estimation"
	"construction-cost/estimators"
	"construction-cost/pkg/platform"
	"construction-cost/storage"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "costimate",
		Usage:   "Residential construction cost estimation from a searchable cost catalog",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"COSTIMATE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Path to cost catalog CSV (overrides ClickHouse source)",
				EnvVars: []string{"COSTIMATE_CATALOG"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-host",
				Usage:   "ClickHouse host for the catalog source",
				EnvVars: []string{"CLICKHOUSE_HOST"},
			},
			&cli.IntFlag{
				Name:    "clickhouse-port",
				Value:   9000,
				Usage:   "ClickHouse native port",
				EnvVars: []string{"CLICKHOUSE_PORT"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-database",
				Value:   "costimate",
				Usage:   "ClickHouse database",
				EnvVars: []string{"CLICKHOUSE_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-user",
				Value:   "default",
				Usage:   "ClickHouse user",
				EnvVars: []string{"CLICKHOUSE_USER"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-password",
				Value:   "",
				Usage:   "ClickHouse password",
				EnvVars: []string{"CLICKHOUSE_PASSWORD"},
			},
			&cli.StringFlag{
				Name:    "estimates-dir",
				Value:   "estimates",
				Usage:   "Directory for saved estimates",
				EnvVars: []string{"COSTIMATE_ESTIMATES_DIR"},
			},
			&cli.StringFlag{
				Name:    "postgres-dsn",
				Usage:   "Postgres DSN for saved estimates (overrides estimates-dir)",
				EnvVars: []string{"COSTIMATE_POSTGRES_DSN"},
			},
		},

		Commands: []*cli.Command{
			estimateCommand(),
			validateCommand(),
			serveCommand(),
			catalogCommand(),
			savedCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// WIRING
// =============================================================================

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

func buildEngine(c *cli.Context, cfg *config.Config, logger *slog.Logger) (*estimation.Engine, error) {
	var src catalog.Source
	if path := c.String("catalog"); path != "" {
		src = &catalog.CSVSource{Path: path}
	} else if host := c.String("clickhouse-host"); host != "" {
		chSrc, err := catalog.NewClickHouseSource(&catalog.ClickHouseConfig{
			Host:     host,
			Port:     c.Int("clickhouse-port"),
			Database: c.String("clickhouse-database"),
			Username: c.String("clickhouse-user"),
			Password: c.String("clickhouse-password"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		src = chSrc
	} else if cfg.Data.CatalogPath != "" {
		src = &catalog.CSVSource{Path: cfg.Data.CatalogPath}
	} else {
		return nil, fmt.Errorf("no catalog source configured: pass --catalog or --clickhouse-host")
	}

	store := catalog.LoadStore(c.Context, src, cfg.Categories, logger)

	registry := estimators.NewRegistry()
	estimators.RegisterAll(registry)

	return estimation.NewEngine(cfg, store, registry, logger), nil
}

func buildEstimateStore(c *cli.Context, logger *slog.Logger) (storage.Store, error) {
	if dsn := c.String("postgres-dsn"); dsn != "" {
		return storage.NewPostgresStore(context.Background(), dsn, logger)
	}
	return storage.NewFilesystemStore(c.String("estimates-dir"), logger)
}

func readProjectSpec(c *cli.Context) (estimation.ProjectSpec, error) {
	var spec estimation.ProjectSpec

	if path := c.String("project"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return spec, fmt.Errorf("failed to read project file: %w", err)
		}
		if err := json.Unmarshal(data, &spec); err != nil {
			return spec, fmt.Errorf("invalid project file: %w", err)
		}
		return spec, nil
	}

	spec.SquareFootage = c.Float64("square-footage")
	spec.Tier = c.String("tier")
	spec.BedroomCount = c.Float64("bedrooms")
	spec.PrimaryBathCount = c.Float64("primary-baths")
	spec.SecondaryBathCount = c.Float64("secondary-baths")
	spec.PowderRoomCount = c.Float64("powder-rooms")
	return spec, nil
}

func projectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "project",
			Aliases: []string{"p"},
			Usage:   "Path to project spec JSON",
		},
		&cli.Float64Flag{
			Name:    "square-footage",
			Aliases: []string{"sf"},
			Usage:   "Project square footage (alternative to --project)",
		},
		&cli.StringFlag{
			Name:  "tier",
			Usage: "Construction tier (Premium, Luxury, Ultra-Luxury); derived from square footage when omitted",
		},
		&cli.Float64Flag{Name: "bedrooms", Usage: "Bedroom count"},
		&cli.Float64Flag{Name: "primary-baths", Usage: "Primary bathroom count"},
		&cli.Float64Flag{Name: "secondary-baths", Usage: "Secondary bathroom count"},
		&cli.Float64Flag{Name: "powder-rooms", Usage: "Powder room count"},
	}
}

// =============================================================================
// ESTIMATE COMMAND
// =============================================================================

func estimateCommand() *cli.Command {
	flags := projectFlags()
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "detailed",
			Usage: "Produce a room-granular estimate (requires rooms in the project file)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "table",
			Usage:   "Output format (table, json)",
		},
		&cli.StringFlag{
			Name:  "save",
			Usage: "Save the result under this name",
		},
	)
	return &cli.Command{
		Name:   "estimate",
		Usage:  "Estimate construction cost for a project",
		Flags:  flags,
		Action: runEstimate,
	}
}

func runEstimate(c *cli.Context) error {
	logger := platform.InitLogger()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := buildEngine(c, cfg, logger)
	if err != nil {
		return err
	}

	spec, err := readProjectSpec(c)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "📋 Catalog loaded: %d items\n", engine.Catalog().Len())

	var result *estimation.EstimationResult
	if c.Bool("detailed") {
		result = engine.DetailedEstimate(c.Context, spec)
	} else {
		result = engine.Estimate(c.Context, spec)
	}

	if result.Status == estimation.RunStatusValidationError {
		fmt.Fprintln(os.Stderr, "❌ Project validation failed:")
		for _, f := range result.Validation.MissingFields {
			fmt.Fprintf(os.Stderr, "   missing: %s\n", f)
		}
		for _, iv := range result.Validation.InvalidValues {
			fmt.Fprintf(os.Stderr, "   invalid %s: %s\n", iv.Field, iv.Message)
		}
		os.Exit(1)
	}

	if name := c.String("save"); name != "" {
		store, err := buildEstimateStore(c, logger)
		if err != nil {
			return err
		}
		if err := store.Save(c.Context, name, result); err != nil {
			return fmt.Errorf("failed to save estimate: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Saved estimate as %q\n", name)
	}

	switch c.String("format") {
	case "json":
		return outputJSON(result)
	default:
		return outputTable(result)
	}
}

// =============================================================================
// VALIDATE COMMAND
// =============================================================================

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a project spec without estimating",
		Flags: projectFlags(),
		Action: func(c *cli.Context) error {
			spec, err := readProjectSpec(c)
			if err != nil {
				return err
			}

			result := estimation.Validate(spec)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if !result.IsValid {
				os.Exit(1)
			}
			return nil
		},
	}
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the Costimate API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "API server port",
				EnvVars: []string{"COSTIMATE_PORT"},
			},
			&cli.StringFlag{
				Name:    "cors-origins",
				Value:   "*",
				Usage:   "Comma-separated list of allowed CORS origins",
				EnvVars: []string{"COSTIMATE_CORS_ORIGINS"},
			},
		},
		Action: func(c *cli.Context) error {
			logger := platform.InitLogger()

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			engine, err := buildEngine(c, cfg, logger)
			if err != nil {
				return err
			}

			estimates, err := buildEstimateStore(c, logger)
			if err != nil {
				return err
			}

			serverCfg := api.DefaultConfig()
			serverCfg.Port = c.Int("port")
			serverCfg.CORSOrigins = strings.Split(c.String("cors-origins"), ",")

			server := api.NewServer(engine, estimates, serverCfg)
			return server.StartWithGracefulShutdown()
		},
	}
}

// =============================================================================
// CATALOG COMMAND
// =============================================================================

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect the cost catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "info",
				Usage: "Show catalog size and category coverage",
				Action: func(c *cli.Context) error {
					logger := platform.InitLogger()

					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					engine, err := buildEngine(c, cfg, logger)
					if err != nil {
						return err
					}
					store := engine.Catalog()

					byCategory := map[string]int{}
					for _, item := range store.Items() {
						byCategory[item.Category]++
					}
					categories := make([]string, 0, len(byCategory))
					for cat := range byCategory {
						categories = append(categories, cat)
					}
					sort.Strings(categories)

					fmt.Printf("Catalog items: %d\n\n", store.Len())
					for _, cat := range categories {
						fmt.Printf("  %-30s %d\n", cat, byCategory[cat])
					}
					return nil
				},
			},
		},
	}
}

// =============================================================================
// SAVED COMMAND
// =============================================================================

func savedCommand() *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "Manage saved estimates",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved estimates",
				Action: func(c *cli.Context) error {
					logger := platform.InitLogger()
					store, err := buildEstimateStore(c, logger)
					if err != nil {
						return err
					}

					saved, err := store.List(c.Context)
					if err != nil {
						return err
					}
					if len(saved) == 0 {
						fmt.Println("No saved estimates")
						return nil
					}

					fmt.Printf("%-30s %-12s %-14s %s\n", "NAME", "SQFT", "TOTAL", "MODIFIED")
					for _, e := range saved {
						fmt.Printf("%-30s %-12.0f $%-13s %s\n",
							e.Name, e.SquareFootage, e.TotalCost, e.Modified.Format("2006-01-02 15:04"))
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Print a saved estimate as JSON",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("usage: costimate saved show <name>")
					}
					logger := platform.InitLogger()
					store, err := buildEstimateStore(c, logger)
					if err != nil {
						return err
					}

					result, err := store.Load(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(result)
				},
			},
		},
	}
}

// =============================================================================
// OUTPUT FORMATTERS
// =============================================================================

func outputJSON(result *estimation.EstimationResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func outputTable(result *estimation.EstimationResult) error {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  🏠 CONSTRUCTION COST ESTIMATE                ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Square Footage:        %-38.0f ║\n", result.Project.SquareFootage)
	fmt.Printf("║  Tier:                  %-38s ║\n", result.Project.Tier)
	fmt.Printf("║  Total Cost:            $%-37s ║\n", result.TotalCost.StringFixed(2))
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Println("║  COST BREAKDOWN                                               ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")

	categories := make([]string, 0, len(result.Summary.CostBreakdown))
	for cat := range result.Summary.CostBreakdown {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		cost := result.Summary.CostBreakdown[cat]
		pct := result.Summary.PercentageBreakdown[cat]
		fmt.Printf("║  %-25s $%-15s %5.1f%%          ║\n", cat, cost.StringFixed(2), pct)
	}

	if len(result.Summary.Warnings) > 0 {
		fmt.Println("╠══════════════════════════════════════════════════════════════╣")
		for _, w := range result.Summary.Warnings {
			fmt.Printf("║  ⚠️  %-56s ║\n", truncate(w, 56))
		}
	}

	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
