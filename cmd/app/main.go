package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/flightpath/internal"
	"github.com/starford/flightpath/internal/feed"
	pkgconfig "github.com/starford/flightpath/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

// openRuntime opens the store for one-shot commands. Logs go to stderr so
// stdout stays machine readable.
func openRuntime(ctx context.Context, cmd *cli.Command, mutate func(*internal.Config)) (*internal.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}
	return internal.Open(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func routes(ctx context.Context, cmd *cli.Command) error {
	rt, err := openRuntime(ctx, cmd, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	its, err := rt.Service.FindRoutes(ctx, cmd.String("from"), cmd.String("to"), cmd.String("date"), int(cmd.Int("k")))
	if err != nil {
		return err
	}
	return printJSON(its)
}

func cheapest(ctx context.Context, cmd *cli.Command) error {
	rt, err := openRuntime(ctx, cmd, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	it, err := rt.Service.FindCheapest(ctx, cmd.String("from"), cmd.String("to"))
	if err != nil {
		return err
	}
	return printJSON(it)
}

func export(ctx context.Context, cmd *cli.Command) error {
	rt, err := openRuntime(ctx, cmd, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.String("out")
	if out == "" {
		out = rt.Config.Feed.Path
	}
	if out == "" {
		return fmt.Errorf("no output path: pass --out or set feed.path")
	}
	if err := feed.Export(ctx, out, rt.Store); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", out)
	return nil
}

func seedStore(ctx context.Context, cmd *cli.Command) error {
	rt, err := openRuntime(ctx, cmd, func(cfg *internal.Config) {
		cfg.Seed.Enabled = false
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	if !cmd.Bool("force") {
		stats, err := rt.Store.Stats(ctx)
		if err != nil {
			return err
		}
		if stats.TotalAirports > 0 || stats.TotalFlights > 0 {
			return fmt.Errorf("store already holds %d airports and %d flights; use --force to replace them",
				stats.TotalAirports, stats.TotalFlights)
		}
	}

	seedValue := rt.Config.Seed.Seed
	if cmd.IsSet("seed") {
		seedValue = uint64(cmd.Int("seed"))
	}
	if err := rt.Reseed(ctx, seedValue); err != nil {
		return err
	}
	stats, err := rt.Service.Stats(ctx)
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func endpointFlags(withDate bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "Origin airport code", Required: true},
		&cli.StringFlag{Name: "to", Usage: "Destination airport code", Required: true},
	}
	if withDate {
		flags = append(flags,
			&cli.StringFlag{Name: "date", Usage: "Travel date (YYYY-MM-DD)", Required: true},
			&cli.IntFlag{Name: "k", Usage: "Maximum number of itineraries"},
		)
	}
	return flags
}

func main() {
	cmd := &cli.Command{
		Name:    "flightpath",
		Usage:   "Flight route search engine with a REST API, MCP tools and a watched flight feed",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
			{
				Name:   "routes",
				Usage:  "Print the fastest itineraries for a date as JSON",
				Flags:  endpointFlags(true),
				Action: routes,
			},
			{
				Name:   "cheapest",
				Usage:  "Print the cheapest itinerary ignoring schedules as JSON",
				Flags:  endpointFlags(false),
				Action: cheapest,
			},
			{
				Name:  "export",
				Usage: "Write the record store to a JSON or YAML feed file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (defaults to feed.path)"},
				},
				Action: export,
			},
			{
				Name:  "seed",
				Usage: "Replace the store with the generated demo network",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "seed", Usage: "Generator seed (defaults to seed.seed)"},
					&cli.BoolFlag{Name: "force", Usage: "Replace existing records"},
				},
				Action: seedStore,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
