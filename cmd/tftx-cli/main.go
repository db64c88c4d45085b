package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"github.com/peterkuimelis/tftx/internal/config"
	"github.com/peterkuimelis/tftx/internal/driver"
	"github.com/peterkuimelis/tftx/internal/game"
	"github.com/peterkuimelis/tftx/internal/log"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "sim":
		err = runSim(ctx, os.Args[2:])
	case "schema":
		err = runSchema()
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  tftx play   [--config FILE] [--seed N] [--report FILE]")
	fmt.Println("  tftx sim    [--config FILE] [--seed N] [--games N] [--workers N] [--report FILE] [--trace]")
	fmt.Println("  tftx schema")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play player_0 in the terminal against random bots")
	fmt.Println("  sim     Run random self-play games and print a JSON summary")
	fmt.Println("  schema  Print the JSON Schema of config files")
}

func loadConfig(path string) (game.Config, error) {
	if path == "" {
		return game.DefaultConfig(), nil
	}
	return config.Load(path)
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to a YAML game config")
	seed := fs.Int64("seed", 1, "random seed")
	report := fs.String("report", "", "also write a zstd JSONL report of the game to FILE")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	var logger log.EventLogger = log.NewTextLogger(os.Stdout)
	var rw *log.ReportWriter
	if *report != "" {
		rw, err = log.CreateReport(*report, log.ReportHeader{GameID: uuid.NewString(), Seed: *seed, Config: cfg})
		if err != nil {
			return err
		}
		logger = log.NewFanoutLogger(logger, rw)
	}
	m := driver.Match{
		Config:   cfg,
		Seed:     *seed,
		Policies: []driver.Policy{driver.NewTerminalPolicy(os.Stdin, os.Stdout)},
		Logger:   logger,
	}
	res, err := m.Run(ctx)
	if rw != nil {
		if cerr := rw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════")
	fmt.Println("          GAME OVER")
	fmt.Println("═══════════════════════════════════")
	for i, id := range res.Placements {
		fmt.Printf("  %d. %s\n", i+1, id)
	}
	fmt.Printf("  rounds: %d  your reward: %d\n", res.Rounds, res.Rewards["player_0"])
	fmt.Println("═══════════════════════════════════")
	return nil
}

func runSim(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to a YAML game config")
	seed := fs.Int64("seed", 1, "seed of the first game; game i uses seed+i")
	games := fs.Int("games", 100, "number of games")
	workers := fs.Int("workers", 4, "parallel workers")
	report := fs.String("report", "", "write a zstd JSONL report of the first game to FILE")
	trace := fs.Bool("trace", false, "print the reported game's events to stderr")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}

	if *report != "" {
		if err := writeReport(ctx, *report, cfg, *seed, *trace); err != nil {
			return err
		}
	}

	slog.Info("simulating", "games", *games, "workers", *workers, "seed", *seed)
	summary, err := driver.RunBatch(ctx, cfg, *seed, *games, *workers)
	if err != nil {
		return err
	}
	slog.Info("done", "mean_rounds", summary.MeanRounds, "draws", summary.Draws)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func writeReport(ctx context.Context, path string, cfg game.Config, seed int64, trace bool) error {
	rw, err := log.CreateReport(path, log.ReportHeader{GameID: uuid.NewString(), Seed: seed, Config: cfg})
	if err != nil {
		return err
	}
	var logger log.EventLogger = rw
	if trace {
		logger = log.NewFanoutLogger(rw, log.NewTextLogger(os.Stderr))
	}
	m := driver.Match{Config: cfg, Seed: seed, Logger: logger}
	_, runErr := m.Run(ctx)
	if err := rw.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		slog.Info("report written", "path", path, "events", len(rw.Events()))
	}
	return runErr
}

func runSchema() error {
	b, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Println(string(b))
	return err
}
