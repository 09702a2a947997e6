package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/gmp-artesanias/gmp-backend/pkg/tracker"
	flag "github.com/spf13/pflag"
)

func main() {
	keyRange := flag.String("range", "1-50", "issue numbers to scan, start-end")
	project := flag.String("project", "GMP", "project key")
	verbose := flag.BoolP("verbose", "v", false, "log every request")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger.Initialize(logger.Config{Level: level, Format: "console", Output: os.Stderr, EnableColor: true})

	start, end, err := tracker.ParseRange(*keyRange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := tracker.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Analyzing %s-%d through %s-%d...\n", *project, start, *project, end)
	client := tracker.NewClient(cfg)
	report := tracker.AnalyzeBoard(ctx, client, *project, start, end, func(key string) {
		fmt.Fprintf(os.Stderr, "\rFetching %s...   ", key)
	})
	fmt.Fprintln(os.Stderr)

	tracker.WriteReport(os.Stdout, report, cfg.BrowseURL(*project))
}
