package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/gmp-artesanias/gmp-backend/pkg/tracker"
	flag "github.com/spf13/pflag"
)

const betweenTickets = 500 * time.Millisecond

type result struct {
	key    string
	status string
	err    error
}

func main() {
	target := flag.String("status", "Done", "status to move the tickets to")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: update-ticket-status <KEY>... [--status Done]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger.Initialize(logger.Config{Level: "warn", Format: "console", Output: os.Stderr, EnableColor: true})

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := tracker.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	client := tracker.NewClient(cfg)
	ctx := context.Background()

	var results []result
	for i, arg := range flag.Args() {
		if i > 0 {
			time.Sleep(betweenTickets)
		}
		key := strings.ToUpper(arg)
		status, err := transition(ctx, client, key, *target)
		if err != nil {
			logger.Error("Failed to transition ticket", err, map[string]interface{}{"key": key})
			fmt.Printf("  %s: failed: %v\n", key, err)
		} else {
			fmt.Printf("  %s: moved to %s\n", key, status)
		}
		results = append(results, result{key: key, status: status, err: err})
	}

	ok := 0
	fmt.Printf("\nSummary (target %q)\n", *target)
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("  FAIL %s\n", r.key)
			continue
		}
		ok++
		fmt.Printf("  OK   %s -> %s\n", r.key, r.status)
	}
	fmt.Printf("%d of %d tickets updated\n", ok, len(results))
}

func transition(ctx context.Context, client *tracker.Client, key, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	transitions, err := client.GetTransitions(ctx, key)
	if err != nil {
		return "", err
	}
	tr, exact, ok := tracker.FindTransition(transitions, target)
	if !ok {
		return "", fmt.Errorf("no transitions available")
	}
	if !exact {
		logger.Warn("No matching transition, using the first available", map[string]interface{}{
			"key":        key,
			"target":     target,
			"transition": tr.Name,
		})
	}
	if err := client.DoTransition(ctx, key, tr.ID); err != nil {
		return "", err
	}
	return tr.To.Name, nil
}
