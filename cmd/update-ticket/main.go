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

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: update-ticket <KEY> <file.md>\n")
	}
	flag.Parse()

	logger.Initialize(logger.Config{Level: "warn", Format: "console", Output: os.Stderr, EnableColor: true})

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}
	key := strings.ToUpper(flag.Arg(0))
	filePath := flag.Arg(1)

	content, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", filePath)
		os.Exit(1)
	}

	description := tracker.DescriptionOnly(string(content))
	if strings.TrimSpace(description) == "" {
		fmt.Fprintf(os.Stderr, "Error: %s has no description below its title\n", filePath)
		os.Exit(1)
	}

	cfg, err := tracker.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fmt.Printf("Updating %s description from %s\n", key, filePath)
	if err := tracker.NewClient(cfg).UpdateDescription(ctx, key, tracker.MarkdownToADF(description)); err != nil {
		logger.Error("Failed to update ticket", err, map[string]interface{}{"key": key})
		fmt.Fprintf(os.Stderr, "Error updating %s: %v\n", key, err)
		os.Exit(1)
	}

	fmt.Printf("Updated %s\n%s\n", key, cfg.BrowseURL(key))
}
