package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/gmp-artesanias/gmp-backend/pkg/tracker"
	flag "github.com/spf13/pflag"
)

func main() {
	epic := flag.String("epic", "", "epic key to link the ticket to")
	issueType := flag.String("type", "Story", "issue type: "+typeNames())
	project := flag.String("project", "GMP", "project key")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: create-ticket <file.md> [--epic KEY] [--type Story] [--project GMP]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger.Initialize(logger.Config{Level: "warn", Format: "console", Output: os.Stderr, EnableColor: true})

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	filePath := flag.Arg(0)

	typeID, ok := tracker.IssueTypeIDs[*issueType]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: invalid issue type %q (valid: %s)\n", *issueType, typeNames())
		os.Exit(1)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", filePath)
		os.Exit(1)
	}

	title, description, err := tracker.ParseTicketMarkdown(string(content))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", filePath, err)
		os.Exit(1)
	}

	cfg, err := tracker.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Creating %s: %s\n", *issueType, title)
	if *epic != "" {
		fmt.Printf("Epic: %s\n", *epic)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	created, err := tracker.NewClient(cfg).CreateIssue(ctx, tracker.CreateIssueInput{
		Project:     *project,
		Summary:     title,
		Description: tracker.MarkdownToADF(description),
		IssueTypeID: typeID,
		EpicKey:     *epic,
	})
	if err != nil {
		logger.Error("Failed to create ticket", err, map[string]interface{}{"file": filePath})
		fmt.Fprintf(os.Stderr, "Error creating ticket: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n%s\n", created.Key, cfg.BrowseURL(created.Key))
}

func typeNames() string {
	names := make([]string, 0, len(tracker.IssueTypeIDs))
	for name := range tracker.IssueTypeIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
