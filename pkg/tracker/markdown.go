package tracker

import (
	"errors"
	"strings"
)

var ErrEmptyTicket = errors.New("ticket file is empty")

// ParseTicketMarkdown splits a ticket file into its title and Markdown body.
// The title is the first line without its leading "#" or "##"; leading blank
// lines of the body are dropped.
func ParseTicketMarkdown(content string) (title, description string, err error) {
	lines := strings.Split(normalizeNewlines(content), "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start == len(lines) {
		return "", "", ErrEmptyTicket
	}

	title = strings.TrimSpace(lines[start])
	title = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(title, "##"), "#"))
	if title == "" {
		return "", "", ErrEmptyTicket
	}

	return title, bodyFrom(lines[start+1:]), nil
}

// DescriptionOnly drops the first "#" title line and returns the remaining
// Markdown with leading blank lines removed.
func DescriptionOnly(content string) string {
	lines := strings.Split(normalizeNewlines(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return bodyFrom(append(append([]string(nil), lines[:i]...), lines[i+1:]...))
		}
	}
	return bodyFrom(lines)
}

func bodyFrom(lines []string) string {
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return strings.TrimRight(strings.Join(lines[i:], "\n"), "\n ")
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
