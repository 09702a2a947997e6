package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
)

// IssueGetter fetches a single issue by key.
type IssueGetter interface {
	GetIssue(ctx context.Context, key string) (*Issue, error)
}

// IssueSummary is the part of an issue the board report needs.
type IssueSummary struct {
	Key      string
	Summary  string
	Type     string
	Status   string
	EpicLink string
	Parent   string
	Relates  []string
	Assignee string
	Created  string
}

type FetchError struct {
	Key   string
	Error string
}

// BoardReport groups every probed key by issue type.
type BoardReport struct {
	Project  string
	Epics    []IssueSummary
	Stories  []IssueSummary
	Tasks    []IssueSummary
	Bugs     []IssueSummary
	Subtasks []IssueSummary
	NotFound []string
	Errors   []FetchError
}

type Duplicate struct {
	Summary string
	Keys    []string
}

// ParseRange parses "start-end" with 1 <= start <= end.
func ParseRange(s string) (start, end int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q: expected start-end", s)
	}
	start, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range start %q", parts[0])
	}
	end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range end %q", parts[1])
	}
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("invalid range %q: start must be >= 1 and <= end", s)
	}
	return start, end, nil
}

// AnalyzeBoard fetches PROJECT-start through PROJECT-end one at a time.
// Missing issues land in NotFound and other failures in Errors; neither
// stops the scan. progress, when set, receives each key before it is fetched.
func AnalyzeBoard(ctx context.Context, client IssueGetter, project string, start, end int, progress func(key string)) *BoardReport {
	report := &BoardReport{Project: project}

	for i := start; i <= end; i++ {
		if ctx.Err() != nil {
			break
		}
		key := fmt.Sprintf("%s-%d", project, i)
		if progress != nil {
			progress(key)
		}

		issue, err := client.GetIssue(ctx, key)
		if errors.Is(err, ErrNotFound) {
			report.NotFound = append(report.NotFound, key)
			continue
		}
		if err != nil {
			logger.Warn("Failed to fetch issue", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			report.Errors = append(report.Errors, FetchError{Key: key, Error: err.Error()})
			continue
		}
		report.add(summarize(issue))
	}
	return report
}

func summarize(issue *Issue) IssueSummary {
	f := issue.Fields
	s := IssueSummary{
		Key:     issue.Key,
		Summary: f.Summary,
		Type:    f.IssueType.Name,
		Status:  f.Status.Name,
		Created: f.Created,
	}
	if f.EpicLink != nil {
		s.EpicLink = *f.EpicLink
	}
	if f.Parent != nil {
		s.Parent = f.Parent.Key
	}
	if f.Assignee != nil {
		s.Assignee = f.Assignee.DisplayName
	}
	for _, link := range f.IssueLinks {
		if link.Type.Name != "Relates" {
			continue
		}
		if link.OutwardIssue != nil {
			s.Relates = append(s.Relates, link.OutwardIssue.Key)
		}
		if link.InwardIssue != nil {
			s.Relates = append(s.Relates, link.InwardIssue.Key)
		}
	}
	return s
}

// add files an issue under its type. Unknown types count as stories.
func (r *BoardReport) add(s IssueSummary) {
	switch strings.ToLower(s.Type) {
	case "epic":
		r.Epics = append(r.Epics, s)
	case "task":
		r.Tasks = append(r.Tasks, s)
	case "bug":
		r.Bugs = append(r.Bugs, s)
	case "subtask", "sub-task":
		r.Subtasks = append(r.Subtasks, s)
	default:
		r.Stories = append(r.Stories, s)
	}
}

func (r *BoardReport) TotalFound() int {
	return len(r.Epics) + len(r.Stories) + len(r.Tasks) + len(r.Bugs) + len(r.Subtasks)
}

// Duplicates groups epics, stories, tasks and bugs sharing a summary,
// compared case-insensitively. Groups come back in first-seen order.
func (r *BoardReport) Duplicates() []Duplicate {
	groups := map[string]*Duplicate{}
	var order []string

	for _, list := range [][]IssueSummary{r.Epics, r.Stories, r.Tasks, r.Bugs} {
		for _, s := range list {
			norm := strings.ToLower(strings.TrimSpace(s.Summary))
			if norm == "" {
				continue
			}
			g, ok := groups[norm]
			if !ok {
				g = &Duplicate{Summary: s.Summary}
				groups[norm] = g
				order = append(order, norm)
			}
			g.Keys = append(g.Keys, s.Key)
		}
	}

	var out []Duplicate
	for _, norm := range order {
		if g := groups[norm]; len(g.Keys) > 1 {
			out = append(out, *g)
		}
	}
	return out
}

func (r *BoardReport) StoriesWithoutEpic() []IssueSummary {
	var out []IssueSummary
	for _, s := range r.Stories {
		if s.EpicLink == "" {
			out = append(out, s)
		}
	}
	return out
}

// StoriesByEpic maps each epic key to the stories linked to it.
func (r *BoardReport) StoriesByEpic() map[string][]IssueSummary {
	out := map[string][]IssueSummary{}
	for _, s := range r.Stories {
		if s.EpicLink != "" {
			out[s.EpicLink] = append(out[s.EpicLink], s)
		}
	}
	return out
}

const rule = "================================================================"

// WriteReport prints the categorized board, the duplicate check, the stories
// missing an epic and a summary. boardURL is printed last when set.
func WriteReport(w io.Writer, r *BoardReport, boardURL string) {
	byEpic := r.StoriesByEpic()

	section(w, "EPICS", len(r.Epics))
	for _, e := range r.Epics {
		fmt.Fprintf(w, "  %s: %s [%s]\n", e.Key, e.Summary, e.Status)
		stories := byEpic[e.Key]
		sort.Slice(stories, func(i, j int) bool { return stories[i].Key < stories[j].Key })
		for _, s := range stories {
			fmt.Fprintf(w, "    - %s: %s\n", s.Key, s.Summary)
		}
	}

	section(w, "STORIES", len(r.Stories))
	for _, s := range r.Stories {
		fmt.Fprintf(w, "  %s: %s [%s]\n", s.Key, s.Summary, s.Status)
		if s.EpicLink != "" {
			fmt.Fprintf(w, "    Epic: %s\n", s.EpicLink)
		}
		if len(s.Relates) > 0 {
			fmt.Fprintf(w, "    Relates: %s\n", strings.Join(s.Relates, ", "))
		}
		if s.Assignee != "" {
			fmt.Fprintf(w, "    Assignee: %s\n", s.Assignee)
		}
	}

	section(w, "TASKS", len(r.Tasks))
	writeSimple(w, r.Tasks)

	section(w, "BUGS", len(r.Bugs))
	writeSimple(w, r.Bugs)

	section(w, "SUBTASKS", len(r.Subtasks))
	for _, s := range r.Subtasks {
		fmt.Fprintf(w, "  %s: %s [%s]", s.Key, s.Summary, s.Status)
		if s.Parent != "" {
			fmt.Fprintf(w, " (parent %s)", s.Parent)
		}
		fmt.Fprintln(w)
	}

	dups := r.Duplicates()
	section(w, "DUPLICATE CHECK", len(dups))
	if len(dups) == 0 {
		fmt.Fprintln(w, "  No duplicate summaries found.")
	}
	for _, d := range dups {
		fmt.Fprintf(w, "  %q: %s\n", d.Summary, strings.Join(d.Keys, ", "))
	}

	orphans := r.StoriesWithoutEpic()
	section(w, "STORIES WITHOUT EPIC LINKS", len(orphans))
	writeSimple(w, orphans)

	fmt.Fprintf(w, "\n%s\nSUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(w, "  Epics:     %d\n", len(r.Epics))
	fmt.Fprintf(w, "  Stories:   %d\n", len(r.Stories))
	fmt.Fprintf(w, "  Tasks:     %d\n", len(r.Tasks))
	fmt.Fprintf(w, "  Bugs:      %d\n", len(r.Bugs))
	fmt.Fprintf(w, "  Subtasks:  %d\n", len(r.Subtasks))
	fmt.Fprintf(w, "  Not Found: %d", len(r.NotFound))
	if len(r.NotFound) > 0 {
		shown := r.NotFound
		if len(shown) > 10 {
			shown = shown[:10]
		}
		fmt.Fprintf(w, " (%s", strings.Join(shown, ", "))
		if len(r.NotFound) > 10 {
			fmt.Fprint(w, ", ...")
		}
		fmt.Fprint(w, ")")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Errors:    %d\n", len(r.Errors))
	for _, e := range r.Errors {
		fmt.Fprintf(w, "    %s: %s\n", e.Key, e.Error)
	}
	fmt.Fprintf(w, "  Total Found: %d\n", r.TotalFound())
	if boardURL != "" {
		fmt.Fprintf(w, "\nBoard: %s\n", boardURL)
	}
}

func section(w io.Writer, title string, count int) {
	fmt.Fprintf(w, "\n%s\n%s (%d)\n%s\n", rule, title, count, rule)
}

func writeSimple(w io.Writer, list []IssueSummary) {
	for _, s := range list {
		fmt.Fprintf(w, "  %s: %s [%s]\n", s.Key, s.Summary, s.Status)
	}
}
