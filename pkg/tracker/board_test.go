package tracker

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBoard map[string]*Issue

func (f fakeBoard) GetIssue(_ context.Context, key string) (*Issue, error) {
	if key == "GMP-6" {
		return nil, errors.New("HTTP 500: boom")
	}
	issue, ok := f[key]
	if !ok {
		return nil, ErrNotFound
	}
	return issue, nil
}

func issue(key, typ, summary, epic string) *Issue {
	i := &Issue{Key: key, Fields: IssueFields{
		Summary:   summary,
		IssueType: NamedRef{Name: typ},
		Status:    NamedRef{Name: "To Do"},
	}}
	if epic != "" {
		i.Fields.EpicLink = &epic
	}
	return i
}

func TestParseRange(t *testing.T) {
	start, end, err := ParseRange("1-50")
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, 50, end)

	for _, bad := range []string{"", "10", "a-5", "5-b", "0-3", "9-2", "1-2-3"} {
		_, _, err := ParseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestAnalyzeBoard(t *testing.T) {
	story := issue("GMP-2", "Story", "Catálogo público", "GMP-1")
	story.Fields.IssueLinks = []IssueLink{
		{Type: NamedRef{Name: "Relates"}, InwardIssue: &KeyRef{Key: "GMP-3"}},
		{Type: NamedRef{Name: "Blocks"}, OutwardIssue: &KeyRef{Key: "GMP-4"}},
	}
	subtask := issue("GMP-8", "Subtask", "Maquetar tarjetas", "")
	subtask.Fields.Parent = &KeyRef{Key: "GMP-2"}

	board := fakeBoard{
		"GMP-1": issue("GMP-1", "Epic", "Tienda", ""),
		"GMP-2": story,
		"GMP-3": issue("GMP-3", "Story", "catálogo PÚBLICO ", ""),
		"GMP-4": issue("GMP-4", "Task", "Configurar bucket", ""),
		"GMP-5": issue("GMP-5", "Bug", "Precio mal formateado", ""),
		"GMP-7": issue("GMP-7", "Spike", "Investigar pagos", ""),
		"GMP-8": subtask,
	}

	var probed []string
	report := AnalyzeBoard(context.Background(), board, "GMP", 1, 10, func(key string) {
		probed = append(probed, key)
	})

	assert.Len(t, probed, 10)
	assert.Len(t, report.Epics, 1)
	assert.Len(t, report.Stories, 3)
	assert.Len(t, report.Tasks, 1)
	assert.Len(t, report.Bugs, 1)
	require.Len(t, report.Subtasks, 1)
	assert.Equal(t, "GMP-2", report.Subtasks[0].Parent)
	assert.Equal(t, []string{"GMP-9", "GMP-10"}, report.NotFound)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "GMP-6", report.Errors[0].Key)
	assert.Equal(t, 7, report.TotalFound())

	assert.Equal(t, []string{"GMP-3"}, report.Stories[0].Relates)
	assert.Equal(t, "GMP-1", report.Stories[0].EpicLink)

	dups := report.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, []string{"GMP-2", "GMP-3"}, dups[0].Keys)

	orphans := report.StoriesWithoutEpic()
	require.Len(t, orphans, 2)
	assert.Equal(t, "GMP-3", orphans[0].Key)
	assert.Equal(t, "GMP-7", orphans[1].Key)

	var out bytes.Buffer
	WriteReport(&out, report, "https://gmp.atlassian.net/browse/GMP")
	text := out.String()
	for _, want := range []string{
		"EPICS (1)",
		"STORIES (3)",
		"TASKS (1)",
		"BUGS (1)",
		"SUBTASKS (1)",
		"DUPLICATE CHECK (1)",
		"STORIES WITHOUT EPIC LINKS (2)",
		"SUMMARY",
		"Not Found: 2 (GMP-9, GMP-10)",
		"Errors:    1",
		"Total Found: 7",
		"Board: https://gmp.atlassian.net/browse/GMP",
		"    - GMP-2: Catálogo público",
	} {
		assert.Contains(t, text, want)
	}
}

func TestAnalyzeBoard_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := AnalyzeBoard(ctx, fakeBoard{}, "GMP", 1, 5, nil)
	assert.Zero(t, report.TotalFound())
	assert.Empty(t, report.NotFound)
}
