package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body map[string]interface{})) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "dev@gmp.uy" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]interface{}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		requests = append(requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		w.Header().Set("Content-Type", "application/json")
		handler(w, r, body)
	}))
	t.Cleanup(srv.Close)

	cfg := &Config{BaseURL: srv.URL, Email: "dev@gmp.uy", APIToken: "secret"}
	return NewClientWithHTTP(cfg, srv.Client()), &requests
}

func TestClient_GetIssue(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ map[string]interface{}) {
		switch r.URL.Path {
		case "/rest/api/3/issue/GMP-1":
			_, _ = w.Write([]byte(`{
				"id": "10001",
				"key": "GMP-1",
				"fields": {
					"summary": "Catálogo público",
					"issuetype": {"name": "Story"},
					"status": {"name": "In Progress"},
					"customfield_10011": "GMP-10",
					"issuelinks": [
						{"type": {"name": "Relates"}, "outwardIssue": {"key": "GMP-2"}},
						{"type": {"name": "Blocks"}, "outwardIssue": {"key": "GMP-3"}}
					],
					"assignee": {"displayName": "Lucía"}
				}
			}`))
		case "/rest/api/3/issue/GMP-404":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`boom`))
		}
	})
	ctx := context.Background()

	issue, err := client.GetIssue(ctx, "GMP-1")
	require.NoError(t, err)
	assert.Equal(t, "Catálogo público", issue.Fields.Summary)
	require.NotNil(t, issue.Fields.EpicLink)
	assert.Equal(t, "GMP-10", *issue.Fields.EpicLink)
	assert.Len(t, issue.Fields.IssueLinks, 2)
	assert.Equal(t, http.MethodGet, (*requests)[0].Method)

	_, err = client.GetIssue(ctx, "GMP-404")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.GetIssue(ctx, "GMP-500")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Body)
}

func TestClient_CreateIssue(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ map[string]interface{}) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"10050","key":"GMP-51","self":"x"}`))
	})

	created, err := client.CreateIssue(context.Background(), CreateIssueInput{
		Project:     "GMP",
		Summary:     "Filtro por precio",
		Description: MarkdownToADF("Rangos **bajo**, medio y alto."),
		IssueTypeID: IssueTypeIDs["Story"],
		EpicKey:     "GMP-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "GMP-51", created.Key)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/rest/api/3/issue", req.Path)

	fields := req.Body["fields"].(map[string]interface{})
	assert.Equal(t, "Filtro por precio", fields["summary"])
	assert.Equal(t, "GMP", fields["project"].(map[string]interface{})["key"])
	assert.Equal(t, "10003", fields["issuetype"].(map[string]interface{})["id"])
	assert.Equal(t, "GMP-10", fields[EpicLinkField])
	assert.Equal(t, "doc", fields["description"].(map[string]interface{})["type"])
}

func TestClient_CreateIssueWithoutEpic(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ map[string]interface{}) {
		_, _ = w.Write([]byte(`{"id":"1","key":"GMP-52"}`))
	})

	_, err := client.CreateIssue(context.Background(), CreateIssueInput{
		Project:     "GMP",
		Summary:     "Tarea",
		Description: MarkdownToADF(""),
		IssueTypeID: IssueTypeIDs["Task"],
	})
	require.NoError(t, err)

	fields := (*requests)[0].Body["fields"].(map[string]interface{})
	_, hasEpic := fields[EpicLinkField]
	assert.False(t, hasEpic)
}

func TestClient_UpdateDescription(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ map[string]interface{}) {
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UpdateDescription(context.Background(), "GMP-3", MarkdownToADF("Nuevo texto"))
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/rest/api/3/issue/GMP-3", req.Path)
	fields := req.Body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "description")
}

func TestClient_Transitions(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ map[string]interface{}) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"transitions":[
				{"id":"11","name":"Start","to":{"name":"In Progress"}},
				{"id":"31","name":"Finish","to":{"name":"Done"}}
			]}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	transitions, err := client.GetTransitions(ctx, "GMP-4")
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, "Done", transitions[1].To.Name)

	require.NoError(t, client.DoTransition(ctx, "GMP-4", "31"))

	post := (*requests)[1]
	assert.Equal(t, http.MethodPost, post.Method)
	assert.Equal(t, "/rest/api/3/issue/GMP-4/transitions", post.Path)
	assert.Equal(t, "31", post.Body["transition"].(map[string]interface{})["id"])
}

func TestClient_RejectsBadCredentials(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ map[string]interface{}) {})
	client.cfg.APIToken = "wrong"

	_, err := client.GetTransitions(context.Background(), "GMP-1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
