package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
)

const (
	apiPath        = "/rest/api/3"
	defaultTimeout = 30 * time.Second

	// EpicLinkField is the custom field holding a story's epic.
	EpicLinkField = "customfield_10011"
)

var ErrNotFound = errors.New("issue not found")

// IssueTypeIDs maps issue type names to their ids in the project.
var IssueTypeIDs = map[string]string{
	"Epic":    "10004",
	"Story":   "10003",
	"Task":    "10001",
	"Bug":     "10002",
	"Subtask": "10005",
}

// APIError is a non-2xx answer from the tracker.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

type Client struct {
	cfg  *Config
	http *http.Client
}

func NewClient(cfg *Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithHTTP uses hc instead of the default client.
func NewClientWithHTTP(cfg *Config, hc *http.Client) *Client {
	return &Client{cfg: cfg, http: hc}
}

func (c *Client) Config() *Config {
	return c.cfg
}

type NamedRef struct {
	Name string `json:"name"`
}

type KeyRef struct {
	Key string `json:"key"`
}

type IssueLink struct {
	Type         NamedRef `json:"type"`
	OutwardIssue *KeyRef  `json:"outwardIssue,omitempty"`
	InwardIssue  *KeyRef  `json:"inwardIssue,omitempty"`
}

type Assignee struct {
	DisplayName string `json:"displayName"`
}

type IssueFields struct {
	Summary    string      `json:"summary"`
	IssueType  NamedRef    `json:"issuetype"`
	Status     NamedRef    `json:"status"`
	Parent     *KeyRef     `json:"parent,omitempty"`
	EpicLink   *string     `json:"customfield_10011,omitempty"`
	IssueLinks []IssueLink `json:"issuelinks"`
	Created    string      `json:"created"`
	Assignee   *Assignee   `json:"assignee,omitempty"`
}

type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type Transition struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	To   NamedRef `json:"to"`
}

// CreateIssueInput describes a new ticket. EpicKey is optional.
type CreateIssueInput struct {
	Project     string
	Summary     string
	Description *Node
	IssueTypeID string
	EpicKey     string
}

type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// GetIssue fetches one issue. A missing issue returns ErrNotFound.
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	var issue Issue
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key), nil, &issue); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

func (c *Client) CreateIssue(ctx context.Context, in CreateIssueInput) (*CreatedIssue, error) {
	fields := map[string]interface{}{
		"project":     map[string]string{"key": in.Project},
		"summary":     in.Summary,
		"description": in.Description,
		"issuetype":   map[string]string{"id": in.IssueTypeID},
	}
	if in.EpicKey != "" {
		fields[EpicLinkField] = in.EpicKey
	}

	var created CreatedIssue
	if err := c.do(ctx, http.MethodPost, "/issue", map[string]interface{}{"fields": fields}, &created); err != nil {
		return nil, err
	}
	logger.Debug("Issue created", map[string]interface{}{"key": created.Key})
	return &created, nil
}

// UpdateDescription replaces the description of an issue.
func (c *Client) UpdateDescription(ctx context.Context, key string, doc *Node) error {
	body := map[string]interface{}{
		"fields": map[string]interface{}{"description": doc},
	}
	return c.do(ctx, http.MethodPut, "/issue/"+url.PathEscape(key), body, nil)
}

func (c *Client) GetTransitions(ctx context.Context, key string) ([]Transition, error) {
	var resp struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key)+"/transitions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transitions, nil
}

func (c *Client) DoTransition(ctx context.Context, key, transitionID string) error {
	body := map[string]interface{}{
		"transition": map[string]string{"id": transitionID},
	}
	return c.do(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/transitions", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+apiPath+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("Tracker request", map[string]interface{}{
		"method": method,
		"path":   path,
	})

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
