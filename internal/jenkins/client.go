// Package jenkins implements the REST client for a Jenkins-compatible CI
// server. All payloads go through the JSON API with tree filters so the
// server only serializes the fields the dashboard actually renders.
package jenkins

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"jenkdash/pkg/debug"
)

// ErrNotFound marks a 404 from the server, typically a job deleted between
// the hierarchy fetch and its selection.
var ErrNotFound = errors.New("not found")

// DataSource is the abstract CI collaborator consumed by the UI. The tree
// pane uses FetchHierarchy once per tree instance; the detail panes use the
// rest. Implementations must be safe for use from multiple tea.Cmd
// goroutines.
type DataSource interface {
	FetchHierarchy(ctx context.Context) ([]RawJob, error)
	FetchJobDetail(ctx context.Context, path string) (JobDetail, error)
	FetchQueue(ctx context.Context) ([]QueueItem, error)
	FetchExecutors(ctx context.Context) ([]Executor, error)
	TestConnection(ctx context.Context) error
	Base() string
}

// hierarchyDepth bounds the nested jobs[...] tree expression used to fetch
// the whole hierarchy in one request. Ten levels of folder nesting is far
// beyond anything seen in practice.
const hierarchyDepth = 10

// Client talks to a single server over its JSON API using basic auth with an
// API token.
type Client struct {
	base     string // normalized with trailing slash
	username string
	token    string
	httpc    *http.Client
}

var _ DataSource = (*Client)(nil)

// NewClient validates and normalizes the server URL and returns a client.
// No timeouts are configured on the underlying http.Client: fetches are
// user-initiated and a superseded result is discarded by the coordinator
// rather than cancelled.
func NewClient(rawURL, username, token string) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", rawURL)
	}
	base := u.String()
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		base:     base,
		username: username,
		token:    token,
		httpc:    &http.Client{},
	}, nil
}

// Base returns the normalized server base URL, always with a trailing slash.
// Node paths are relative to it.
func (c *Client) Base() string {
	return c.base
}

// get performs a JSON API request against base+rel+"api/json" and decodes
// the response into out.
func (c *Client) get(ctx context.Context, rel, tree string, out any) error {
	endpoint := c.base + strings.TrimPrefix(rel, "/") + "api/json"
	if tree != "" {
		endpoint += "?tree=" + url.QueryEscape(tree)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", endpoint, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s: unexpected status %s", endpoint, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

// jobTreeQuery builds the recursive jobs[...] tree expression down to the
// given depth.
func jobTreeQuery(depth int) string {
	q := "jobs[_class,name,url,color"
	if depth > 1 {
		q += "," + jobTreeQuery(depth-1)
	}
	return q + "]"
}

// FetchHierarchy retrieves the full job tree in a single recursive request.
// Only the tree root triggers this; deeper levels materialize from the
// inline child descriptors.
func (c *Client) FetchHierarchy(ctx context.Context) ([]RawJob, error) {
	defer debug.LogEnterExit("jenkins.FetchHierarchy")()

	var payload struct {
		Jobs []RawJob `json:"jobs"`
	}
	if err := c.get(ctx, "", jobTreeQuery(hierarchyDepth), &payload); err != nil {
		return nil, fmt.Errorf("fetching job hierarchy: %w", err)
	}
	return payload.Jobs, nil
}

// FetchJobDetail retrieves display name, description, health and recent
// build history for the job at the given server-relative path.
func (c *Client) FetchJobDetail(ctx context.Context, path string) (JobDetail, error) {
	defer debug.LogEnterExit("jenkins.FetchJobDetail")()

	const tree = "displayName,description,healthReport[score,description]," +
		"builds[number,url,result,timestamp,duration,building]{0,30}"

	var detail JobDetail
	if err := c.get(ctx, path, tree, &detail); err != nil {
		return JobDetail{}, fmt.Errorf("fetching detail for %s: %w", path, err)
	}
	return detail, nil
}

// FetchQueue retrieves the current build queue.
func (c *Client) FetchQueue(ctx context.Context) ([]QueueItem, error) {
	var payload struct {
		Items []QueueItem `json:"items"`
	}
	tree := "items[id,why,inQueueSince,stuck,task[name,color]]"
	if err := c.get(ctx, "queue/", tree, &payload); err != nil {
		return nil, fmt.Errorf("fetching build queue: %w", err)
	}
	return payload.Items, nil
}

// FetchExecutors retrieves the executor pool, flattened to one entry per
// executor slot. Offline nodes contribute no entries.
func (c *Client) FetchExecutors(ctx context.Context) ([]Executor, error) {
	var payload computerResponse
	tree := "computer[displayName,offline," +
		"executors[idle,progress,currentExecutable[fullDisplayName,url]]]"
	if err := c.get(ctx, "computer/", tree, &payload); err != nil {
		return nil, fmt.Errorf("fetching executors: %w", err)
	}

	var executors []Executor
	for _, node := range payload.Computer {
		if node.Offline {
			continue
		}
		for _, e := range node.Executors {
			ex := Executor{
				Node:     node.DisplayName,
				Idle:     e.Idle,
				Progress: e.Progress,
			}
			if e.CurrentExecutable != nil {
				ex.Build = e.CurrentExecutable.FullDisplayName
			}
			executors = append(executors, ex)
		}
	}
	return executors, nil
}

// TestConnection performs a minimal authenticated request to verify the
// configured URL and credentials.
func (c *Client) TestConnection(ctx context.Context) error {
	var payload struct {
		NodeName string `json:"nodeName"`
	}
	if err := c.get(ctx, "", "nodeName", &payload); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}
