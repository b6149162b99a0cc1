package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	twigerrors "github.com/eddieland/twig/internal/errors"
)

// HTTPClient is the default Client implementation, talking to the Jira
// Cloud/Server REST API directly over HTTP. Constructed from the same
// Config a Parser uses, plus credentials read from jira.toml/environment.
type HTTPClient struct {
	host       string
	apiToken   string
	username   string
	httpClient *http.Client
}

// NewHTTPClient returns an HTTPClient for host, authenticating with
// apiToken (and username, for Jira Cloud's email:token basic auth scheme).
// A Jira Server personal access token omits username and is sent as a
// bearer token instead.
func NewHTTPClient(host, username, apiToken string) *HTTPClient {
	return &HTTPClient{
		host:     strings.TrimSuffix(host, "/"),
		apiToken: apiToken,
		username: username,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Reachable reports whether host is configured and responds to a minimal
// authenticated request within a short deadline. Used to decide whether
// PROMPT_JIRA_BRANCH_CREATION may offer the from-summary option.
func (c *HTTPClient) Reachable(ctx context.Context) bool {
	if c.host == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/rest/api/2/myself", nil)
	if err != nil {
		return false
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode < http.StatusInternalServerError
}

// GetIssue fetches the summary field of a single issue by key.
func (c *HTTPClient) GetIssue(ctx context.Context, key string) (Issue, error) {
	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=summary", c.host, url.PathEscape(key))

	var body struct {
		Key    string `json:"key"`
		Fields struct {
			Summary string `json:"summary"`
		} `json:"fields"`
	}
	if err := c.doJSON(ctx, apiURL, &body); err != nil {
		return Issue{}, err
	}

	return Issue{Key: body.Key, Summary: body.Fields.Summary}, nil
}

// ListIssues runs a JQL search scoped to project, status, and assignee,
// returning every matching issue's key and summary. An empty status or
// assignee is omitted from the query.
func (c *HTTPClient) ListIssues(ctx context.Context, project, status, assignee string) ([]Issue, error) {
	clauses := []string{fmt.Sprintf("project = %q", project)}
	if status != "" {
		clauses = append(clauses, fmt.Sprintf("status = %q", status))
	}
	if assignee != "" {
		clauses = append(clauses, fmt.Sprintf("assignee = %q", assignee))
	}
	jql := strings.Join(clauses, " AND ")

	apiURL := fmt.Sprintf("%s/rest/api/2/search?jql=%s&fields=summary", c.host, url.QueryEscape(jql))

	var body struct {
		Issues []struct {
			Key    string `json:"key"`
			Fields struct {
				Summary string `json:"summary"`
			} `json:"fields"`
		} `json:"issues"`
	}
	if err := c.doJSON(ctx, apiURL, &body); err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(body.Issues))
	for _, raw := range body.Issues {
		issues = append(issues, Issue{Key: raw.Key, Summary: raw.Fields.Summary})
	}
	return issues, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, apiURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return twigerrors.Wrap(twigerrors.KindNetwork, err)
	}
	c.setAuth(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return twigerrors.Wrap(twigerrors.KindNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return twigerrors.Wrap(twigerrors.KindNetwork,
			fmt.Errorf("jira API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return twigerrors.Wrap(twigerrors.KindNetwork, err)
	}
	return nil
}

func (c *HTTPClient) setAuth(req *http.Request) {
	switch {
	case c.username != "" && c.apiToken != "":
		auth := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.apiToken))
		req.Header.Set("Authorization", "Basic "+auth)
	case c.apiToken != "":
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}
