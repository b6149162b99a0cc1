package jira

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientGetIssue(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/rest/api/2/issue/PROJ-123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"key":"PROJ-123","fields":{"summary":"Fix the thing"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "bot@example.com", "secret-token")
	issue, err := client.GetIssue(context.Background(), "PROJ-123")
	require.NoError(t, err)
	assert.Equal(t, "PROJ-123", issue.Key)
	assert.Equal(t, "Fix the thing", issue.Summary)

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("bot@example.com:secret-token"))
	assert.Equal(t, wantAuth, gotAuth)
}

func TestHTTPClientGetIssueBearerWhenNoUsername(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"key":"PROJ-1","fields":{"summary":"x"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "pat-token")
	_, err := client.GetIssue(context.Background(), "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer pat-token", gotAuth)
}

func TestHTTPClientGetIssueErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages":["issue does not exist"]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "token")
	_, err := client.GetIssue(context.Background(), "PROJ-404")
	require.Error(t, err)
}

func TestHTTPClientListIssues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "jql=")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"issues":[
			{"key":"PROJ-1","fields":{"summary":"First"}},
			{"key":"PROJ-2","fields":{"summary":"Second"}}
		]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "token")
	issues, err := client.ListIssues(context.Background(), "PROJ", "Open", "")
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "PROJ-1", issues[0].Key)
	assert.Equal(t, "Second", issues[1].Summary)
}

func TestHTTPClientReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "token")
	assert.True(t, client.Reachable(context.Background()))
}

func TestHTTPClientReachableFalseWhenHostEmpty(t *testing.T) {
	client := NewHTTPClient("", "", "")
	assert.False(t, client.Reachable(context.Background()))
}

func TestHTTPClientReachableFalseOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "token")
	assert.False(t, client.Reachable(context.Background()))
}
