// Package testutil provides testing utilities for the discussions archiver.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/helloamger/discussions-archiver/pkg/gh"
)

// MockResponse defines one scripted response of the mock GraphQL endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockGitHub is a scripted mock of the GitHub GraphQL endpoint. Responses
// are enqueued and served in order; once the script is exhausted every
// further request gets an empty single-page response.
type MockGitHub struct {
	server *httptest.Server

	mu    sync.Mutex
	queue []MockResponse

	// Tracking
	RequestCount int
	Queries      []string
	LastAuth     string
}

// NewMockGitHub creates a new mock GraphQL server.
func NewMockGitHub() *MockGitHub {
	mock := &MockGitHub{}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		mock.mu.Lock()
		mock.RequestCount++
		mock.Queries = append(mock.Queries, body.Query)
		mock.LastAuth = r.Header.Get("Authorization")

		var resp MockResponse
		if len(mock.queue) > 0 {
			resp = mock.queue[0]
			mock.queue = mock.queue[1:]
		} else {
			resp = NewPageResponse(false, "")
		}
		mock.mu.Unlock()

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}

		status := resp.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockGitHub) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockGitHub) Close() {
	m.server.Close()
}

// Enqueue appends scripted responses to the queue.
func (m *MockGitHub) Enqueue(resps ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resps...)
}

// GetRequestCount returns the number of requests served.
func (m *MockGitHub) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RequestCount
}

// RecordedQueries returns a copy of all query strings received.
func (m *MockGitHub) RecordedQueries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Queries...)
}

// Node builds a discussion node with deterministic derived fields.
func Node(number int, title, createdAt string) gh.DiscussionNode {
	return gh.DiscussionNode{
		Number:    number,
		Title:     title,
		CreatedAt: createdAt,
		URL:       fmt.Sprintf("https://github.com/example/repo/discussions/%d", number),
		BodyHTML:  fmt.Sprintf("<p>body of #%d</p>", number),
	}
}

// PageBody builds a successful response body holding one discussions page.
// An empty endCursor yields a null cursor.
func PageBody(hasNext bool, endCursor string, nodes ...gh.DiscussionNode) string {
	edges := make([]gh.DiscussionEdge, 0, len(nodes))
	for _, n := range nodes {
		edges = append(edges, gh.DiscussionEdge{Node: n})
	}

	var cursor *string
	if endCursor != "" {
		cursor = &endCursor
	}

	resp := gh.Response{
		Data: &gh.ResponseData{
			Repository: &gh.RepositoryData{
				Discussions: gh.DiscussionConnection{
					PageInfo: gh.PageInfo{HasNextPage: hasNext, EndCursor: cursor},
					Edges:    edges,
				},
			},
		},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// NewPageResponse creates a 200 response with one discussions page.
func NewPageResponse(hasNext bool, endCursor string, nodes ...gh.DiscussionNode) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       PageBody(hasNext, endCursor, nodes...),
		Headers: map[string]string{
			"X-RateLimit-Limit":     "5000",
			"X-RateLimit-Remaining": "4999",
			"X-RateLimit-Reset":     strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
		},
	}
}

// NewGraphQLErrorResponse creates a 200 response carrying a GraphQL error.
func NewGraphQLErrorResponse(msg string) MockResponse {
	body, _ := json.Marshal(gh.Response{Errors: []gh.GraphQLError{{Message: msg}}})
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
	}
}

// NewRateLimitResponse creates a rate-limit error response advertising the
// given reset time.
func NewRateLimitResponse(resetAt time.Time) MockResponse {
	resp := NewGraphQLErrorResponse("API rate limit exceeded for user.")
	resp.Headers = map[string]string{
		"X-RateLimit-Limit":     "5000",
		"X-RateLimit-Remaining": "0",
		"X-RateLimit-Reset":     strconv.FormatInt(resetAt.Unix(), 10),
	}
	return resp
}

// NewNoDataResponse creates a 200 response without a data section and
// without errors, which the controller treats as a stop signal.
func NewNoDataResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{}`,
	}
}

// NewServerErrorResponse creates a 502 response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadGateway,
		Body:       `{"message": "Server Error"}`,
	}
}
