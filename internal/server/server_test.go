package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lewisedginton/teambuilder_concierge/internal/concierge"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory/memory"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools/draft_message"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools/search_candidates"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type planFunc func(ctx context.Context, req concierge.ChatRequest) concierge.Plan

func (f planFunc) Plan(ctx context.Context, req concierge.ChatRequest) concierge.Plan { return f(ctx, req) }

func searchPlanner() concierge.Planner {
	return planFunc(func(_ context.Context, req concierge.ChatRequest) concierge.Plan {
		return concierge.Plan{Tool: tools.SearchCandidates, Arguments: map[string]any{"skills": req.Message}}
	})
}

func newTestServer(planner concierge.Planner, opts Options) *Server {
	dir := memory.New(
		directory.User{ID: "usr-aarav", Name: "Aarav", Skills: []string{"React", "Node.js"}, Availability: directory.AvailabilityAvailable},
		directory.User{ID: "usr-ben", Name: "Ben", Skills: []string{"Python"}, Availability: directory.AvailabilityAvailable},
	)
	executor := tools.NewExecutor(nil, nil, search_candidates.New(dir), draft_message.New(nil, nil, nil))
	opts.Orchestrator = concierge.New(concierge.Config{Executor: executor, Directory: dir, Planner: planner})
	opts.Version = "test"
	opts.ProviderName = "none"
	return New(opts)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := do(t, newTestServer(searchPlanner(), Options{}).Router(), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"teambuilder-concierge","version":"test","provider":"none","tools":["search_candidates","draft_message"]}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(logger.CorrelationIDHeader))
}

func TestChat(t *testing.T) {
	h := newTestServer(searchPlanner(), Options{}).Router()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "match",
			body:     `{"message":"react","context":"fintech"}`,
			wantCode: http.StatusOK,
			wantBody: `{"response":"Found 1 matching candidate(s):\n1. Aarav (React, Node.js)","selectedTool":"search_candidates",
				"toolResult":{"candidates":[{"id":"usr-aarav","name":"Aarav","skills":["React","Node.js"],"availability":"available","college":""}]},
				"mentionedUsers":[{"id":"usr-aarav","name":"Aarav","skills":["React","Node.js"]}]}`,
		},
		{
			name:     "legacy context key",
			body:     `{"message":"python","conversationContext":"earlier"}`,
			wantCode: http.StatusOK,
			wantBody: `{"response":"Found 1 matching candidate(s):\n1. Ben (Python)","selectedTool":"search_candidates",
				"toolResult":{"candidates":[{"id":"usr-ben","name":"Ben","skills":["Python"],"availability":"available","college":""}]},
				"mentionedUsers":[{"id":"usr-ben","name":"Ben","skills":["Python"]}]}`,
		},
		{name: "blank message", body: `{"message":"   "}`, wantCode: http.StatusBadRequest, wantBody: `{"error":"message is required"}`},
		{name: "bad json", body: `{"message":`, wantCode: http.StatusBadRequest, wantBody: `{"error":"invalid JSON body"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/ai/chat", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestChatPanicIsServiceUnavailable(t *testing.T) {
	panicking := planFunc(func(context.Context, concierge.ChatRequest) concierge.Plan { panic("boom") })
	rec := do(t, newTestServer(panicking, Options{}).Router(), http.MethodPost, "/api/ai/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"AI service unavailable"}`, rec.Body.String())
}

func TestRequestBodyLimit(t *testing.T) {
	h := newTestServer(searchPlanner(), Options{MaxBodyBytes: 32}).Router()
	rec := do(t, h, http.MethodPost, "/api/ai/chat", `{"message":"`+strings.Repeat("a", 64)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestInvokeTool(t *testing.T) {
	h := newTestServer(searchPlanner(), Options{}).Router()

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		check    func(t *testing.T, body []byte)
	}{
		{
			name: "search", path: "/api/ai/tools/search-candidates", body: `{"skills":["node"]}`, wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp toolResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				require.Len(t, resp.Result.Candidates, 1)
				assert.Equal(t, "Aarav", resp.Result.Candidates[0].Name)
			},
		},
		{
			name: "empty body is an unscoped search", path: "/api/ai/tools/search-candidates", body: "", wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"result":{"candidates":[]}}`, string(body))
			},
		},
		{
			name: "tool name form", path: "/api/ai/tools/draft_message", body: `{"projectName":"Ledger"}`, wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"result":{"draft":"Unable to generate draft right now."}}`, string(body))
			},
		},
		{
			name: "invalid input", path: "/api/ai/tools/search-candidates", body: `{"matchMode":"some"}`, wantCode: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				var resp errorBody
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "Invalid input for search_candidates", resp.Error)
				require.Len(t, resp.Details, 1)
				assert.Equal(t, "matchMode", resp.Details[0].Field)
			},
		},
		{
			name: "wrong type", path: "/api/ai/tools/search-candidates", body: `{"skills":"react"}`, wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown tool", path: "/api/ai/tools/launch-rocket", body: `{}`, wantCode: http.StatusNotFound,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"error":"Unknown tool"}`, string(body))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, rec.Body.Bytes())
			}
		})
	}
}

func TestDraftInvite(t *testing.T) {
	h := newTestServer(searchPlanner(), Options{}).Router()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{"drafts", `{"senderId":"usr-aarav","receiverId":"usr-ben","projectContext":"ledger"}`, http.StatusOK,
			`{"draft":"No AI provider configured","receiverName":"Ben"}`},
		{"missing ids", `{"senderId":"usr-aarav"}`, http.StatusBadRequest, `{"error":"senderId and receiverId are required"}`},
		{"unknown sender", `{"senderId":"usr-x","receiverId":"usr-ben"}`, http.StatusNotFound, `{"error":"Sender not found"}`},
		{"unknown receiver", `{"senderId":"usr-aarav","receiverId":"usr-x"}`, http.StatusNotFound, `{"error":"User not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/ai/draft", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHealthRoutes(t *testing.T) {
	h := newTestServer(searchPlanner(), Options{}).Router()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/live", "").Code)
	// provider "none" fails readiness
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/health/ready", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/ping", "").Code)
}

type fakeConnector struct {
	err     error
	started chan struct{}
}

func (f *fakeConnector) Name() string { return "fake" }

func (f *fakeConnector) Start(ctx context.Context) error {
	close(f.started)
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func TestServeShutsDownOnCancel(t *testing.T) {
	conn := &fakeConnector{started: make(chan struct{})}
	s := newTestServer(searchPlanner(), Options{Connectors: []Connector{conn}})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	<-conn.started
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeStopsWhenConnectorFails(t *testing.T) {
	conn := &fakeConnector{err: errors.New("bad token"), started: make(chan struct{})}
	s := newTestServer(searchPlanner(), Options{Connectors: []Connector{conn}})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	err = s.Serve(context.Background(), ln)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake connector: bad token")
}
