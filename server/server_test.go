package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boat-builder/travelpod"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	answer        string
	answerErr     error
	lastQuery     string
	conversations []travelpod.Conversation
	storageErr    error
	lastLimit     int
	lastOffset    int
}

func (f *fakeService) Answer(ctx context.Context, query string) (string, error) {
	f.lastQuery = query
	return f.answer, f.answerErr
}

func (f *fakeService) RunTool(ctx context.Context, name string, place string) (string, error) {
	switch {
	case name != "search_restaurants":
		return "", fmt.Errorf("%w: %s", travelpod.ErrToolNotFound, name)
	case place == "":
		return "", &travelpod.RetryableError{Err: errors.New("argument 'place' must be a non-empty string")}
	}
	return "Following are the restaurants of " + place, nil
}

func (f *fakeService) Tools() []travelpod.ToolInfo {
	return []travelpod.ToolInfo{{Name: "search_restaurants", Description: "Search restaurants of a place"}}
}

func (f *fakeService) Conversations(ctx context.Context, limit int, offset int) ([]travelpod.Conversation, error) {
	f.lastLimit, f.lastOffset = limit, offset
	return f.conversations, f.storageErr
}

func setupTestServer(service Service) *Server {
	gin.SetMode(gin.TestMode)
	return New(service, nil)
}

func do(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	s := setupTestServer(&fakeService{})

	w := do(s, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestQuery(t *testing.T) {
	service := &fakeService{answer: "Visit the Louvre."}
	s := setupTestServer(service)

	w := do(s, "POST", "/query", map[string]string{"query": "What to see in Paris?"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Visit the Louvre.", decode(t, w)["answer"])
	assert.Equal(t, "What to see in Paris?", service.lastQuery)
}

func TestQueryErrors(t *testing.T) {
	t.Run("MissingQuery", func(t *testing.T) {
		s := setupTestServer(&fakeService{})
		w := do(s, "POST", "/query", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, decode(t, w)["error"])
	})

	t.Run("MalformedBody", func(t *testing.T) {
		s := setupTestServer(&fakeService{})
		req, _ := http.NewRequest("POST", "/query", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("BlankQuery", func(t *testing.T) {
		s := setupTestServer(&fakeService{answerErr: travelpod.ErrEmptyQuery})
		w := do(s, "POST", "/query", map[string]string{"query": "   "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("AgentFailure", func(t *testing.T) {
		s := setupTestServer(&fakeService{answerErr: errors.New("agent failed: upstream timeout")})
		w := do(s, "POST", "/query", map[string]string{"query": "Plan Rome"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "agent failed: upstream timeout", decode(t, w)["error"])
	})
}

func TestTools(t *testing.T) {
	s := setupTestServer(&fakeService{})

	t.Run("List", func(t *testing.T) {
		w := do(s, "GET", "/tools", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var tools []travelpod.ToolInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tools))
		require.Len(t, tools, 1)
		assert.Equal(t, "search_restaurants", tools[0].Name)
	})

	t.Run("Run", func(t *testing.T) {
		w := do(s, "POST", "/tools/search_restaurants", map[string]string{"place": "Paris"})
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "search_restaurants", resp["tool"])
		assert.Equal(t, "Following are the restaurants of Paris", resp["result"])
	})

	t.Run("Unknown", func(t *testing.T) {
		w := do(s, "POST", "/tools/search_hotels", map[string]string{"place": "Paris"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MissingPlace", func(t *testing.T) {
		w := do(s, "POST", "/tools/search_restaurants", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConversations(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		service := &fakeService{conversations: []travelpod.Conversation{
			{SessionID: "abc", UserMessage: "Plan Rome", AssistantMessage: "See the Colosseum.", CreatedAt: time.Now()},
		}}
		s := setupTestServer(service)

		w := do(s, "GET", "/conversations?limit=5&offset=2", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var conversations []travelpod.Conversation
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conversations))
		require.Len(t, conversations, 1)
		assert.Equal(t, "abc", conversations[0].SessionID)
		assert.Equal(t, 5, service.lastLimit)
		assert.Equal(t, 2, service.lastOffset)
	})

	t.Run("DefaultsAndCap", func(t *testing.T) {
		service := &fakeService{}
		s := setupTestServer(service)

		do(s, "GET", "/conversations", nil)
		assert.Equal(t, defaultConversationLimit, service.lastLimit)
		assert.Equal(t, 0, service.lastOffset)

		do(s, "GET", "/conversations?limit=1000", nil)
		assert.Equal(t, maxConversationLimit, service.lastLimit)
	})

	t.Run("BadParams", func(t *testing.T) {
		s := setupTestServer(&fakeService{})
		assert.Equal(t, http.StatusBadRequest, do(s, "GET", "/conversations?limit=abc", nil).Code)
		assert.Equal(t, http.StatusBadRequest, do(s, "GET", "/conversations?limit=0", nil).Code)
		assert.Equal(t, http.StatusBadRequest, do(s, "GET", "/conversations?offset=-1", nil).Code)
	})

	t.Run("StorageDisabled", func(t *testing.T) {
		s := setupTestServer(&fakeService{storageErr: travelpod.ErrStorageDisabled})
		w := do(s, "GET", "/conversations", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
