package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dost-app/dost/internal/llm"
	"github.com/dost-app/dost/internal/tools"
)

func postChat(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChat_Reply(t *testing.T) {
	model := &scriptedModel{responses: []llm.Response{{Content: "Selam Ayşe!"}}}
	h := NewHandler(newTestOrchestrator(&memoryStore{}, model, nil))

	rec := postChat(t, h, `{"message":"merhaba","user_name":"Ayşe","interests":["müzik","kitap"],"emotion":"happy"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"Selam Ayşe!"}`, rec.Body.String())

	prompt := model.requests[0].Messages[0].Content
	assert.Contains(t, prompt, "Ayşe")
	assert.Contains(t, prompt, "müzik, kitap")
	assert.Contains(t, prompt, "mutlu görünüyor")
}

func TestChat_UserNameTakesPrecedence(t *testing.T) {
	model := &scriptedModel{responses: []llm.Response{{Content: "ok"}}}
	h := NewHandler(newTestOrchestrator(&memoryStore{}, model, nil))

	rec := postChat(t, h, `{"message":"m","userName":"Can","user_name":"Ece"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	prompt := model.requests[0].Messages[0].Content
	assert.Contains(t, prompt, "Can")
	assert.NotContains(t, prompt, "Ece")
}

func TestChat_ConversationHistoryForwarded(t *testing.T) {
	model := &scriptedModel{responses: []llm.Response{{Content: "ok"}}}
	h := NewHandler(newTestOrchestrator(&memoryStore{}, model, nil))

	rec := postChat(t, h, `{"message":"ve?","conversation_history":[{"role":"user","content":"a"},{"role":"assistant","content":"b"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	msgs := model.requests[0].Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, llm.Message{Role: "user", Content: "a"}, msgs[1])
	assert.Equal(t, llm.Message{Role: "assistant", Content: "b"}, msgs[2])
}

func TestChat_FunctionCall(t *testing.T) {
	model := &scriptedModel{responses: []llm.Response{{
		ToolCalls: []llm.ToolCall{{ID: "c", Name: tools.CreateEvent, Arguments: `{"title":"Yoga","date":"2024-05-04","time":"08:00"}`}},
	}}}
	h := NewHandler(newTestOrchestrator(&memoryStore{}, model, nil))

	rec := postChat(t, h, `{"message":"cumartesi yoga"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, fallbackAck, resp.Response)
	require.NotNil(t, resp.FunctionCall)
	assert.Equal(t, tools.CreateEvent, resp.FunctionCall.Name)
	assert.Equal(t, "Yoga", resp.FunctionCall.Arguments["title"])
}

func TestChat_ModelErrorIs200(t *testing.T) {
	model := &scriptedModel{errs: []error{errors.New("bad key")}}
	h := NewHandler(newTestOrchestrator(&memoryStore{}, model, nil))

	rec := postChat(t, h, `{"message":"m"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"OpenAI hatası: bad key"}`, rec.Body.String())
}

func TestChat_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"message":`},
		{"missing message", `{"user_name":"x"}`},
		{"empty message", `{"message":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &scriptedModel{}
			h := NewHandler(newTestOrchestrator(&memoryStore{}, model, nil))

			rec := postChat(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, model.requests)
		})
	}
}

func TestChat_Unavailable(t *testing.T) {
	h := NewHandler(newTestOrchestrator(&memoryStore{}, nil, nil))

	rec := postChat(t, h, `{"message":"m"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, unavailableReply, resp.Response)
}

func TestChat_StorageFailureIs500(t *testing.T) {
	store := &memoryStore{appendErr: errors.New("disk full")}
	h := NewHandler(newTestOrchestrator(store, &scriptedModel{}, nil))

	rec := postChat(t, h, `{"message":"m"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestChat_LongHistoryKeepsLastTurns(t *testing.T) {
	model := &scriptedModel{responses: []llm.Response{{Content: "ok"}}}
	store := &memoryStore{}
	h := NewHandler(newTestOrchestrator(store, model, nil))

	entries := make([]HistoryEntry, 250)
	for i := range entries {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		entries[i] = HistoryEntry{Role: role, Content: fmt.Sprintf("turn-%d", i)}
	}
	body, err := json.Marshal(ChatRequest{Message: "son", ConversationHistory: entries})
	require.NoError(t, err)

	rec := postChat(t, h, string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	msgs := model.requests[0].Messages
	require.Len(t, msgs, 12)
	assert.Equal(t, "turn-240", msgs[1].Content)
	assert.Equal(t, "turn-249", msgs[10].Content)
	assert.Len(t, store.all(), 2)
}

func TestChat_UnboundedFieldsAccepted(t *testing.T) {
	model := &scriptedModel{responses: []llm.Response{{Content: "ok"}}}
	h := NewHandler(newTestOrchestrator(&memoryStore{}, model, nil))

	interests := make([]string, 80)
	for i := range interests {
		interests[i] = strings.Repeat("x", 150)
	}
	body, err := json.Marshal(ChatRequest{
		Message:             strings.Repeat("ç", 8001),
		UserName:            strings.Repeat("A", 200),
		Interests:           interests,
		Emotion:             strings.Repeat("e", 64),
		ConversationHistory: []HistoryEntry{{Role: "tool", Content: "sonuç"}},
	})
	require.NoError(t, err)

	rec := postChat(t, h, string(body))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, model.requests, 1)
	assert.Equal(t, "tool", model.requests[0].Messages[1].Role)
}

func TestChat_OversizedBody(t *testing.T) {
	model := &scriptedModel{}
	h := NewHandler(newTestOrchestrator(&memoryStore{}, model, nil))

	body := `{"message":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`
	rec := postChat(t, h, body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, model.requests)
}
