package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dost-app/dost/internal/conversation"
	"github.com/dost-app/dost/internal/llm"
	"github.com/dost-app/dost/internal/metrics"
	"github.com/dost-app/dost/internal/search"
	"github.com/dost-app/dost/internal/tools"
)

var (
	// ErrModelUnavailable is returned when no language model is configured.
	ErrModelUnavailable = errors.New("language model is not configured")
	// ErrStorage wraps conversation store failures.
	ErrStorage = errors.New("conversation storage failure")
)

const (
	fallbackAck = "Tamam, hemen hallediyorum!"
	apologyFmt  = "Üzgünüm, \"%s\" hakkında güncel bir bilgi bulamadım."
)

// Settings tune the model calls and prompt personalization.
type Settings struct {
	MaxTokens    int
	Temperature  float64
	HistoryLimit int
	DefaultName  string
	Location     *time.Location
}

// Deps are the collaborators of an Orchestrator. Search may be nil, in which
// case every web_search request ends in the apology reply.
type Deps struct {
	Store    conversation.Store
	Model    llm.ChatModel
	Search   search.Searcher
	Registry *tools.Registry
	Clock    func() time.Time
}

// Orchestrator runs one model/tool round per chat request.
type Orchestrator struct {
	store    conversation.Store
	model    llm.ChatModel
	search   search.Searcher
	registry *tools.Registry
	clock    func() time.Time
	settings Settings
}

func NewOrchestrator(deps Deps, settings Settings) *Orchestrator {
	if deps.Registry == nil {
		deps.Registry = tools.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.HistoryLimit <= 0 {
		settings.HistoryLimit = 10
	}
	return &Orchestrator{
		store:    deps.Store,
		model:    deps.Model,
		search:   deps.Search,
		registry: deps.Registry,
		clock:    deps.Clock,
		settings: settings,
	}
}

// toolError marks a failure to dispatch a tool requested by the model.
type toolError struct{ err error }

func (e *toolError) Error() string { return e.err.Error() }
func (e *toolError) Unwrap() error { return e.err }

// Handle runs the full request cycle: history, user turn, model, optional
// tool, assistant turn. Model and tool failures become the reply text; only
// an unavailable model and storage failures are returned as errors.
func (o *Orchestrator) Handle(ctx context.Context, in Input) (*Reply, error) {
	if o.model == nil {
		metrics.ChatRequestsTotal.WithLabelValues("unavailable").Inc()
		return nil, ErrModelUnavailable
	}

	if strings.TrimSpace(in.Name) == "" {
		in.Name = o.settings.DefaultName
	}

	history, err := o.history(ctx, in.History)
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("%w: loading history: %w", ErrStorage, err)
	}

	if _, err := o.store.Append(ctx, conversation.RoleUser, in.Message); err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("%w: appending user turn: %w", ErrStorage, err)
	}

	messages := o.buildMessages(in, history)

	reply, outcome, err := o.converse(ctx, messages)
	if err != nil {
		var te *toolError
		if errors.As(err, &te) {
			slog.Warn("tool dispatch failed", "error", err)
			metrics.ChatRequestsTotal.WithLabelValues("tool_error").Inc()
			return &Reply{Text: "Araç çağrısı geçersiz: " + err.Error()}, nil
		}
		slog.Error("model call failed", "error", err)
		metrics.ChatRequestsTotal.WithLabelValues("model_error").Inc()
		return &Reply{Text: "OpenAI hatası: " + err.Error()}, nil
	}

	if _, err := o.store.Append(ctx, conversation.RoleAssistant, reply.Text); err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("%w: appending assistant turn: %w", ErrStorage, err)
	}

	metrics.ChatRequestsTotal.WithLabelValues(outcome).Inc()
	return reply, nil
}

// history returns the last HistoryLimit client turns when the client sent
// any, and the stored turns otherwise.
func (o *Orchestrator) history(ctx context.Context, client []llm.Message) ([]llm.Message, error) {
	limit := o.settings.HistoryLimit
	if len(client) > 0 {
		if len(client) > limit {
			client = client[len(client)-limit:]
		}
		return client, nil
	}

	turns, err := o.store.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		out = append(out, llm.Message{Role: string(t.Role), Content: t.Content})
	}
	return out, nil
}

func (o *Orchestrator) buildMessages(in Input, history []llm.Message) []llm.Message {
	prompt := SystemPrompt(Persona{
		Name:      in.Name,
		Interests: in.Interests,
		Emotion:   in.Emotion,
		Now:       o.clock().In(o.settings.Location),
	})

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: prompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: in.Message})
	return messages
}

func (o *Orchestrator) converse(ctx context.Context, messages []llm.Message) (*Reply, string, error) {
	first, err := o.complete(ctx, "first", llm.Request{
		Messages:    messages,
		Tools:       o.registry.List(),
		MaxTokens:   o.settings.MaxTokens,
		Temperature: o.settings.Temperature,
	})
	if err != nil {
		return nil, "", err
	}

	if len(first.ToolCalls) == 0 {
		return &Reply{Text: first.Content}, "reply", nil
	}

	call := first.ToolCalls[0]
	if len(first.ToolCalls) > 1 {
		slog.Warn("model requested several tools, dispatching the first", "count", len(first.ToolCalls), "tool", call.Name)
	}

	label := call.Name
	if _, ok := o.registry.Lookup(call.Name); !ok {
		label = "unknown"
	}

	inv, err := tools.ParseInvocation(call.Name, call.Arguments)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(label, "invalid").Inc()
		return nil, "", &toolError{err: err}
	}
	if err := o.registry.Validate(inv); err != nil {
		metrics.ToolCallsTotal.WithLabelValues(label, "invalid").Inc()
		return nil, "", &toolError{err: err}
	}
	if issues := o.registry.Conformance(inv); len(issues) > 0 {
		slog.Warn("tool arguments do not match schema", "tool", inv.Name, "issues", issues)
	}

	if inv.Name == tools.WebSearch {
		return o.runSearch(ctx, messages, first, call, inv)
	}

	metrics.ToolCallsTotal.WithLabelValues(inv.Name, "client").Inc()
	text := first.Content
	if strings.TrimSpace(text) == "" {
		text = fallbackAck
	}
	return &Reply{Text: text, FunctionCall: &inv}, "client_tool", nil
}

func (o *Orchestrator) runSearch(ctx context.Context, messages []llm.Message, first llm.Response, call llm.ToolCall, inv tools.Invocation) (*Reply, string, error) {
	query := stringArg(inv.Arguments, "query")
	count := intArg(inv.Arguments, "count", search.DefaultCount)
	apology := &Reply{Text: fmt.Sprintf(apologyFmt, query)}

	if o.search == nil {
		metrics.ToolCallsTotal.WithLabelValues(inv.Name, "unconfigured").Inc()
		return apology, "search_empty", nil
	}

	results, err := o.search.Search(ctx, query, count)
	if err != nil {
		slog.Warn("web search failed", "query", query, "error", err)
		metrics.ToolCallsTotal.WithLabelValues(inv.Name, "error").Inc()
		return apology, "search_empty", nil
	}
	metrics.SearchResults.Observe(float64(len(results)))
	if len(results) == 0 {
		metrics.ToolCallsTotal.WithLabelValues(inv.Name, "empty").Inc()
		return apology, "search_empty", nil
	}
	metrics.ToolCallsTotal.WithLabelValues(inv.Name, "ok").Inc()

	// Only the dispatched call is echoed back so every tool_call_id in the
	// assistant message has a matching tool message.
	followUp := slices.Clone(messages)
	followUp = append(followUp,
		llm.Message{Role: llm.RoleAssistant, Content: first.Content, ToolCalls: []llm.ToolCall{call}},
		llm.Message{Role: llm.RoleTool, Content: FormatResults(query, results), ToolCallID: call.ID},
	)

	summary, err := o.complete(ctx, "summary", llm.Request{
		Messages:    followUp,
		MaxTokens:   o.settings.MaxTokens,
		Temperature: o.settings.Temperature,
	})
	if err != nil {
		return nil, "", err
	}
	return &Reply{Text: summary.Content}, "search", nil
}

func (o *Orchestrator) complete(ctx context.Context, round string, req llm.Request) (llm.Response, error) {
	start := time.Now()
	resp, err := o.model.Complete(ctx, req)
	metrics.ModelCallDuration.WithLabelValues(round).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ModelCallsTotal.WithLabelValues(round, status).Inc()

	slog.Debug("model call", "round", round, "messages", len(req.Messages), "tool_calls", len(resp.ToolCalls), "duration", time.Since(start), "error", err)
	return resp, err
}

// FormatResults renders search results as the tool message handed to the
// model for summarization.
func FormatResults(query string, results []search.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\"%s\" için arama sonuçları:\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "   %s\n", r.URL)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
