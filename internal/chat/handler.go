package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dost-app/dost/internal/api"
)

const unavailableReply = "OpenAI bağlantısı kurulamadı. Lütfen daha sonra tekrar deneyin."

// maxBodyBytes bounds the request body; history length itself is not limited.
const maxBodyBytes = 4 << 20

type Handler struct {
	orch     *Orchestrator
	validate *validator.Validate
}

func NewHandler(orch *Orchestrator) *Handler {
	return &Handler{
		orch:     orch,
		validate: validator.New(),
	}
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.HandleError(w, api.ErrRequestTooLarge)
			return
		}
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	// A client disconnect must not abort a turn that is already persisted.
	ctx := context.WithoutCancel(r.Context())

	reply, err := h.orch.Handle(ctx, req.ToInput())
	switch {
	case errors.Is(err, ErrModelUnavailable):
		api.WriteJSON(w, http.StatusServiceUnavailable, ChatResponse{Response: unavailableReply})
		return
	case err != nil:
		slog.Error("handling chat request", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.WriteJSON(w, http.StatusOK, toResponse(reply))
}
