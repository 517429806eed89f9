package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lewisedginton/teambuilder_concierge/internal/concierge"
	"github.com/lewisedginton/teambuilder_concierge/internal/config"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

type handlers struct {
	orchestrator *concierge.Orchestrator
	log          logger.Logger
	version      string
	provider     string
}

type errorBody struct {
	Error   string             `json:"error"`
	Details []tools.FieldError `json:"details,omitempty"`
}

type toolResponse struct {
	Result tools.Result `json:"result"`
}

func (h *handlers) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":  config.ServiceName,
		"version":  h.version,
		"provider": h.provider,
		"tools":    h.orchestrator.Tools(),
	})
}

func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req concierge.ChatRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	writeJSON(w, http.StatusOK, h.orchestrator.Chat(r.Context(), req))
}

func (h *handlers) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": h.orchestrator.Tools()})
}

// invokeTool accepts the URL form (search-candidates) or the tool name.
func (h *handlers) invokeTool(w http.ResponseWriter, r *http.Request) {
	name := strings.ReplaceAll(chi.URLParam(r, "tool"), "-", "_")

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.bodyError(w, err)
		return
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		raw = []byte("{}")
	}

	result, err := h.orchestrator.InvokeTool(r.Context(), name, raw)
	var verr *tools.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, toolResponse{Result: result})
	case errors.Is(err, tools.ErrUnknownTool):
		writeError(w, http.StatusNotFound, "Unknown tool")
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid input for " + string(verr.Tool), Details: verr.Details})
	default:
		logger.FromContext(r.Context(), h.log).Error("Tool invocation failed",
			logger.ToolField(name), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Tool execution failed")
	}
}

func (h *handlers) draftInvite(w http.ResponseWriter, r *http.Request) {
	var req concierge.InviteRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SenderID) == "" || strings.TrimSpace(req.ReceiverID) == "" {
		writeError(w, http.StatusBadRequest, "senderId and receiverId are required")
		return
	}

	invite, err := h.orchestrator.DraftInvite(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, invite)
	case errors.Is(err, concierge.ErrSenderNotFound):
		writeError(w, http.StatusNotFound, "Sender not found")
	case errors.Is(err, concierge.ErrReceiverNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		logger.FromContext(r.Context(), h.log).Error("Invite drafting failed", logger.ErrorField(err))
		writeError(w, http.StatusServiceUnavailable, "AI service unavailable")
	}
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.bodyError(w, err)
		return false
	}
	return true
}

func (h *handlers) bodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid JSON body")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
