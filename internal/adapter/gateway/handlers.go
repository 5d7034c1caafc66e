package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
)

// chatRequest is the POST /agents/{id}/chat payload.
type chatRequest struct {
	UserID  string         `json:"user_id"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// errorEnvelope is the failure response shape shared by all endpoints.
type errorEnvelope struct {
	Success   bool      `json:"success"`
	AgentID   string    `json:"agent_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("id")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, agentID, "",
			"Invalid request body", domain.CodeInvalidInput)
		return
	}

	s.metrics.ChatRequests.Add(1)
	result, err := s.router.Chat(r.Context(), agentID, req.UserID, req.Message, req.Context)
	if err != nil {
		s.metrics.ChatErrors.Add(1)
		s.writeError(w, err, agentID, req)
		return
	}

	s.metrics.TokensTotal.Add(int64(result.TokensUsed))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agents": s.router.Agents().List(),
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("id")
	userID := r.PathValue("user")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeFailure(w, http.StatusBadRequest, agentID, userID,
				"Invalid limit parameter", domain.CodeInvalidInput)
			return
		}
		limit = n
	}

	turns, err := s.router.History(r.Context(), agentID, userID, limit)
	if err != nil {
		s.writeError(w, err, agentID, chatRequest{UserID: userID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id": agentID,
		"user_id":  userID,
		"turns":    turns,
		"count":    len(turns),
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("id")
	userID := r.PathValue("user")

	if err := s.router.ClearHistory(r.Context(), agentID, userID); err != nil {
		s.writeError(w, err, agentID, chatRequest{UserID: userID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"agent_id": agentID,
		"user_id":  userID,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if !s.router.Ready() {
		status = "starting"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"agents": s.router.Agents().IDs(),
	})
}

// writeError maps a domain error to an HTTP status and failure envelope.
func (s *Server) writeError(w http.ResponseWriter, err error, agentID string, req chatRequest) {
	code := domain.ErrorCodeOf(err)
	status := statusForCode(code)
	writeFailure(w, status, agentID, req.UserID, publicMessage(code, err, agentID, req.Message), code)
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeAgentNotFound, domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeNotReady:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage renders the client-facing error string. Internal details
// such as provider responses stay in the logs.
func publicMessage(code domain.ErrorCode, err error, agentID, message string) string {
	switch code {
	case domain.CodeAgentNotFound:
		return fmt.Sprintf("Agent %s not found", agentID)
	case domain.CodeInvalidInput:
		if strings.TrimSpace(message) == "" {
			return "Message cannot be empty"
		}
		var de *domain.DomainError
		if errors.As(err, &de) && de.Detail != "" {
			return de.Detail
		}
		return "Invalid request"
	case domain.CodeNotReady:
		return "System is still initializing"
	case domain.CodeProviderTimeout:
		return "The model did not respond in time"
	case domain.CodeProviderRateLimit, domain.CodeProviderOverload:
		return "The model is temporarily unavailable"
	default:
		return "Internal error"
	}
}

func writeFailure(w http.ResponseWriter, status int, agentID, userID, msg string, code domain.ErrorCode) {
	writeJSON(w, status, errorEnvelope{
		Success:   false,
		AgentID:   agentID,
		UserID:    userID,
		Error:     msg,
		Code:      string(code),
		Timestamp: time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
