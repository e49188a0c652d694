package assistant

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	// ServiceName appears in the health probe payload.
	ServiceName = "clearspendly-assistant"

	// ServiceVersion appears in the health probe payload.
	ServiceVersion = "1.0.0"
)

// NewRouter creates the chi router with the full middleware stack and routes.
func NewRouter(svc *Service) *chi.Mux {
	cfg := svc.config
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(recoveryMiddleware(cfg.Logger))
	r.Use(loggingMiddleware(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(timeoutMiddleware(cfg.RequestTimeout))
	r.Use(bodySizeLimitMiddleware(cfg.MaxRequestBodySize))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", newHealthHandler())
	r.Post("/chat", newChatHandler(svc, cfg.Logger))

	return r
}

// newHealthHandler returns a handler for health probe requests.
func newHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: ServiceName,
			Version: ServiceVersion,
		})
	}
}

// newChatHandler returns a handler for POST /chat requests.
func newChatHandler(svc *Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatHTTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body", ErrCodeValidation)
			return
		}

		turn := buildTurn(req)

		reply, err := svc.Resolve(r.Context(), turn)
		if err != nil {
			if errors.Is(err, ErrEmptyMessage) {
				respondError(w, http.StatusBadRequest, "Message cannot be empty", ErrCodeValidation)
				return
			}
			logger.Error("failed to resolve turn", slog.String("error", err.Error()))
			respondError(w, http.StatusInternalServerError, "An error occurred while processing your message", ErrCodeInternal)
			return
		}

		conversationID := req.ConversationID
		if conversationID == "" {
			conversationID = NewConversationID()
		}

		respondJSON(w, http.StatusOK, buildChatResponse(conversationID, reply))
	}
}

func buildTurn(req ChatHTTPRequest) ConversationTurn {
	turn := ConversationTurn{Message: req.Message}
	if req.Context == nil {
		return turn
	}
	turn.TenantID = req.Context.TenantID
	turn.CallerFilters = req.Context.Filters
	if lc := req.Context.LastContext; lc != nil && len(lc.RelevantReceipts) > 0 {
		prior := NewResultSet(lc.RelevantReceipts, SearchType(lc.SearchType))
		turn.PriorResults = &prior
	}
	return turn
}

func buildChatResponse(conversationID string, reply Reply) ChatHTTPResponse {
	var searchResults *string
	if len(reply.ResultSet.Rows) > 0 {
		text := reply.Text
		searchResults = &text
	}
	rows := reply.ResultSet.Rows
	if rows == nil {
		rows = []RecordRow{}
	}
	return ChatHTTPResponse{
		Message: AssistantMessage{
			ID:        NewMessageID(),
			Role:      "assistant",
			Content:   reply.Text,
			Timestamp: time.Now().UTC(),
		},
		ConversationID: conversationID,
		Context: ResponseContext{
			SearchResults:    searchResults,
			RelevantReceipts: rows,
			SearchType:       string(reply.ResultSet.SearchType),
		},
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, map[string]string{"error": message, "code": code})
}
