package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/biafin/bia/internal/ingest"
	"github.com/biafin/bia/internal/llm"
	"github.com/biafin/bia/internal/profile"
	"github.com/biafin/bia/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// AppDeps holds the collaborators for the REST API.
type AppDeps struct {
	Store   *storage.Store
	Profile *profile.Manager
	Agent   Conversationalist
	Token   string // empty disables bearer auth (local use)
}

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Message string        `json:"message"`
	History []llm.Message `json:"history,omitempty"`
}

// ChatResponse is the POST /chat reply.
type ChatResponse struct {
	Reply   string          `json:"reply"`
	Profile profile.Profile `json:"profile"`
}

// ImportRequest is the POST /import body.
type ImportRequest struct {
	Kind string `json:"kind"`
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`
}

// NewAppHandler builds the chi router for the REST API.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		}

		r.Post("/chat", handleChat(deps))
		r.Get("/profile", handleGetProfile(deps))
		r.Get("/profile/summary", handleProfileSummary(deps))
		r.Get("/interactions", handleListInteractions(deps))
		r.Get("/interactions/{id}", handleGetInteraction(deps))
		r.Post("/import", handleImport(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleChat(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		reply, prof, err := deps.Agent.ProcessTurn(r.Context(), req.Message, req.History)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "processing turn: %v", err)
			return
		}

		writeJSON(w, ChatResponse{Reply: reply, Profile: prof})
	}
}

func handleGetProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Profile.Get()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading profile: %v", err)
			return
		}
		writeJSON(w, p)
	}
}

func handleProfileSummary(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Profile.Get()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading profile: %v", err)
			return
		}
		writeJSON(w, map[string]string{"summary": profile.Summary(p)})
	}
}

func handleListInteractions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > 200 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "limit must be an integer between 1 and 200")
				return
			}
			limit = n
		}

		interactions, err := deps.Store.GetRecentInteractions(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing interactions: %v", err)
			return
		}
		writeJSON(w, interactionViews(interactions))
	}
}

func handleGetInteraction(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		i, err := deps.Store.GetInteraction(id)
		if err == storage.ErrNotFound {
			httpError(w, http.StatusNotFound, "not_found_error", "interaction %s not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading interaction: %v", err)
			return
		}
		writeJSON(w, interactionView(i))
	}
}

func handleImport(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		payload := ingest.Payload{Kind: req.Kind, Path: req.Path, URL: req.URL, Text: req.Text}
		switch req.Kind {
		case "pdf":
			if req.Path == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "path is required for pdf imports")
				return
			}
		case "url":
			if req.URL == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "url is required for url imports")
				return
			}
		case "text":
			if req.Text == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "text is required for text imports")
				return
			}
		default:
			httpError(w, http.StatusBadRequest, "invalid_request_error", "kind must be one of pdf, url, text")
			return
		}

		job, err := ingest.NewJob(payload)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "building job: %v", err)
			return
		}
		if err := deps.Store.EnqueueJob(job); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "queueing job: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"job_id": job.ID})
	}
}

// InteractionView is the JSON rendering of an audit entry.
type InteractionView struct {
	ID          string          `json:"id"`
	CreatedAt   string          `json:"created_at"`
	UserMessage string          `json:"user_message"`
	Reply       string          `json:"reply"`
	Extracted   json.RawMessage `json:"extracted"`
}

func interactionView(i storage.Interaction) InteractionView {
	extracted := json.RawMessage(i.ExtractedJSON)
	if len(extracted) == 0 {
		extracted = json.RawMessage("{}")
	}
	return InteractionView{
		ID:          i.ID,
		CreatedAt:   i.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UserMessage: i.UserMessage,
		Reply:       i.Reply,
		Extracted:   extracted,
	}
}

func interactionViews(in []storage.Interaction) []InteractionView {
	out := make([]InteractionView, len(in))
	for i, x := range in {
		out[i] = interactionView(x)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
