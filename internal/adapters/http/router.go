package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"sceneforge/internal/application"
	"sceneforge/internal/application/commands"
	"sceneforge/internal/ports"
)

type Handler struct {
	loader ports.SceneLoader
	log    logrus.FieldLogger
}

type serializeRequest struct {
	URI    string `json:"uri"`
	Target string `json:"target"`
}

// NewRouter exposes scene loading, conflict reports and serialization as a
// read-only JSON API. Nothing is ever written through it.
func NewRouter(loader ports.SceneLoader, log logrus.FieldLogger) http.Handler {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	h := &Handler{loader: loader, log: log}
	r := chi.NewRouter()

	r.Route("/api", func(api chi.Router) {
		api.Use(h.logRequests)
		api.Get("/scene", h.handleAPIScene)
		api.Get("/scene/conflicts", h.handleAPIConflicts)
		api.Post("/scene/serialize", h.handleAPISerialize)
	})

	return r
}

func (h *Handler) handleAPIScene(w http.ResponseWriter, r *http.Request) {
	uri := strings.TrimSpace(r.URL.Query().Get("uri"))
	if uri == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing uri parameter"})
		return
	}
	scene, err := commands.NewLoadSceneCommand(h.loader, uri).Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, application.ViewOf(scene))
}

func (h *Handler) handleAPIConflicts(w http.ResponseWriter, r *http.Request) {
	uri := strings.TrimSpace(r.URL.Query().Get("uri"))
	if uri == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing uri parameter"})
		return
	}
	scene, err := commands.NewLoadSceneCommand(h.loader, uri).Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	report, err := commands.NewConflictsCommand(scene).Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleAPISerialize(w http.ResponseWriter, r *http.Request) {
	var req serializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	if strings.TrimSpace(req.URI) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing uri"})
		return
	}
	scene, err := commands.NewLoadSceneCommand(h.loader, req.URI).Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := commands.NewSaveSceneCommand(nil, scene, req.Target).Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", r.URL.Path).Warn("request failed")
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func statusFor(err error) int {
	var valErr *application.ValidationError
	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrFetch):
		return http.StatusBadGateway
	case errors.Is(err, application.ErrParse),
		errors.Is(err, application.ErrInvalidDefinition),
		errors.Is(err, application.ErrInheritanceCycle):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("api request")
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
