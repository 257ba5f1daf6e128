package vetting

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const maxRequestBody = 64 << 10

type checkRequestBody struct {
	URL     any `json:"url"`
	Context any `json:"context"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler exposes the checker over HTTP.
type Handler struct {
	checker *Checker
	log     *logrus.Entry
}

func NewHandler(checker *Checker) *Handler {
	return &Handler{
		checker: checker,
		log:     logrus.WithField("component", "http"),
	}
}

// Routes returns the service router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/check", h.Ping)
	r.Post("/api/check", h.Check)

	return r
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var body checkRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	rawURL, ok := body.URL.(string)
	if !ok || rawURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid URL provided"})
		return
	}

	req := CheckRequest{URL: rawURL}
	switch c := body.Context.(type) {
	case nil:
	case string:
		req.Context = c
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid context provided"})
		return
	}

	resp, err := h.checker.Check(r.Context(), req)
	if err != nil {
		h.writeCheckError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeCheckError maps pipeline errors to responses. Internal details are
// logged, never returned.
func (h *Handler) writeCheckError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *InputError
	var resolveErr *ResolutionError

	log := h.log.WithField("request_id", middleware.GetReqID(r.Context()))

	switch {
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: inputErr.Msg})
	case errors.As(err, &resolveErr):
		log.WithError(err).Warn("link target could not be resolved")
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "Could not resolve link target"})
	default:
		log.WithError(err).Error("check failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
