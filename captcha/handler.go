package captcha

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/logger"
)

const (
	msgPassed = "验证通过"
	msgFailed = "验证失败"
)

// Handler exposes a Service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the challenge API and, when staticDir is set, the front-end
// files at the root.
func (h *Handler) Routes(staticDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/challenge/start", h.handleStart)
	mux.HandleFunc("POST /api/challenge/verify", h.handleVerify)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return logRequests(mux)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	rsp, err := h.svc.Start(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rsp)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Mark(errors.Wrap(err, "invalid json"), errors.ErrInvalidRequest))
		return
	}

	ok, err := h.svc.Verify(r.Context(), req.UUID, req.Selections)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rsp := VerifyResponse{Success: ok, Message: msgFailed}
	if ok {
		rsp.Message = msgPassed
	}
	writeJSON(w, http.StatusOK, rsp)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrExpired):
		return http.StatusGone
	case errors.Is(err, ErrNoCandidate):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Named("http").Errorw("request failed",
			logger.FieldPath, r.URL.Path,
			logger.FieldStatus, status,
			logger.FieldError, err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Named("http").Warnw("encode response", logger.FieldError, err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Named("http").Debugw("request",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldStatus, rec.status,
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	})
}
