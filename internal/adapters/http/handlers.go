package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/application"
)

type Handler struct {
	service *application.Service
	ready   func(context.Context) error
	logger  *slog.Logger
}

// NewHandler wires the HTTP surface. ready backs /readyz; nil means always
// ready. A nil logger falls back to slog.Default.
func NewHandler(service *application.Service, ready func(context.Context) error, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default().With("service", serviceName)
	}
	return &Handler{
		service: service,
		ready:   ready,
		logger:  logger.With("module", "http", "layer", "adapter"),
	}
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		claims, err := h.service.ValidateToken(r.Context(), raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyClaims, claims)))
	})
}

func (h *Handler) readiness(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			logHTTPOperationError(r.Context(), "readiness", http.StatusServiceUnavailable, "NOT_READY", "dependency check failed", err)
			writeError(w, http.StatusServiceUnavailable, "NOT_READY", "dependency check failed")
			return
		}
	}
	writeMessage(w, http.StatusOK, "ready")
}

func actorFromRequest(r *http.Request) application.Actor {
	actor := application.Actor{
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		RequestID:      requestIDFromContext(r.Context()),
	}
	if claims, ok := claimsFromContext(r.Context()); ok {
		actor.SubjectID = claims.UserID
		actor.Role = claims.Role
	}
	return actor
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func parseIntDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func listQueryFromRequest(r *http.Request) application.ListQuery {
	q := r.URL.Query()
	return application.ListQuery{
		Page:   parseIntDefault(q.Get("page"), 1),
		Limit:  parseIntDefault(q.Get("limit"), 0),
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	logHTTPOperationError(ctx, operation, status, code, msg, err)
	writeError(w, status, code, msg)
}

func writeInvalidBody(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	logHTTPOperationError(ctx, operation, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body", err)
	writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
}
