package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/spinnata-waitlist/internal/infra/http/middleware"
	"github.com/xavierca1/spinnata-waitlist/internal/usecase"
)

const (
	maxLeadBodyBytes = 16 << 10

	msgSomethingWrong = "Something went wrong. Please try again."
)

// RateLimiter decides per client address whether a submission may proceed.
type RateLimiter interface {
	Allow(key string) bool
}


type LeadHandler struct {
	captureLead usecase.CaptureLeadUseCaseInterface
	rateLimiter RateLimiter
	logger      *zap.Logger
}


func NewLeadHandler(captureLead usecase.CaptureLeadUseCaseInterface, rateLimiter RateLimiter, logger *zap.Logger) *LeadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadHandler{
		captureLead: captureLead,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}


type CaptureLeadRequest struct {
	Email    string `json:"email"`
	Company  string `json:"company,omitempty"`
	Source   string `json:"source,omitempty"`
	Campaign string `json:"campaign,omitempty"`
}


type CaptureLeadResponse struct {
	OK    bool   `json:"ok,omitempty"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// CaptureLead handles POST /api/lead.
// Throttled and honeypot submissions get the same empty 204 so neither is detectable.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()


	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		middleware.RecordLeadOutcome(middleware.OutcomeRateLimited)
		w.WriteHeader(http.StatusNoContent)
		return
	}


	var req CaptureLeadRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxLeadBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Decode still fills the fields it could; a filled honeypot stays silent
			if usecase.IsHoneypotFilled(req.Company) {
				middleware.RecordLeadOutcome(middleware.OutcomeHoneypot)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			middleware.RecordLeadOutcome(middleware.OutcomeInvalid)
			writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{Error: usecase.ErrInvalidEmail.Message})
			return
		}

		h.logger.Error("❌ lead body could not be parsed", zap.String("ip", clientIP), zap.Error(err))
		middleware.RecordLeadOutcome(middleware.OutcomeError)
		writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{Error: msgSomethingWrong})
		return
	}


	output, err := h.captureLead.Execute(ctx, usecase.CaptureLeadInput{
		Email:     req.Email,
		Company:   req.Company,
		Source:    req.Source,
		Campaign:  req.Campaign,
		UserAgent: r.UserAgent(),
		ClientIP:  clientIP,
	})
	if err != nil {
		h.writeError(w, clientIP, err)
		return
	}

	if output.Status == usecase.StatusDropped {
		middleware.RecordLeadOutcome(middleware.OutcomeHoneypot)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	middleware.RecordLeadOutcome(middleware.OutcomeAccepted)
	writeJSON(w, http.StatusOK, CaptureLeadResponse{OK: true, ID: output.ID})
}

func (h *LeadHandler) writeError(w http.ResponseWriter, clientIP string, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == usecase.CodeDisposableEmail {
			middleware.RecordLeadOutcome(middleware.OutcomeDisposable)
		} else {
			middleware.RecordLeadOutcome(middleware.OutcomeInvalid)
		}
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{Error: domainErr.Message})
		return
	}

	h.logger.Error("❌ lead submission failed", zap.String("ip", clientIP), zap.Error(err))
	middleware.RecordLeadOutcome(middleware.OutcomeError)
	writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{Error: msgSomethingWrong})
}

// getClientIP trusts the first X-Forwarded-For hop, then X-Real-IP.
func getClientIP(r *http.Request) string {

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return usecase.UnknownClientIP
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
