package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/spinnata-waitlist/internal/infra/ratelimit"
	"github.com/xavierca1/spinnata-waitlist/internal/usecase"
)

type MockCaptureLeadUseCase struct {
	mock.Mock
}

func (m *MockCaptureLeadUseCase) Execute(ctx context.Context, input usecase.CaptureLeadInput) (*usecase.CaptureLeadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CaptureLeadOutput), args.Error(1)
}

type allowAll struct{}

func (allowAll) Allow(string) bool { return true }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func postLead(h *LeadHandler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.CaptureLead(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) CaptureLeadResponse {
	t.Helper()
	var resp CaptureLeadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestCaptureLeadAccepted(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	uc.On("Execute", mock.Anything, usecase.CaptureLeadInput{
		Email:     "maria@example.com",
		Source:    "twitter",
		Campaign:  "launch",
		UserAgent: "Mozilla/5.0",
		ClientIP:  "203.0.113.7",
	}).Return(&usecase.CaptureLeadOutput{ID: "lead-1", Status: usecase.StatusAccepted}, nil)

	h := NewLeadHandler(uc, allowAll{}, nil)
	w := postLead(h, `{"email":"maria@example.com","source":"twitter","campaign":"launch"}`, map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
		"User-Agent":      "Mozilla/5.0",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.OK)
	assert.Equal(t, "lead-1", resp.ID)
	uc.AssertExpectations(t)
}

func TestCaptureLeadRateLimitedIsSilent(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	h := NewLeadHandler(uc, denyAll{}, nil)

	w := postLead(h, `{"email":"maria@example.com"}`, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestCaptureLeadHoneypotIsSilent(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	uc.On("Execute", mock.Anything, mock.Anything).Return(&usecase.CaptureLeadOutput{Status: usecase.StatusDropped}, nil)

	h := NewLeadHandler(uc, allowAll{}, nil)
	w := postLead(h, `{"email":"maria@example.com","company":"Acme"}`, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCaptureLeadDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		msg  string
	}{
		{name: "invalid email", err: usecase.ErrInvalidEmail, msg: "Invalid email address"},
		{name: "disposable domain", err: usecase.ErrDisposableEmail, msg: "Please use a valid email address"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := new(MockCaptureLeadUseCase)
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tc.err)

			h := NewLeadHandler(uc, allowAll{}, nil)
			w := postLead(h, `{"email":"whatever"}`, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, decodeResponse(t, w).Error)
		})
	}
}

func TestCaptureLeadTechnicalErrorIsGeneric(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, &usecase.TechnicalError{
		Code:    usecase.CodeDatabaseError,
		Message: "failed to upsert lead",
		Err:     errors.New("pq: password authentication failed"),
	})

	h := NewLeadHandler(uc, allowAll{}, nil)
	w := postLead(h, `{"email":"maria@example.com"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Something went wrong")
	assert.NotContains(t, body, "pq:")
}

func TestCaptureLeadWrongFieldTypeIsInvalid(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	h := NewLeadHandler(uc, allowAll{}, nil)

	w := postLead(h, `{"email":42}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email address", decodeResponse(t, w).Error)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestCaptureLeadWrongFieldTypeWithHoneypotIsSilent(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	h := NewLeadHandler(uc, allowAll{}, nil)

	w := postLead(h, `{"email":42,"company":"Acme"}`, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestCaptureLeadMalformedJSONIsServerError(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	h := NewLeadHandler(uc, allowAll{}, nil)

	w := postLead(h, `{"email":`, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Something went wrong. Please try again.", decodeResponse(t, w).Error)
}

func TestCaptureLeadNullFieldsAreAbsent(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.CaptureLeadInput) bool {
		return in.Source == "" && in.Campaign == "" && in.Email == "maria@example.com"
	})).Return(&usecase.CaptureLeadOutput{ID: "lead-1", Status: usecase.StatusAccepted}, nil)

	h := NewLeadHandler(uc, allowAll{}, nil)
	w := postLead(h, `{"email":"maria@example.com","source":null,"campaign":null}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestCaptureLeadOversizedBody(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	h := NewLeadHandler(uc, allowAll{}, nil)

	big := `{"email":"maria@example.com","source":"` + strings.Repeat("a", maxLeadBodyBytes) + `"}`
	w := postLead(h, big, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestCaptureLeadEleventhRequestDropped(t *testing.T) {
	uc := new(MockCaptureLeadUseCase)
	uc.On("Execute", mock.Anything, mock.Anything).Return(&usecase.CaptureLeadOutput{ID: "lead-1", Status: usecase.StatusAccepted}, nil)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewFixedWindow(10, time.Minute, ratelimit.WithClock(func() time.Time { return now }))
	h := NewLeadHandler(uc, limiter, nil)

	headers := map[string]string{"X-Real-IP": "198.51.100.9"}
	for i := 1; i <= 10; i++ {
		w := postLead(h, `{"email":"maria@example.com"}`, headers)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := postLead(h, `{"email":"maria@example.com"}`, headers)
	assert.Equal(t, http.StatusNoContent, w.Code)
	uc.AssertNumberOfCalls(t, "Execute", 10)

	// other clients keep their own quota
	w = postLead(h, `{"email":"maria@example.com"}`, map[string]string{"X-Real-IP": "198.51.100.10"})
	assert.Equal(t, http.StatusOK, w.Code)

	now = now.Add(61 * time.Second)
	w = postLead(h, `{"email":"maria@example.com"}`, headers)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "forwarded first hop", headers: map[string]string{"X-Forwarded-For": " 1.1.1.1 , 2.2.2.2"}, want: "1.1.1.1"},
		{name: "forwarded wins over real ip", headers: map[string]string{"X-Forwarded-For": "1.1.1.1", "X-Real-IP": "3.3.3.3"}, want: "1.1.1.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": " 3.3.3.3 "}, want: "3.3.3.3"},
		{name: "nothing", headers: nil, want: usecase.UnknownClientIP},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/lead", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, getClientIP(req))
		})
	}
}
