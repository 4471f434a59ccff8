package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smart-campus-api/internal/application/session"
	"github.com/smart-campus-api/internal/application/verification"
	"github.com/smart-campus-api/internal/domain"
	"github.com/smart-campus-api/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockIssuer struct{ mock.Mock }

func (m *mockIssuer) IssueCode(ctx context.Context, email string) (*verification.IssueResult, error) {
	args := m.Called(ctx, email)
	res, _ := args.Get(0).(*verification.IssueResult)
	return res, args.Error(1)
}

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Login(ctx context.Context, req domain.LoginRequest) (*session.LoginResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*session.LoginResult)
	return res, args.Error(1)
}

type stubCounter struct {
	n   int64
	err error
}

func (s stubCounter) Count(context.Context) (int64, error) { return s.n, s.err }

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body)))
	return rr
}

// --- verification ---

func TestSendEmailCode_Success(t *testing.T) {
	svc := &mockIssuer{}
	svc.On("IssueCode", mock.Anything, "s@u.edu").
		Return(&verification.IssueResult{Email: "s@u.edu", ExpiresIn: 600, MailDelivered: true}, nil)

	rr := post(NewVerificationHandler(svc).SendEmailCode, `{"email":"s@u.edu"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"email":"s@u.edu","expiresIn":600,"mailDelivered":true}`, rr.Body.String())
}

func TestSendEmailCode_MailFailureStillOK(t *testing.T) {
	svc := &mockIssuer{}
	svc.On("IssueCode", mock.Anything, "s@u.edu").Return(&verification.IssueResult{
		Email: "s@u.edu", ExpiresIn: 600, MailDelivered: false, Warning: "mail delivery failed",
	}, nil)

	rr := post(NewVerificationHandler(svc).SendEmailCode, `{"email":"s@u.edu"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"mailDelivered":false`)
	assert.Contains(t, rr.Body.String(), `"warning"`)
}

func TestSendEmailCode_Errors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   domain.Kind
	}{
		{domain.ErrInvalidEmail, http.StatusBadRequest, domain.KindInvalidEmail},
		{domain.ErrAlreadyRegistered, http.StatusBadRequest, domain.KindAlreadyRegistered},
		{&domain.RateLimitError{Scope: "verification code", Remaining: 42}, http.StatusTooManyRequests, domain.KindRateLimited},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			svc := &mockIssuer{}
			svc.On("IssueCode", mock.Anything, mock.Anything).Return(nil, tc.err)

			rr := post(NewVerificationHandler(svc).SendEmailCode, `{"email":"x"}`)

			assert.Equal(t, tc.status, rr.Code)
			env := decodeError(t, rr)
			assert.Equal(t, tc.kind, env.Kind)
			if tc.kind == domain.KindRateLimited {
				assert.Equal(t, 42, env.RemainingSeconds)
				assert.Equal(t, "42", rr.Header().Get("Retry-After"))
			}
		})
	}
}

func TestSendEmailCode_BadBody(t *testing.T) {
	rr := post(NewVerificationHandler(&mockIssuer{}).SendEmailCode, `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- login ---

func TestLogin_MissingFields(t *testing.T) {
	rr := post(NewSessionHandler(&mockSessionSvc{}).Login, `{"username":"stud_01"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_Success(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Login", mock.Anything, domain.LoginRequest{Username: "stud_01", Password: "abc123"}).
		Return(&session.LoginResult{Token: "tok", User: domain.UserView{ID: "u1", Username: "stud_01"}}, nil)

	rr := post(NewSessionHandler(svc).Login, `{"username":"stud_01","password":"abc123"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"token":"tok"`)
}

func TestLogin_StatusMapping(t *testing.T) {
	for err, status := range map[error]int{
		domain.ErrUnauthorized: http.StatusUnauthorized,
		domain.ErrForbidden:    http.StatusForbidden,
	} {
		svc := &mockSessionSvc{}
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, err)
		rr := post(NewSessionHandler(svc).Login, `{"username":"stud_01","password":"abc123"}`)
		assert.Equal(t, status, rr.Code)
	}
}

// --- health ---

func TestHealth_ReportsCountAndMail(t *testing.T) {
	at := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	h := NewHealthHandler(stubCounter{n: 7}, true, clock.NewManual(at))

	rr := httptest.NewRecorder()
	h.Test(rr, httptest.NewRequest(http.MethodGet, "/v1/test", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"ok","timestamp":"2025-09-01T08:00:00Z","data":{"users_count":7,"mail_service":"available"}}`, rr.Body.String())
}

func TestHealth_Degraded(t *testing.T) {
	h := NewHealthHandler(stubCounter{err: assert.AnError}, false, nil)

	rr := httptest.NewRecorder()
	h.Test(rr, httptest.NewRequest(http.MethodGet, "/v1/test", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"message":"degraded"`)
	assert.Contains(t, rr.Body.String(), `"users_count":null`)
	assert.Contains(t, rr.Body.String(), `"mail_service":"unavailable"`)
}
