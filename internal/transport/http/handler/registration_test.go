package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/credinews/credinews-api/internal/application/otp"
	"github.com/credinews/credinews-api/internal/application/registration"
	"github.com/credinews/credinews-api/internal/domain"
	"github.com/credinews/credinews-api/internal/infrastructure/mail"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockRegSvc struct{ mock.Mock }

func (m *mockRegSvc) Register(ctx context.Context, req domain.RegisterRequest) (*registration.RegisterResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*registration.RegisterResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegSvc) Confirm(ctx context.Context, email, code string) (otp.VerifyResult, *domain.User, error) {
	args := m.Called(ctx, email, code)
	u, _ := args.Get(1).(*domain.User)
	return args.Get(0).(otp.VerifyResult), u, args.Error(2)
}

func (m *mockRegSvc) Resend(ctx context.Context, email string) (*mail.Delivery, error) {
	args := m.Called(ctx, email)
	if d, _ := args.Get(0).(*mail.Delivery); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegSvc) Cancel(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// --- helpers ---

// actionReq builds a POST /v1/registration/{action} request with the chi URL
// param injected.
func actionReq(action string, body []byte) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/v1/registration/"+action, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("action", action)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- tests ---

func TestRegistrationAction_Unknown(t *testing.T) {
	h := NewRegistrationHandler(&mockRegSvc{})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("frobnicate", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_InvalidBody(t *testing.T) {
	h := NewRegistrationHandler(&mockRegSvc{})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("register", []byte("not-json")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_HappyPath(t *testing.T) {
	svc := &mockRegSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(&registration.RegisterResult{
		UserID: "u1", Email: "jane@example.com",
		Delivery: mail.Delivery{Sent: true, Message: "verification code sent"},
	}, nil)
	h := NewRegistrationHandler(svc)

	body, _ := json.Marshal(domain.RegisterRequest{
		FullName: "Jane Doe", Email: "jane@example.com",
		Password: "Str0ng!pass", ConfirmPassword: "Str0ng!pass", AcceptTerms: true,
	})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("register", body))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp registration.RegisterResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "u1", resp.UserID)
	svc.AssertExpectations(t)
}

func TestRegister_Conflict(t *testing.T) {
	svc := &mockRegSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrConflict)
	h := NewRegistrationHandler(svc)

	body, _ := json.Marshal(domain.RegisterRequest{Email: "jane@example.com"})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("register", body))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestConfirm_Success(t *testing.T) {
	svc := &mockRegSvc{}
	svc.On("Confirm", mock.Anything, "jane@example.com", "123456").Return(
		otp.VerifyResult{OK: true, Message: "verification successful"},
		&domain.User{UserID: "u1", Status: domain.StatusActive},
		nil,
	)
	h := NewRegistrationHandler(svc)

	body, _ := json.Marshal(confirmRequest{Email: "jane@example.com", Code: "123456"})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("confirm", body))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp VerifyEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.User)
	assert.Equal(t, domain.StatusActive, resp.User.Status)
	svc.AssertExpectations(t)
}

func TestConfirm_WrongCode_IsUnprocessableNotError(t *testing.T) {
	svc := &mockRegSvc{}
	svc.On("Confirm", mock.Anything, "jane@example.com", "000000").Return(
		otp.VerifyResult{Message: "incorrect code, 2 attempts remaining", Remaining: 2},
		nil, nil,
	)
	h := NewRegistrationHandler(svc)

	body, _ := json.Marshal(confirmRequest{Email: "jane@example.com", Code: "000000"})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("confirm", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var resp VerifyEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, 2, resp.RemainingAttempts)
	svc.AssertExpectations(t)
}

func TestConfirm_NoFlow_IsNotFound(t *testing.T) {
	svc := &mockRegSvc{}
	svc.On("Confirm", mock.Anything, "jane@example.com", "123456").Return(
		otp.VerifyResult{}, nil, domain.ErrNotFound,
	)
	h := NewRegistrationHandler(svc)

	body, _ := json.Marshal(confirmRequest{Email: "jane@example.com", Code: "123456"})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("confirm", body))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResend_MissingEmail(t *testing.T) {
	h := NewRegistrationHandler(&mockRegSvc{})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("resend", []byte(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResend_Cooldown_IsForbidden(t *testing.T) {
	svc := &mockRegSvc{}
	svc.On("Resend", mock.Anything, "jane@example.com").Return(nil, domain.ErrForbidden)
	h := NewRegistrationHandler(svc)

	body, _ := json.Marshal(emailRequest{Email: "jane@example.com"})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("resend", body))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCancel_HappyPath(t *testing.T) {
	svc := &mockRegSvc{}
	svc.On("Cancel", mock.Anything, "jane@example.com").Return(nil)
	h := NewRegistrationHandler(svc)

	body, _ := json.Marshal(emailRequest{Email: "jane@example.com"})
	rr := httptest.NewRecorder()
	h.Action(rr, actionReq("cancel", body))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
