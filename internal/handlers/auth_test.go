package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemchat/backend/internal/authflow"
	"gemchat/backend/internal/clock"
	"gemchat/backend/internal/handlers"
	"gemchat/backend/internal/models"
	"gemchat/backend/internal/storage"
	"gemchat/backend/pkg/auth"
)

type authEnv struct {
	router *gin.Engine
	blobs  *storage.MemoryStore
	clk    *clock.Fake
	jwtMgr *auth.JWTManager
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewFake()
	blobs := storage.NewMemoryStore()
	verifier, err := authflow.NewStaticVerifier(authflow.ReferenceCode)
	require.NoError(t, err)

	flows := authflow.NewManager(func() *authflow.Flow {
		return authflow.New(clk, authflow.NewSimulatedDispatcher(clk), verifier, blobs)
	})
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	authH := handlers.NewAuthHandler(flows, jwtMgr, nil)

	router := gin.New()
	router.POST("/auth/phone", authH.SubmitPhone)
	router.GET("/auth/flow/:id", authH.GetFlow)
	router.POST("/auth/otp", authH.SubmitOTP)
	router.POST("/auth/resend", authH.Resend)

	return &authEnv{router: router, blobs: blobs, clk: clk, jwtMgr: jwtMgr}
}

func (e *authEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *authEnv) startFlow(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/phone", `{"country":"44","phone":"7700900123"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(authflow.StepPhone), body["step"], "dispatch is still in flight")

	flowID := body["flow_id"].(string)
	e.clk.Advance(authflow.DispatchDelay)
	return flowID
}

func TestAuth_PhoneToOTPToToken(t *testing.T) {
	env := newAuthEnv(t)
	flowID := env.startFlow(t)

	rec := env.do(t, http.MethodGet, "/auth/flow/"+flowID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, string(authflow.StepOTP), state["step"])
	assert.Equal(t, float64(30), state["cooldown_seconds"])

	rec = env.do(t, http.MethodPost, "/auth/otp", `{"flow_id":"`+flowID+`","otp":"123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	claims, err := env.jwtMgr.Verify(result["token"])
	require.NoError(t, err)
	assert.Equal(t, "7700900123", claims.Subject)
	assert.Equal(t, "44", claims.Country)

	var authRec models.AuthRecord
	found, err := env.blobs.Load(context.Background(), storage.KeyAuth, &authRec)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, authRec.LoggedIn)

	// The completed flow is gone.
	rec = env.do(t, http.MethodGet, "/auth/flow/"+flowID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_BadPhoneRejected(t *testing.T) {
	env := newAuthEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/phone", `{"country":"","phone":"123"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_WrongOTPKeepsFlowAlive(t *testing.T) {
	env := newAuthEnv(t)
	flowID := env.startFlow(t)

	rec := env.do(t, http.MethodPost, "/auth/otp", `{"flow_id":"`+flowID+`","otp":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/auth/flow/"+flowID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, string(authflow.StepOTP), state["step"], "a wrong code keeps the OTP step")
}

func TestAuth_ResendHonorsCooldown(t *testing.T) {
	env := newAuthEnv(t)
	flowID := env.startFlow(t)

	rec := env.do(t, http.MethodPost, "/auth/resend", `{"flow_id":"`+flowID+`"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	env.clk.Advance(authflow.ResendCooldown)

	rec = env.do(t, http.MethodPost, "/auth/resend", `{"flow_id":"`+flowID+`"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestAuth_UnknownFlowIs404(t *testing.T) {
	env := newAuthEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/otp", `{"flow_id":"ghost","otp":"123456"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
