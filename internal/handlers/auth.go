package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"gemchat/backend/internal/authflow"
	"gemchat/backend/internal/handlers/dto"
	"gemchat/backend/internal/models"
	"gemchat/backend/pkg/auth"
)

type AuthHandler struct {
	flows      *authflow.Manager
	jwtManager *auth.JWTManager
	redis      *redis.Client
}

func NewAuthHandler(flows *authflow.Manager, jwtMgr *auth.JWTManager, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{flows: flows, jwtManager: jwtMgr, redis: rdb}
}

// SubmitPhone заводит поток входа и запускает отправку кода
func (h *AuthHandler) SubmitPhone(c *gin.Context) {
	var req dto.PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flowID, flow := h.flows.Create()
	if err := flow.SubmitPhone(req.Country, req.Phone); err != nil {
		h.flows.Remove(flowID)
		respondFlowError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, flowState(flowID, flow))
}

// GetFlow отдаёт текущее состояние потока: клиент опрашивает его,
// пока идёт имитированная отправка кода
func (h *AuthHandler) GetFlow(c *gin.Context) {
	flow, ok := h.flows.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "flow not found"})
		return
	}
	c.JSON(http.StatusOK, flowState(c.Param("id"), flow))
}

// SubmitOTP проверяет код; успех завершает поток и выдаёт JWT
func (h *AuthHandler) SubmitOTP(c *gin.Context) {
	var req dto.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow, ok := h.flows.Get(req.FlowID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "flow not found"})
		return
	}

	if err := flow.SubmitOTP(c.Request.Context(), req.OTP); err != nil {
		respondFlowError(c, err)
		return
	}

	phone, _ := flow.Phone()
	h.flows.Remove(req.FlowID)

	token, err := h.jwtManager.Generate(phone.Phone, phone.Country)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Resend повторяет отправку кода после паузы
func (h *AuthHandler) Resend(c *gin.Context) {
	var req dto.ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow, ok := h.flows.Get(req.FlowID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "flow not found"})
		return
	}

	if err := flow.Resend(); err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, flowState(req.FlowID, flow))
}

// Logout ставит токен в чёрный список в Redis до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if h.redis != nil {
		ttl := time.Until(exp)
		h.redis.Set(context.Background(), "blacklist:"+rawToken, 1, ttl)
	}

	c.Status(http.StatusOK)
}

func flowState(flowID string, flow *authflow.Flow) gin.H {
	return gin.H{
		"flow_id":          flowID,
		"step":             flow.Step(),
		"sending":          flow.Sending(),
		"cooldown_seconds": flow.Cooldown(),
	}
}

func respondFlowError(c *gin.Context, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, authflow.ErrCooldownActive):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, authflow.ErrWrongStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "auth flow failed"})
	}
}
