package handlers

import (
	"github.com/gin-gonic/gin"

	"statgate/internal/domain/auth"
	"statgate/internal/infrastructure/http/v1/dto"
)

// AuthHandler provides token issuance endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Token handles POST /auth/token - exchange client credentials for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, expiresAt, err := h.service.IssueToken(req.ClientID, req.ClientSecret)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}
