package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rosterhq/workforce-api/internal/models"
	"github.com/rosterhq/workforce-api/internal/service"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
	"github.com/rosterhq/workforce-api/pkg/response"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Authenticate and receive an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}
