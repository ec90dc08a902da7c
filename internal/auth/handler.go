package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buchladen-backend/internal/shared/response"
	"buchladen-backend/pkg/jwt"
	"buchladen-backend/pkg/logger"
)

// Handler serves login and token introspection.
type Handler struct {
	jwtManager *jwt.Manager
}

func NewHandler(jwtManager *jwt.Manager) *Handler {
	return &Handler{jwtManager: jwtManager}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string   `json:"token"`
	Roles []string `json:"roles"`
}

// Login checks credentials against the fixed user list and issues a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, found := FindUser(req.Username)
	if !found || !user.CheckPassword(req.Password) {
		response.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	roleNames := RoleNames(user.Roles)
	token, err := h.jwtManager.GenerateToken(user.ID, user.Username, roleNames)
	if err != nil {
		logger.Error("failed to generate token", err)
		response.Error(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	logger.Info("user logged in", map[string]interface{}{"username": user.Username})
	c.JSON(http.StatusOK, loginResponse{Token: token, Roles: roleNames})
}

// Me returns the claims of the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	claims, exists := c.Get("claims")
	if !exists {
		response.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	c.JSON(http.StatusOK, claims)
}
