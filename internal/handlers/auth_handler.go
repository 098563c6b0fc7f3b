package handlers

import (
	"net/http"
	"time"

	"go-bridge/internal/config"
	"go-bridge/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues admin tokens for the administrative surface.
type AuthHandler struct {
	logger *logrus.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// LoginRequest is the admin credential payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the admin credential against the configured bcrypt hash
// and issues a short-lived admin JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "username and password are required"})
		return
	}

	cfg := config.AppConfig.Admin
	if req.Username != cfg.Username ||
		bcrypt.CompareHashAndPassword([]byte(cfg.PasswordBcrypt), []byte(req.Password)) != nil {
		h.logger.WithField("username", req.Username).Warn("admin login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
		return
	}

	now := time.Now()
	claims := middleware.AdminClaims{
		Username: req.Username,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(12 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "bridge-endpoint",
			Subject:   req.Username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to sign token"})
		return
	}

	h.logger.WithField("username", req.Username).Info("admin login succeeded")
	c.JSON(http.StatusOK, gin.H{"success": true, "token": signed, "expires_at": claims.ExpiresAt.Time})
}
