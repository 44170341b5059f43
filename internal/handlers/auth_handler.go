package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucClient "github.com/BruksfildServices01/barber-booking/internal/usecase/client"
)

type AuthHandler struct {
	login    *ucClient.Login
	register *ucClient.Register
	session  *ucClient.Session
	config   *config.Config
}

func NewAuthHandler(
	login *ucClient.Login,
	register *ucClient.Register,
	session *ucClient.Session,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		login:    login,
		register: register,
		session:  session,
		config:   cfg,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	WhatsApp string `json:"whatsapp" binding:"required"`
	Birthday string `json:"birthday"`
}

type LoginRequest struct {
	WhatsApp string `json:"whatsapp" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	user, err := h.register.Execute(c.Request.Context(), ucClient.RegisterInput{
		Name:     req.Name,
		WhatsApp: req.WhatsApp,
		Birthday: req.Birthday,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	user, err := h.login.Execute(c.Request.Context(), req.WhatsApp)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

// Me returns the persisted session user when it belongs to the caller.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := h.session.Current(c.Request.Context(), middleware.ClientID(c))
	if !ok {
		httperr.NotFound(c, "client_not_found", "Sessão não encontrada.")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout ends the caller's session only.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context(), middleware.ClientID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.JSON(status, gin.H{
		"user":  user,
		"local": user.IsLocal(),
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"whatsapp": user.WhatsApp,
		"exp":      now.Add(h.config.JWTTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
