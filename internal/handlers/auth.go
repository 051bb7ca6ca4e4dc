package handlers

import (
	"net/http"
	"strings"

	"inmobiliaria-backend/internal/auth"
	"inmobiliaria-backend/internal/config"
	"inmobiliaria-backend/internal/database"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves login and session inspection for back-office staff.
type AuthHandler struct {
	store *database.Store
	cfg   config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store *database.Store, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{store: store, cfg: cfg}
}

// Login verifies credentials and issues a JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email y contraseña son obligatorios"})
		return
	}

	usuario, err := h.store.GetUsuarioByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
		return
	}

	token, err := auth.IssueToken(h.cfg.JWTSecret, usuario.ID, usuario.Email, usuario.Rol, h.cfg.TokenTTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo emitir el token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"usuario": usuario,
	})
}

// Me returns the authenticated staff account
func (h *AuthHandler) Me(c *gin.Context) {
	usuario, err := h.store.GetUsuario(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sesión inválida"})
		return
	}
	c.JSON(http.StatusOK, usuario)
}
