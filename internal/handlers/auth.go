package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/middleware"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/session"
	"go.uber.org/zap"
)

// HomePath is where a successful login sends the admin
const HomePath = "/home"

// SessionResponse describes the logged in admin
type SessionResponse struct {
	User      models.User `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Redirect  string      `json:"redirect,omitempty"`
}

// LogoutResponse confirms a logout
type LogoutResponse struct {
	Redirect string `json:"redirect"`
}

// AuthHandlers handles login, logout and session lookups
type AuthHandlers struct {
	sessions *session.Manager
	cookies  *session.CookieBinder
	logger   *logging.SafeLogger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(sessions *session.Manager, cookies *session.CookieBinder, logger *logging.SafeLogger) *AuthHandlers {
	if logger == nil {
		logger = logging.Logger
	}
	return &AuthHandlers{sessions: sessions, cookies: cookies, logger: logger}
}

// Login godoc
// @Summary Entrar
// @Description Autentica o administrador no backend e abre uma sessão vinculada a um cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credenciais"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse "Campos ausentes"
// @Failure 401 {object} ErrorResponse "Credenciais inválidas"
// @Failure 502 {object} ErrorResponse "Backend indisponível"
// @Router /auth/login [post]
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: models.MsgFillAllFields})
		return
	}

	s, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrMissingCredentials) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: models.MsgFillAllFields})
			return
		}
		status := http.StatusInternalServerError
		if apiErr, ok := models.AsAPIError(err); ok {
			status = backendStatus(apiErr)
		} else {
			h.logger.Error("login failed", zap.Error(err))
		}
		c.JSON(status, ErrorResponse{Error: models.LoginErrorMessage(err)})
		return
	}

	if err := h.cookies.Bind(c.Writer, c.Request, s.ID); err != nil {
		h.logger.Error("failed to bind session cookie", zap.Error(err))
		_ = h.sessions.Logout(c.Request.Context(), s.ID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: models.MsgLoginError})
		return
	}
	c.Set(middleware.SessionKey, s)

	c.JSON(http.StatusOK, SessionResponse{
		User:      s.User,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		Redirect:  HomePath,
	})
}

// Logout godoc
// @Summary Sair
// @Description Encerra a sessão atual e remove o cookie
// @Tags auth
// @Produce json
// @Success 200 {object} LogoutResponse
// @Router /auth/logout [post]
func (h *AuthHandlers) Logout(c *gin.Context) {
	if id, ok := h.cookies.SessionID(c.Request); ok {
		if err := h.sessions.Logout(c.Request.Context(), id); err != nil {
			h.logger.Warn("failed to close session", zap.Error(err))
		}
	}
	if err := h.cookies.Clear(c.Writer, c.Request); err != nil {
		h.logger.Warn("failed to clear session cookie", zap.Error(err))
	}
	c.JSON(http.StatusOK, LogoutResponse{Redirect: middleware.LoginPath})
}

// Session godoc
// @Summary Sessão atual
// @Description Retorna o administrador autenticado
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 401 {object} middleware.UnauthorizedResponse
// @Router /auth/session [get]
func (h *AuthHandlers) Session(c *gin.Context) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		middleware.AbortUnauthorized(c, h.cookies, models.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{User: s.User, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt})
}
