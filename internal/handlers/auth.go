package handlers

import (
	"errors"
	"net/http"

	"Tracker/internal/auth"
	"Tracker/internal/dto"
	"Tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles register and login.
type AuthHandler struct {
	tokens  *auth.Manager
	userSvc *service.UserService
	log     zerolog.Logger
	prod    bool
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(tokens *auth.Manager, userSvc *service.UserService, log zerolog.Logger, prod bool) *AuthHandler {
	return &AuthHandler{tokens: tokens, userSvc: userSvc, log: log, prod: prod}
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}
		h.internalError(c, "registration failed", err)
		return
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		h.internalError(c, "registration failed", err)
		return
	}
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  dto.UserResponse{ID: user.ID.Hex(), Email: user.Email},
	})
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}
		h.internalError(c, "login failed", err)
		return
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		h.internalError(c, "login failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.UserResponse{ID: user.ID.Hex(), Email: user.Email},
	})
}

func (h *AuthHandler) internalError(c *gin.Context, msg string, err error) {
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	if h.prod {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
