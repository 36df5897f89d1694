package handler

import (
	"errors"
	"net/http"

	"github.com/bookshelf/backend/internal/model"
	"github.com/bookshelf/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const msgServerError = "Server error"

type AuthHandler struct {
	svc *service.AuthService
	log logrus.FieldLogger
}

func NewAuthHandler(svc *service.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.AuthRequest true "Email and password"
// @Success 200 {object} model.TokenResponse
// @Failure 400 {object} model.MessageResponse
// @Failure 500 {string} string "Server error"
// @Router /api/users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Msg: "Invalid request body"})
		return
	}

	token, err := h.svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(c, "register", err)
		return
	}

	c.JSON(http.StatusOK, model.TokenResponse{Token: token})
}

// Login godoc
// @Summary Login
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.AuthRequest true "Email and password"
// @Success 200 {object} model.TokenResponse
// @Failure 400 {object} model.MessageResponse
// @Failure 500 {string} string "Server error"
// @Router /api/users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Msg: "Invalid request body"})
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, model.TokenResponse{Token: token})
}

// Me godoc
// @Summary Get current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserResponse
// @Failure 401 {object} model.MessageResponse
// @Failure 500 {string} string "Server error"
// @Router /api/users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.CurrentUser(c.Request.Context(), GetAuthUserID(c))
	if err != nil {
		h.writeAuthError(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, model.NewUserResponse(user))
}

func (h *AuthHandler) writeAuthError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, model.MessageResponse{Msg: "User already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, model.MessageResponse{Msg: "Invalid credentials"})
	default:
		writeServerError(c, h.log, op, err)
	}
}

// writeServerError logs err and answers with the opaque 500 body.
func writeServerError(c *gin.Context, log logrus.FieldLogger, op string, err error) {
	_ = c.Error(err)
	log.WithError(err).WithField("op", op).Error("request failed")
	c.String(http.StatusInternalServerError, msgServerError)
}
