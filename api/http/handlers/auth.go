package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/library/api/http/presenter"
	"github.com/artem13815/library/pkg/auth"
	"github.com/artem13815/library/pkg/blacklist"
	"github.com/artem13815/library/pkg/security/jwt"
)

type AuthHandler struct {
	useCase   auth.AuthUseCase
	revoked   blacklist.Store
	jwtSecret string
	jwtIssuer string
}

func NewAuthHandler(useCase auth.AuthUseCase, revoked blacklist.Store, jwtSecret, jwtIssuer string) *AuthHandler {
	return &AuthHandler{useCase: useCase, revoked: revoked, jwtSecret: jwtSecret, jwtIssuer: jwtIssuer}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	user, err := h.useCase.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var ve auth.ErrValidation
		switch {
		case errors.As(err, &ve):
			return presenter.Error(c, http.StatusBadRequest, ve.Error())
		case errors.Is(err, auth.ErrUserAlreadyExists):
			return presenter.Error(c, http.StatusConflict, "user already exists")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to register user")
		}
	}

	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"id":         user.ID.String(),
		"username":   user.Username,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if req.Username == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "username and password are required")
	}

	result, err := h.useCase.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to login")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message":      "successful sign in",
		"access_token": result.Token,
	})
}

// Logout revokes the presented token until its natural expiry.
// @Summary Logout
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} presenter.MessageResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenStr := jwt.TokenFromHeader(c.Get("Authorization"))
	claims, err := jwt.Verify(tokenStr, h.jwtSecret, h.jwtIssuer)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "invalid or expired token")
	}
	if err := h.revoked.Revoke(c.Context(), claims.ID, claims.TTLRemaining(time.Now().UTC())); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to revoke token")
	}
	return presenter.Message(c, http.StatusOK, "logged out")
}

// Protected echoes the authenticated identity (diagnostic route).
// @Summary Identity echo
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/protected [get]
func (h *AuthHandler) Protected(c *fiber.Ctx) error {
	identity, ok := jwt.CurrentIdentity(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing identity")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"logged_in_as": identity.Username,
		"user_id":      identity.UserID.String(),
	})
}
