package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/library/api/http/presenter"
	"github.com/artem13815/library/pkg/auth"
	"github.com/artem13815/library/pkg/security/jwt"
)

type UsersHandler struct {
	profile auth.ProfileUseCase
}

func NewUsersHandler(profile auth.ProfileUseCase) *UsersHandler {
	return &UsersHandler{profile: profile}
}

// GetProfile returns the authenticated caller's account.
// @Summary Get own profile
// @Tags    users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /users/profile [get]
func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	identity, ok := jwt.CurrentIdentity(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing identity")
	}
	user, err := h.profile.Get(c.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "user not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load profile")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"username":  user.Username,
		"email":     user.Email,
		"is_active": user.IsActive,
	})
}

type updateProfileRequest struct {
	Email string `json:"email"`
}

// UpdateProfile changes the caller's email address.
// @Summary Update own profile
// @Tags    users
// @Accept  json
// @Produce json
// @Param   input body updateProfileRequest true "profile fields"
// @Security BearerAuth
// @Success 200 {object} presenter.MessageResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /users/profile [put]
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok := jwt.CurrentIdentity(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing identity")
	}
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if _, err := h.profile.UpdateEmail(c.Context(), identity.UserID, req.Email); err != nil {
		var ve auth.ErrValidation
		switch {
		case errors.As(err, &ve):
			return presenter.Error(c, http.StatusBadRequest, ve.Error())
		case errors.Is(err, auth.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "user not found")
		case errors.Is(err, auth.ErrUserAlreadyExists):
			return presenter.Error(c, http.StatusConflict, "email already in use")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to update profile")
		}
	}
	return presenter.Message(c, http.StatusOK, "user profile updated successfully")
}
