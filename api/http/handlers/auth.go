package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/travelinfo/api/http/presenter"
	"github.com/artem13815/travelinfo/pkg/auth"
	"github.com/artem13815/travelinfo/pkg/logging"
	"github.com/artem13815/travelinfo/pkg/security/jwt"
)

const (
	msgRegistered        = "User registered successfully"
	msgLoggedIn          = "Login successful"
	msgUserExists        = "User already exists!"
	msgInvalidCreds      = "Invalid credentials!"
	msgRegistrationError = "Error in registration"
	msgLoginError        = "Error in login"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
	log     logging.Logger
}

func NewAuthHandler(useCase auth.AuthUseCase, log logging.Logger) *AuthHandler {
	return &AuthHandler{useCase: useCase, log: log.With("component", "auth")}
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
// @Success 201 {object} presenter.TokenResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ServerErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	result, err := h.useCase.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserAlreadyExists):
			return presenter.Error(c, http.StatusBadRequest, msgUserExists)
		case errors.Is(err, auth.ErrValidation):
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		default:
			h.log.Error(c.UserContext(), "registration failed", "error", err)
			return presenter.ServerError(c, msgRegistrationError, err)
		}
	}

	h.log.Info(c.UserContext(), "user registered", "user_id", result.User.ID)
	return presenter.JSON(c, http.StatusCreated, presenter.TokenResponse{
		Message: msgRegistered,
		Token:   result.Token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} presenter.TokenResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ServerErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	result, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusBadRequest, msgInvalidCreds)
		}
		h.log.Error(c.UserContext(), "login failed", "error", err)
		return presenter.ServerError(c, msgLoginError, err)
	}

	return presenter.JSON(c, http.StatusOK, presenter.TokenResponse{
		Message: msgLoggedIn,
		Token:   result.Token,
	})
}

type profileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Me returns the profile of the token's subject.
// @Summary Current user
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} profileResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ServerErrorResponse
// @Router  /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(jwt.LocalUserID).(string)
	if userID == "" {
		return presenter.Error(c, http.StatusUnauthorized, "unauthenticated")
	}
	user, err := h.useCase.Profile(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			// token outlived its user record
			return presenter.Error(c, http.StatusUnauthorized, "user no longer exists")
		}
		h.log.Error(c.UserContext(), "profile lookup failed", "error", err)
		return presenter.ServerError(c, "Error loading profile", err)
	}
	return presenter.JSON(c, http.StatusOK, profileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
