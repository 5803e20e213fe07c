package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// AuthController handles registration, login, and token lifecycle.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{auth: services.NewAuthService()}
}

// authPayload is the user + token pair returned by register and login.
type authPayload struct {
	User  models.User        `json:"user"`
	Token services.TokenPair `json:"token"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates an account and signs the new user in.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.ValidationError(w, map[string]string{"email": "The email has already been taken."})
			return
		}
		response.ServerError(w, "")
		return
	}

	response.Created(w, "User registered successfully", authPayload{User: user, Token: pair})
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a token pair.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
			return
		}
		response.ServerError(w, "")
		return
	}

	response.SuccessMessage(w, "Login successful", authPayload{User: user, Token: pair})
}

// Me returns the authenticated user's profile.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.auth.Me(userID)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, user)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh trades a refresh token for a fresh pair. The presented refresh
// token is revoked.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	pair, err := c.auth.Refresh(req.RefreshToken)
	if err != nil {
		response.Unauthorized(w)
		return
	}
	response.Success(w, pair)
}

// Logout revokes the presented access token.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token != "" {
		c.auth.Logout(token)
	}
	response.SuccessMessage(w, "Successfully logged out", nil)
}
