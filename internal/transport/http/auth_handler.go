package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Todo_APP_BackEnd/internal/domain"
	"github.com/njprem/Todo_APP_BackEnd/internal/service"
	"github.com/njprem/Todo_APP_BackEnd/internal/util"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

type AuthHandler struct {
	auth AuthService
}

func RegisterAuth(e *echo.Echo, auth AuthService) {
	h := &AuthHandler{auth: auth}
	group := e.Group("/users")
	group.POST("", h.register)
	group.POST("/login", h.login)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			return c.JSON(http.StatusBadRequest, util.Error("Email already registered"))
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusUnprocessableEntity, util.Error(err.Error()))
		default:
			return err
		}
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("Invalid email or password"))
		}
		return err
	}
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		User:        toUserResponse(result.User),
	})
}
