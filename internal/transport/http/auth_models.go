package http

import "github.com/njprem/Todo_APP_BackEnd/internal/domain"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Email already registered"`
}

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email" example:"a@b.com"`
	Password  string  `json:"password" validate:"required" example:"pw1"`
	FirstName *string `json:"first_name" example:"Ada"`
	LastName  *string `json:"last_name" example:"Lovelace"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"a@b.com"`
	Password string `json:"password" validate:"required" example:"pw1"`
}

// UserResponse is the public view of a user; the password digest never leaves
// the service.
type UserResponse struct {
	ID        int64   `json:"id" example:"1"`
	Email     string  `json:"email" example:"a@b.com"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token" example:"user-1"`
	TokenType   string       `json:"token_type" example:"bearer"`
	User        UserResponse `json:"user"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
