package identity

import (
	"errors"
	"fmt"
)

// Session is what the provider hands back after sign-up or login.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

var (
	ErrEmailExists        = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid authentication credentials")
)

// ErrorResponse is the provider's error envelope.
type ErrorResponse struct {
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"msg"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("identity provider error %s: %s", e.ErrorCode, e.Message)
}
