package api

import (
	"context"
	"net/http"

	"kittenfind/internal/models"
)

// Операции аутентификации. Регистрация и вход идут без токена и возвращают
// новый токен; /auth/me требует bearer-токен.

// RegisterRequest - тело запроса POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// LoginRequest - тело запроса POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse - общая форма успешного ответа register/login.
type authResponse struct {
	Token string `json:"token"`
}

// Register создает нового пользователя и возвращает выданный сервером токен.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", jsonPayload{value: req}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login проверяет учетные данные и возвращает выданный сервером токен.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", jsonPayload{value: req}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Me возвращает пользователя, которому принадлежит токен.
// Ответ 401 означает, что токен недействителен или истек - вызывающий
// (личный кабинет) обязан в этом случае очистить сессию.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
