package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"spot-the-spy-bot/internal/model"
)

// Users wraps the user endpoints.
type Users struct {
	c *Client
}

// NewUsers creates a Users endpoint wrapper sharing the given client.
func NewUsers(c *Client) *Users {
	return &Users{c: c}
}

// CreateUser carries the fields for registering a new user.
type CreateUser struct {
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	Username   string `json:"username,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

// UpdateUser carries the mutable user fields; zero values are omitted.
type UpdateUser struct {
	FirstName string `json:"first_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Locale    string `json:"locale,omitempty"`
}

// GetByTelegramID fetches the user registered for a Telegram account.
func (u *Users) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	res, err := u.c.do(ctx, http.MethodGet, fmt.Sprintf("users/by_telegram_id/%d", telegramID), nil)
	if err != nil {
		return nil, err
	}
	if res.status == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var user model.User
	if err := decode(res, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create registers a new user.
func (u *Users) Create(ctx context.Context, req CreateUser) (*model.User, error) {
	res, err := u.c.do(ctx, http.MethodPost, "users", req)
	if err != nil {
		return nil, err
	}
	if res.status == http.StatusConflict {
		return nil, ErrAlreadyExists
	}

	var user model.User
	if err := decode(res, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update patches the user record.
func (u *Users) Update(ctx context.Context, userID uuid.UUID, req UpdateUser) (*model.User, error) {
	res, err := u.c.do(ctx, http.MethodPut, fmt.Sprintf("users/%s", userID), req)
	if err != nil {
		return nil, err
	}
	if res.status == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var user model.User
	if err := decode(res, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreate resolves a user by Telegram id, registering them on first contact.
func (u *Users) GetOrCreate(ctx context.Context, req CreateUser) (*model.User, error) {
	user, err := u.GetByTelegramID(ctx, req.TelegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return u.Create(ctx, req)
}
