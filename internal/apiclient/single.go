package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"spot-the-spy-bot/internal/model"
)

// SingleGames wraps the single-device game endpoints.
type SingleGames struct {
	c *Client
}

// NewSingleGames creates a SingleGames endpoint wrapper sharing the given client.
func NewSingleGames(c *Client) *SingleGames {
	return &SingleGames{c: c}
}

type createSingleGameRequest struct {
	HostID       uuid.UUID `json:"host_id"`
	TelegramID   int64     `json:"telegram_id"`
	PlayerAmount int       `json:"player_amount"`
}

// Create creates a pass-the-device game. The service picks the spy seat and
// the secret word.
func (g *SingleGames) Create(ctx context.Context, hostID uuid.UUID, telegramID int64, playerAmount int) (*model.SingleDeviceGame, error) {
	res, err := g.c.do(ctx, http.MethodPost, "single_device_games", createSingleGameRequest{
		HostID:       hostID,
		TelegramID:   telegramID,
		PlayerAmount: playerAmount,
	})
	if err != nil {
		return nil, err
	}
	if res.status == http.StatusConflict {
		return nil, ErrAlreadyInGame
	}

	var game model.SingleDeviceGame
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetByUser fetches the single-device game hosted by the given user.
func (g *SingleGames) GetByUser(ctx context.Context, userID uuid.UUID) (*model.SingleDeviceGame, error) {
	res, err := g.c.do(ctx, http.MethodGet, fmt.Sprintf("single_device_games/by_user_id/%s", userID), nil)
	if err != nil {
		return nil, err
	}
	if res.status == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var game model.SingleDeviceGame
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Remove destroys the game record; absence is not an error.
func (g *SingleGames) Remove(ctx context.Context, gameID uuid.UUID) error {
	res, err := g.c.do(ctx, http.MethodDelete, fmt.Sprintf("single_device_games/%s", gameID), nil)
	if err != nil {
		return err
	}
	if res.status == http.StatusNotFound {
		return nil
	}
	if res.status < 200 || res.status >= 300 {
		return fmt.Errorf("game service: unexpected status %d", res.status)
	}
	return nil
}
