package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"spot-the-spy-bot/internal/model"
)

// Games wraps the multi-device game endpoints.
type Games struct {
	c *Client
}

// NewGames creates a Games endpoint wrapper sharing the given client.
func NewGames(c *Client) *Games {
	return &Games{c: c}
}

type createGameRequest struct {
	HostID       uuid.UUID `json:"host_id"`
	PlayerAmount int       `json:"player_amount"`
}

// Create creates a new multi-device game hosted by the given user.
func (g *Games) Create(ctx context.Context, hostID uuid.UUID, playerAmount int) (*model.Game, error) {
	res, err := g.c.do(ctx, http.MethodPost, "multi_device_games", createGameRequest{
		HostID:       hostID,
		PlayerAmount: playerAmount,
	})
	if err != nil {
		return nil, err
	}
	if res.status == http.StatusConflict {
		return nil, ErrAlreadyInGame
	}

	var game model.Game
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Get fetches the current game record.
func (g *Games) Get(ctx context.Context, gameID uuid.UUID) (*model.Game, error) {
	res, err := g.c.do(ctx, http.MethodGet, fmt.Sprintf("multi_device_games/%s", gameID), nil)
	if err != nil {
		return nil, err
	}
	if res.status == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var game model.Game
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetByUser fetches the game the given user currently participates in.
func (g *Games) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Game, error) {
	res, err := g.c.do(ctx, http.MethodGet, fmt.Sprintf("multi_device_games/by_user_id/%s", userID), nil)
	if err != nil {
		return nil, err
	}
	if res.status == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var game model.Game
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Join adds the user to a recruiting game. The four application failures are
// surfaced without retry so the caller can inform the newcomer precisely.
func (g *Games) Join(ctx context.Context, gameID, userID uuid.UUID) (*model.Game, error) {
	res, err := g.c.do(ctx, http.MethodPost, fmt.Sprintf("multi_device_games/%s/join/%s", gameID, userID), nil)
	if err != nil {
		return nil, err
	}
	switch res.status {
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusBadRequest:
		return nil, ErrGameAlreadyStarted
	case http.StatusConflict:
		return nil, ErrAlreadyInGame
	case http.StatusNotAcceptable:
		return nil, ErrInvalidPlayerAmount
	}

	var game model.Game
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Leave removes the user from the game and returns the updated record.
func (g *Games) Leave(ctx context.Context, gameID, userID uuid.UUID) (*model.Game, error) {
	res, err := g.c.do(ctx, http.MethodPost, fmt.Sprintf("multi_device_games/%s/leave/%s", gameID, userID), nil)
	if err != nil {
		return nil, err
	}
	switch res.status {
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusConflict:
		return nil, ErrNotInGame
	}

	var game model.Game
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Start assigns roles and a secret word, flipping has_started.
func (g *Games) Start(ctx context.Context, gameID uuid.UUID) (*model.Game, error) {
	res, err := g.c.do(ctx, http.MethodPost, fmt.Sprintf("multi_device_games/%s/start", gameID), nil)
	if err != nil {
		return nil, err
	}
	switch res.status {
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusBadRequest:
		return nil, ErrGameAlreadyStarted
	case http.StatusNotAcceptable:
		return nil, ErrInvalidPlayerAmount
	}

	var game model.Game
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Restart discards the finished game and creates a fresh one under a new id,
// preserving the roster on the service side.
func (g *Games) Restart(ctx context.Context, gameID uuid.UUID) (*model.Game, error) {
	res, err := g.c.do(ctx, http.MethodPost, fmt.Sprintf("multi_device_games/%s/restart", gameID), nil)
	if err != nil {
		return nil, err
	}
	if res.status == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var game model.Game
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Remove destroys the game record. Removing an already absent game is not an
// error: teardown must stay idempotent under concurrent exits.
func (g *Games) Remove(ctx context.Context, gameID uuid.UUID) error {
	res, err := g.c.do(ctx, http.MethodDelete, fmt.Sprintf("multi_device_games/%s", gameID), nil)
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

// GenerateQRCode asks the service to render a QR code for the join link.
// The returned game has qr_code_url populated.
func (g *Games) GenerateQRCode(ctx context.Context, gameID uuid.UUID) (*model.Game, error) {
	res, err := g.c.do(ctx, http.MethodPost, fmt.Sprintf("multi_device_games/%s/qr_code", gameID), nil)
	if err != nil {
		return nil, err
	}
	switch res.status {
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusConflict:
		return nil, ErrAlreadyExists
	}

	var game model.Game
	if err := decode(res, &game); err != nil {
		return nil, err
	}
	return &game, nil
}
