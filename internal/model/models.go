// Package model defines the data models for the spot-the-spy bot.
package model

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a player's secret role in a started game.
type Role string

const (
	RoleNone    Role = ""
	RoleSpy     Role = "spy"
	RoleCitizen Role = "citizen"
)

// JoinPayload prefixes the deep-link payload used to join a multi-device game.
const JoinPayload = "join"

// Player represents one participant of a multi-device game as held by the
// remote game service. Role is empty until the game starts.
type Player struct {
	UserID     uuid.UUID `json:"user_id"`
	TelegramID int64     `json:"telegram_id"`
	FirstName  string    `json:"first_name"`
	Role       Role      `json:"role,omitempty"`
}

// Game is a snapshot of a multi-device game record. The source of truth lives
// in the remote game service; the bot only ever holds a cached copy.
type Game struct {
	GameID       uuid.UUID `json:"game_id"`
	HostID       uuid.UUID `json:"host_id"`
	HasStarted   bool      `json:"has_started"`
	PlayerAmount int       `json:"player_amount"`
	SecretWord   string    `json:"secret_word"`
	QRCodeURL    string    `json:"qr_code_url,omitempty"`
	Players      []Player  `json:"players"`
}

// IsHost reports whether the given user hosts the game.
func (g *Game) IsHost(userID uuid.UUID) bool {
	return g.HostID == userID
}

// Player returns the player entry for the given user id.
func (g *Game) Player(userID uuid.UUID) (Player, bool) {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p, true
		}
	}
	return Player{}, false
}

// Spy returns the player holding the spy role. A started game has exactly
// one spy.
func (g *Game) Spy() (Player, bool) {
	for _, p := range g.Players {
		if p.Role == RoleSpy {
			return p, true
		}
	}
	return Player{}, false
}

// JoinURL builds the t.me deep link a newcomer follows to join the game.
// The payload is base64url-encoded without padding, as Telegram requires
// for start parameters.
func (g *Game) JoinURL(botUsername string) string {
	payload := fmt.Sprintf("%s:%s", JoinPayload, g.GameID)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, encoded)
}

// DecodeJoinPayload extracts a game id from a /start deep-link payload.
func DecodeJoinPayload(payload string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode join payload: %w", err)
	}

	prefix, id, found := strings.Cut(string(raw), ":")
	if !found || prefix != JoinPayload {
		return uuid.Nil, fmt.Errorf("malformed join payload %q", raw)
	}

	gameID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse game id: %w", err)
	}
	return gameID, nil
}

// SingleDeviceGame is a pass-the-device game. The spy is identified by seat
// index rather than by user, since all players share one chat.
type SingleDeviceGame struct {
	GameID       uuid.UUID `json:"game_id"`
	PlayerAmount int       `json:"player_amount"`
	SpyIndex     int       `json:"spy_index"`
	SecretWord   string    `json:"secret_word"`
}

// User is the remote game service's user record.
type User struct {
	ID         uuid.UUID  `json:"id"`
	TelegramID int64      `json:"telegram_id"`
	FirstName  string     `json:"first_name"`
	Username   string     `json:"username,omitempty"`
	Locale     string     `json:"locale,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// BotUser pairs a remote user with the bot-side session state persisted in
// the key-value store: the chat and message the user is currently viewing,
// the scene stack, and transient scene data. It composes the plain User
// rather than extending it.
type BotUser struct {
	User

	ChatID    int64 `json:"chat_id,omitempty"`
	MessageID int   `json:"message_id,omitempty"`
	HasPhoto  bool  `json:"has_photo,omitempty"`

	Scene        string   `json:"scene,omitempty"`
	SceneStack   []string `json:"scene_stack,omitempty"`
	PlayerAmount int      `json:"player_amount,omitempty"`
	PlayerIndex  int      `json:"player_index,omitempty"`
}
