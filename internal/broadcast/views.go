package broadcast

import (
	"strings"

	tele "gopkg.in/telebot.v3"

	"spot-the-spy-bot/internal/keyboard"
	"spot-the-spy-bot/internal/locale"
	"spot-the-spy-bot/internal/model"
)

// View is one fully rendered message: clean text, entities over that text,
// an optional photo the text captions, and an inline keyboard.
type View struct {
	Text     string
	Entities []tele.MessageEntity
	Photo    *tele.Photo
	Markup   *tele.ReplyMarkup
}

// RecruitmentView renders the recruiting lobby for one recipient: ordered
// player list with the host starred, join link, per-recipient controls.
func RecruitmentView(loc locale.Locale, game *model.Game, isHost bool, botUsername string, photo *tele.Photo) View {
	lines := make([]string, 0, len(game.Players))
	for i, p := range game.Players {
		key := "message.multi.recruit.player"
		if p.UserID == game.HostID {
			key = "message.multi.recruit.player.host"
		}
		lines = append(lines, loc.Textf(key, i+1, EscapeMarkers(p.FirstName)))
	}

	raw := loc.Textf("message.multi.recruit",
		strings.Join(lines, "\n"), len(game.Players), game.PlayerAmount)
	text, entities := ExtractEntities(raw, game.JoinURL(botUsername), game.Players)

	return View{
		Text:     text,
		Entities: entities,
		Photo:    photo,
		Markup:   keyboard.MultiRecruit(loc, isHost),
	}
}

// RoleView renders the role reveal for one player. The spy never sees the
// secret word.
func RoleView(loc locale.Locale, game *model.Game, player model.Player) View {
	var raw string
	if player.Role == model.RoleSpy {
		raw = loc.Text("message.multi.role.spy")
	} else {
		raw = loc.Textf("message.multi.role.citizen", loc.SecretWord(game.SecretWord))
	}

	text, entities := ExtractEntities(raw, "", nil)
	return View{
		Text:     text,
		Entities: entities,
		Markup:   keyboard.MultiStarted(loc, game.IsHost(player.UserID)),
	}
}

// FinishView renders the spy disclosure shown to everyone.
func FinishView(loc locale.Locale, game *model.Game, spy model.Player, isHost bool) View {
	raw := loc.Textf("message.multi.finish", loc.SecretWord(game.SecretWord), EscapeMarkers(spy.FirstName))
	text, entities := ExtractEntities(raw, "", []model.Player{spy})

	return View{
		Text:     text,
		Entities: entities,
		Markup:   keyboard.MultiFinished(loc, isHost),
	}
}

// StoppedView is the terminal message delivered when the host tears the
// game down.
func StoppedView(loc locale.Locale) View {
	return View{
		Text:   loc.Text("message.multi.stop"),
		Markup: keyboard.Menu(loc),
	}
}

// LeftView confirms the leaver's own departure.
func LeftView(loc locale.Locale) View {
	return View{
		Text:   loc.Text("message.multi.leave"),
		Markup: keyboard.Menu(loc),
	}
}
