// Package broadcast renders state-specific views of a shared game and fans
// them out to every bound participant concurrently. It also owns the
// background poller lifecycle.
package broadcast

import (
	"strings"

	tele "gopkg.in/telebot.v3"

	"spot-the-spy-bot/internal/model"
)

// Rich-text markers used in message templates. They are stripped before
// sending; their spans become Telegram entities.
const (
	markerBold   = "b"
	markerJoin   = "join"
	markerPlayer = "player"
)

var markers = []string{markerBold, markerJoin, markerPlayer}

var markerEscaper = func() *strings.Replacer {
	pairs := make([]string, 0, len(markers)*4)
	for _, m := range markers {
		pairs = append(pairs, "<"+m+">", "", "</"+m+">", "")
	}
	return strings.NewReplacer(pairs...)
}()

// EscapeMarkers strips marker tokens from a value interpolated into a message
// template, so a player name cannot open or close a span. Removal can expose
// a token assembled from the surrounding characters, hence the fixpoint loop.
func EscapeMarkers(s string) string {
	for {
		out := markerEscaper.Replace(s)
		if out == s {
			return out
		}
		s = out
	}
}

// utf16Len returns the length of s in UTF-16 code units. Telegram entity
// offsets count UTF-16 units, not bytes or runes, so this must be used for
// any text that can carry multibyte characters.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n++
		if r > 0xFFFF {
			n++
		}
	}
	return n
}

// ExtractEntities strips <b>, <join> and <player> markers from text and
// returns the clean text plus entities whose offsets are computed over the
// stripped text in UTF-16 units. joinURL backs <join> spans; players back
// <player> spans in order of appearance.
func ExtractEntities(text, joinURL string, players []model.Player) (string, []tele.MessageEntity) {
	var entities []tele.MessageEntity
	playerIndex := 0

	for {
		marker, openIdx := nextMarker(text)
		if openIdx < 0 {
			break
		}

		openTag := "<" + marker + ">"
		closeTag := "</" + marker + ">"

		closeIdx := strings.Index(text[openIdx:], closeTag)
		if closeIdx >= 0 {
			closeIdx += openIdx
		}
		if closeIdx < 0 {
			// Unbalanced marker: drop the tag and keep the text readable.
			text = text[:openIdx] + text[openIdx+len(openTag):]
			continue
		}

		inner := text[openIdx+len(openTag) : closeIdx]
		offset := utf16Len(text[:openIdx])
		length := utf16Len(inner)

		switch marker {
		case markerBold:
			entities = append(entities, tele.MessageEntity{
				Type:   tele.EntityBold,
				Offset: offset,
				Length: length,
			})
		case markerJoin:
			entities = append(entities, tele.MessageEntity{
				Type:   tele.EntityTextLink,
				Offset: offset,
				Length: length,
				URL:    joinURL,
			})
		case markerPlayer:
			if playerIndex < len(players) {
				p := players[playerIndex]
				entities = append(entities,
					tele.MessageEntity{
						Type:   tele.EntityTMention,
						Offset: offset,
						Length: length,
						User: &tele.User{
							ID:        p.TelegramID,
							FirstName: p.FirstName,
						},
					},
					tele.MessageEntity{
						Type:   tele.EntityItalic,
						Offset: offset,
						Length: length,
					},
				)
			}
			playerIndex++
		}

		text = text[:openIdx] + inner + text[closeIdx+len(closeTag):]
	}

	return text, entities
}

// nextMarker finds the earliest opening marker in text.
func nextMarker(text string) (marker string, index int) {
	index = -1
	for _, m := range markers {
		i := strings.Index(text, "<"+m+">")
		if i >= 0 && (index < 0 || i < index) {
			marker, index = m, i
		}
	}
	return marker, index
}
