// Package keyboard builds the inline keyboards and defines the callback
// actions the scene table dispatches on.
package keyboard

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"spot-the-spy-bot/internal/locale"
)

// Callback actions. Data on the wire is "<action>" or "<action>|<arg>".
const (
	ActPlay      = "play"
	ActLanguage  = "language"
	ActLang      = "lang"
	ActBack      = "back"
	ActMenu      = "menu"
	ActSingle    = "single"
	ActMulti     = "multi"
	ActNext      = "next"
	ActPlayers   = "players"
	ActCreate    = "create"
	ActStart     = "start"
	ActViewRole  = "view_role"
	ActProceed   = "proceed"
	ActFinish    = "finish"
	ActPlayAgain = "play_again"
	ActLeave     = "leave"
)

// ParseCallback splits trimmed callback data into action and argument.
func ParseCallback(data string) (action, arg string) {
	data = strings.TrimPrefix(data, "\f")
	action, arg, _ = strings.Cut(data, "|")
	return action, arg
}

func btn(text, action string, args ...string) tele.Btn {
	data := action
	if len(args) > 0 {
		data = action + "|" + strings.Join(args, "|")
	}
	return tele.Btn{Text: text, Data: data}
}

func inline(rows ...[]tele.Btn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	teleRows := make([]tele.Row, len(rows))
	for i, row := range rows {
		teleRows[i] = tele.Row(row)
	}
	markup.Inline(teleRows...)
	return markup
}

// Start is the root menu.
func Start(loc locale.Locale) *tele.ReplyMarkup {
	return inline(
		[]tele.Btn{btn(loc.Text("button.play"), ActPlay)},
		[]tele.Btn{btn(loc.Text("button.language"), ActLanguage)},
	)
}

// Language lists supported locales.
func Language(loc locale.Locale) *tele.ReplyMarkup {
	row := make([]tele.Btn, 0, len(locale.Supported()))
	for _, l := range locale.Supported() {
		row = append(row, btn(l.Name(), ActLang, string(l)))
	}
	return inline(row, []tele.Btn{btn(loc.Text("button.back"), ActBack)})
}

// ChooseDevice offers the two game modes.
func ChooseDevice(loc locale.Locale) *tele.ReplyMarkup {
	return inline(
		[]tele.Btn{btn(loc.Text("button.device.single"), ActSingle)},
		[]tele.Btn{btn(loc.Text("button.device.multi"), ActMulti)},
		[]tele.Btn{btn(loc.Text("button.back"), ActBack)},
	)
}

// Explain confirms a mode explanation.
func Explain(loc locale.Locale) *tele.ReplyMarkup {
	return inline(
		[]tele.Btn{btn(loc.Text("button.next"), ActNext)},
		[]tele.Btn{btn(loc.Text("button.back"), ActBack)},
	)
}

// Configure selects a player amount within [min, max]; the currently selected
// amount is highlighted. confirm starts or creates the game.
func Configure(loc locale.Locale, min, max, selected int, confirmKey, confirmAction string) *tele.ReplyMarkup {
	numbers := make([]tele.Btn, 0, max-min+1)
	for n := min; n <= max; n++ {
		label := fmt.Sprintf("%d", n)
		if n == selected {
			label = fmt.Sprintf("· %d ·", n)
		}
		numbers = append(numbers, btn(label, ActPlayers, fmt.Sprintf("%d", n)))
	}

	half := (len(numbers) + 1) / 2
	return inline(
		numbers[:half],
		numbers[half:],
		[]tele.Btn{btn(loc.Text(confirmKey), confirmAction)},
		[]tele.Btn{btn(loc.Text("button.back"), ActBack)},
	)
}

// SinglePrepare shows the view-role button between seats.
func SinglePrepare(loc locale.Locale) *tele.ReplyMarkup {
	return inline([]tele.Btn{btn(loc.Text("button.view_role"), ActViewRole)})
}

// SingleRole passes the device to the next seat.
func SingleRole(loc locale.Locale) *tele.ReplyMarkup {
	return inline([]tele.Btn{btn(loc.Text("button.proceed"), ActProceed)})
}

// SingleDiscuss ends the discussion phase.
func SingleDiscuss(loc locale.Locale) *tele.ReplyMarkup {
	return inline([]tele.Btn{btn(loc.Text("button.finish"), ActFinish)})
}

// SingleFinished offers a rematch.
func SingleFinished(loc locale.Locale) *tele.ReplyMarkup {
	return inline(
		[]tele.Btn{btn(loc.Text("button.play_again"), ActPlayAgain)},
		[]tele.Btn{btn(loc.Text("button.menu"), ActMenu)},
	)
}

// MultiRecruit is shown during recruitment; only the host can start.
func MultiRecruit(loc locale.Locale, isHost bool) *tele.ReplyMarkup {
	if isHost {
		return inline(
			[]tele.Btn{btn(loc.Text("button.start"), ActStart)},
			[]tele.Btn{btn(loc.Text("button.leave"), ActBack)},
		)
	}
	return inline([]tele.Btn{btn(loc.Text("button.leave"), ActBack)})
}

// MultiStarted is shown on the role reveal; only the host can finish.
func MultiStarted(loc locale.Locale, isHost bool) *tele.ReplyMarkup {
	if isHost {
		return inline(
			[]tele.Btn{btn(loc.Text("button.finish"), ActFinish)},
			[]tele.Btn{btn(loc.Text("button.leave"), ActBack)},
		)
	}
	return inline([]tele.Btn{btn(loc.Text("button.leave"), ActBack)})
}

// MultiFinished is shown after the spy reveal; only the host can restart.
func MultiFinished(loc locale.Locale, isHost bool) *tele.ReplyMarkup {
	if isHost {
		return inline(
			[]tele.Btn{btn(loc.Text("button.play_again"), ActPlayAgain)},
			[]tele.Btn{btn(loc.Text("button.leave"), ActBack)},
		)
	}
	return inline([]tele.Btn{btn(loc.Text("button.leave"), ActBack)})
}

// Back is a bare back button.
func Back(loc locale.Locale) *tele.ReplyMarkup {
	return inline([]tele.Btn{btn(loc.Text("button.back"), ActBack)})
}

// Menu returns to the root menu.
func Menu(loc locale.Locale) *tele.ReplyMarkup {
	return inline([]tele.Btn{btn(loc.Text("button.menu"), ActMenu)})
}
