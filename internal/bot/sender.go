package bot

import (
	"strconv"

	tele "gopkg.in/telebot.v3"

	"spot-the-spy-bot/internal/broadcast"
)

// Sender adapts a telebot instance to the platform calls the broadcast
// engine makes.
type Sender struct {
	bot *tele.Bot
}

// NewSender wraps a telebot instance.
func NewSender(b *tele.Bot) *Sender {
	return &Sender{bot: b}
}

func stored(chatID int64, messageID int) tele.StoredMessage {
	return tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
}

func options(v broadcast.View) *tele.SendOptions {
	return &tele.SendOptions{
		ReplyMarkup:           v.Markup,
		Entities:              v.Entities,
		DisableWebPagePreview: true,
	}
}

// captioned copies the view's photo with the view text as its caption. The
// copy matters: photo values carry file readers and must not be shared.
func captioned(v broadcast.View) *tele.Photo {
	photo := *v.Photo
	photo.Caption = v.Text
	return &photo
}

func ref(msg *tele.Message, fallback broadcast.MessageRef) broadcast.MessageRef {
	if msg == nil {
		return fallback
	}
	return broadcast.MessageRef{MessageID: msg.ID, HasPhoto: msg.Photo != nil}
}

// Send posts a fresh message, with the photo attached when the view has one.
func (s *Sender) Send(chatID int64, v broadcast.View) (broadcast.MessageRef, error) {
	var (
		msg *tele.Message
		err error
	)
	if v.Photo != nil {
		msg, err = s.bot.Send(tele.ChatID(chatID), captioned(v), options(v))
	} else {
		msg, err = s.bot.Send(tele.ChatID(chatID), v.Text, options(v))
	}
	if err != nil {
		return broadcast.MessageRef{}, err
	}
	return ref(msg, broadcast.MessageRef{}), nil
}

// EditText rewrites a plain text message in place.
func (s *Sender) EditText(chatID int64, messageID int, v broadcast.View) (broadcast.MessageRef, error) {
	msg, err := s.bot.Edit(stored(chatID, messageID), v.Text, options(v))
	if err != nil {
		return broadcast.MessageRef{}, err
	}
	return ref(msg, broadcast.MessageRef{MessageID: messageID}), nil
}

// EditCaption rewrites the caption of a photo message.
func (s *Sender) EditCaption(chatID int64, messageID int, v broadcast.View) (broadcast.MessageRef, error) {
	msg, err := s.bot.EditCaption(stored(chatID, messageID), v.Text, options(v))
	if err != nil {
		return broadcast.MessageRef{}, err
	}
	return ref(msg, broadcast.MessageRef{MessageID: messageID, HasPhoto: true}), nil
}

// EditMedia swaps the photo and caption of a photo message.
func (s *Sender) EditMedia(chatID int64, messageID int, v broadcast.View) (broadcast.MessageRef, error) {
	msg, err := s.bot.EditMedia(stored(chatID, messageID), captioned(v), options(v))
	if err != nil {
		return broadcast.MessageRef{}, err
	}
	return ref(msg, broadcast.MessageRef{MessageID: messageID, HasPhoto: true}), nil
}

// Delete removes a message.
func (s *Sender) Delete(chatID int64, messageID int) error {
	return s.bot.Delete(stored(chatID, messageID))
}
