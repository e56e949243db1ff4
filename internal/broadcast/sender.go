package broadcast

// MessageRef is the opaque result of a platform call: enough to edit or
// delete the message later, plus its current content kind.
type MessageRef struct {
	MessageID int
	HasPhoto  bool
}

// Sender abstracts the chat platform message calls the engine needs. The
// telebot adapter implements it in production; tests substitute a fake.
type Sender interface {
	// Send posts a fresh message (text, or photo when v.Photo is set).
	Send(chatID int64, v View) (MessageRef, error)
	// EditText rewrites a plain text message in place.
	EditText(chatID int64, messageID int, v View) (MessageRef, error)
	// EditCaption rewrites the caption of a photo message; invalid when the
	// target currently has no photo.
	EditCaption(chatID int64, messageID int, v View) (MessageRef, error)
	// EditMedia replaces the photo and caption of a photo message.
	EditMedia(chatID int64, messageID int, v View) (MessageRef, error)
	// Delete removes a message.
	Delete(chatID int64, messageID int) error
}
