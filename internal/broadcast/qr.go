package broadcast

import (
	"bytes"
	"fmt"
	"sync"

	qrcode "github.com/skip2/go-qrcode"
	tele "gopkg.in/telebot.v3"
)

const qrSize = 512

// QRSource resolves the photo attached to recruitment views. While the
// remote service has not rendered the game's QR code yet, a locally rendered
// placeholder pointing at the bot keeps the message layout stable; once
// qr_code_url is set, the remote image takes over.
type QRSource struct {
	botUsername string

	once        sync.Once
	placeholder []byte
	renderErr   error
}

// NewQRSource creates a QRSource for the given bot account.
func NewQRSource(botUsername string) *QRSource {
	return &QRSource{botUsername: botUsername}
}

// Placeholder returns the pending-state photo. The encoded payload is the
// bare bot link, not the join link: scanning it before the real code is
// ready must not admit anyone into the game.
func (q *QRSource) Placeholder() (*tele.Photo, error) {
	q.once.Do(func() {
		q.placeholder, q.renderErr = qrcode.Encode(
			fmt.Sprintf("https://t.me/%s", q.botUsername), qrcode.Medium, qrSize)
	})
	if q.renderErr != nil {
		return nil, fmt.Errorf("render placeholder qr: %w", q.renderErr)
	}
	return &tele.Photo{File: tele.FromReader(bytes.NewReader(q.placeholder))}, nil
}

// FromURL wraps the remotely rendered QR image; Telegram fetches the URL
// itself on send.
func (q *QRSource) FromURL(url string) *tele.Photo {
	return &tele.Photo{File: tele.FromURL(url)}
}
