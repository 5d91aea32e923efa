// internal/audit/deliver-report/message.go
package deliverreport

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

type MessageInput struct {
	From           string
	To             string
	Subject        string
	Body           string
	AttachmentName string
	PDF            []byte
	Date           time.Time
	MessageID      string
}

// ReadyText is the plain-text body pointing at the recommended plan.
func ReadyText(baseURL, route string) string {
	return "Your audit is ready. View your recommended plan: " + baseURL + route
}

// NewMessageID returns an identifier for the Message-ID header, without
// angle brackets, in the sender's domain.
func NewMessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return uuid.NewString() + "@" + domain
}

// BuildMessage composes a multipart/mixed message with a text part and the
// PDF attachment.
func BuildMessage(in MessageInput) ([]byte, error) {
	from, err := mail.ParseAddress(in.From)
	if err != nil {
		return nil, fmt.Errorf("parse from address: %w", err)
	}
	to, err := mail.ParseAddress(in.To)
	if err != nil {
		return nil, fmt.Errorf("parse recipient address: %w", err)
	}

	var h mail.Header
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", []*mail.Address{to})
	h.SetSubject(in.Subject)
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	h.SetDate(in.Date)
	if in.MessageID == "" {
		in.MessageID = NewMessageID(from.Address)
	}
	h.SetMessageID(in.MessageID)

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline part: %w", err)
	}
	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	w, err := tw.CreatePart(th)
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	if _, err := w.Write([]byte(in.Body)); err != nil {
		return nil, fmt.Errorf("write text part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}

	var ah mail.AttachmentHeader
	ah.SetContentType("application/pdf", nil)
	ah.SetFilename(in.AttachmentName)
	aw, err := mw.CreateAttachment(ah)
	if err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	if _, err := aw.Write(in.PDF); err != nil {
		return nil, fmt.Errorf("write attachment: %w", err)
	}
	if err := aw.Close(); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}
	return buf.Bytes(), nil
}
