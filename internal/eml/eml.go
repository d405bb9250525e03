// Package eml extracts the parts of an .eml message the engine cares
// about: the HTML body, the sender domain and the attachment list.
package eml

import (
	"fmt"
	"io"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"
)

// executableExts are attachment extensions worth calling out to the user.
var executableExts = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".scr": true, ".js": true,
	".vbs": true, ".jar": true, ".msi": true, ".ps1": true, ".com": true,
}

// Attachment is one attached part of a message.
type Attachment struct {
	FileName    string
	ContentType string
	Executable  bool
}

// Message is the analysis-relevant view of a parsed email.
type Message struct {
	Subject     string
	From        string
	Domain      string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Read parses an .eml stream. The sender domain is lowercased; a From
// header that does not parse leaves Domain empty rather than failing the
// whole message.
func Read(r io.Reader) (*Message, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	msg := &Message{
		Subject: env.GetHeader("Subject"),
		From:    env.GetHeader("From"),
		Text:    env.Text,
		HTML:    env.HTML,
	}
	if addr, err := mail.ParseAddress(msg.From); err == nil {
		_, msg.Domain, _ = strings.Cut(strings.ToLower(addr.Address), "@")
	}
	for _, part := range env.Attachments {
		ext := strings.ToLower(filepath.Ext(part.FileName))
		msg.Attachments = append(msg.Attachments, Attachment{
			FileName:    part.FileName,
			ContentType: part.ContentType,
			Executable:  executableExts[ext],
		})
	}
	return msg, nil
}
