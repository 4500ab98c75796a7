package mail

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is one outbound email with plain and rich alternative bodies.
type Message struct {
	From    string
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Text    string
	HTML    string
}

// Encode renders the message as a multipart/alternative RFC 2822 document.
// The plain part precedes the HTML part so clients prefer the rich form.
func (m *Message) Encode() ([]byte, error) {
	if m.From == "" {
		return nil, fmt.Errorf("message has no From address")
	}
	if len(m.To) == 0 {
		return nil, fmt.Errorf("message has no To address")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	writeHeader(&buf, "From", m.From)
	writeHeader(&buf, "To", strings.Join(m.To, ", "))
	if len(m.CC) > 0 {
		writeHeader(&buf, "Cc", strings.Join(m.CC, ", "))
	}
	if len(m.BCC) > 0 {
		writeHeader(&buf, "Bcc", strings.Join(m.BCC, ", "))
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", stripNewlines(m.Subject)))
	writeHeader(&buf, "Date", time.Now().UTC().Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", fmt.Sprintf("<%s@sourcedesk>", uuid.NewString()))
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary()))
	buf.WriteString("\r\n")

	if err := writePart(mw, "text/plain; charset=utf-8", m.Text); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html; charset=utf-8", m.HTML); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), nil
}

// writeHeader emits one header line. Values lose any CR/LF so user input
// can never terminate the line and smuggle additional headers.
func writeHeader(buf *bytes.Buffer, key, value string) {
	fmt.Fprintf(buf, "%s: %s\r\n", key, stripNewlines(value))
}

func stripNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, s)
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return fmt.Errorf("write %s part: %w", contentType, err)
	}
	return nil
}
