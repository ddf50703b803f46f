package gmail

import (
	"encoding/base64"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// preservedHeaders are copied from the current draft into the rewritten one,
// in this order.
var preservedHeaders = []string{
	"From", "To", "Cc", "Bcc", "Reply-To", "Subject", "In-Reply-To", "References",
}

// buildRawMessage renders an RFC 2822 message carrying html as its only body,
// base64url encoded as the Gmail API expects.
func buildRawMessage(payload *gmail.MessagePart, html string) string {
	var b strings.Builder

	for _, name := range preservedHeaders {
		value, ok := headerValue(payload, name)
		if !ok {
			continue
		}
		if name == "Subject" {
			value = encodeRFC2047(value)
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

func headerValue(payload *gmail.MessagePart, name string) (string, bool) {
	if payload == nil {
		return "", false
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// encodeRFC2047 encodes non-ASCII header values as UTF-8 encoded words.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
