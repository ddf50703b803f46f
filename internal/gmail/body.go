package gmail

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	mimeHTML  = "text/html"
	mimePlain = "text/plain"
)

// ExtractHTMLBody returns the HTML body of a message. A message without an
// HTML part has its plain text body escaped and converted to HTML.
func ExtractHTMLBody(msg *gmail.Message) (string, error) {
	if msg == nil || msg.Payload == nil {
		return "", fmt.Errorf("message has no payload")
	}

	if data := findPart(msg.Payload, mimeHTML); data != "" {
		return decodeBody(data)
	}
	if data := findPart(msg.Payload, mimePlain); data != "" {
		text, err := decodeBody(data)
		if err != nil {
			return "", err
		}
		return textToHTML(text), nil
	}

	// A freshly created draft has an empty body.
	return "", nil
}

func findPart(payload *gmail.MessagePart, mimeType string) string {
	var data string
	walkParts(payload, func(part *gmail.MessagePart) {
		if data == "" && part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
			data = part.Body.Data
		}
	})
	return data
}

// walkParts visits part and all of its descendants depth first.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, sub := range part.Parts {
		walkParts(sub, fn)
	}
}

// decodeBody decodes base64url body data, tolerating missing padding and
// standard base64.
func decodeBody(data string) (string, error) {
	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.RawURLEncoding, base64.StdEncoding} {
		if decoded, err := enc.DecodeString(data); err == nil {
			return string(decoded), nil
		}
	}
	return "", fmt.Errorf("failed to decode message body")
}

func textToHTML(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	paragraphs := strings.Split(strings.TrimRight(text, "\n"), "\n\n")

	var b strings.Builder
	for _, p := range paragraphs {
		lines := strings.Split(p, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(line)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
