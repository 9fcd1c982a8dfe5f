package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

const noTextContent = "[No text content found in multipart message]"

var wordDecoder = new(mime.WordDecoder)

// Message is the part of an RFC 5322 message that gets summarized
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// ParseMessage reads an RFC 5322 message and extracts its text/plain content
func ParseMessage(r io.Reader) (*Message, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	body, err := extractTextFromMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to read email body: %w", err)
	}

	return &Message{
		From:    decodeHeader(msg.Header.Get("From")),
		To:      decodeHeader(msg.Header.Get("To")),
		Subject: decodeHeader(msg.Header.Get("Subject")),
		Body:    body,
	}, nil
}

// Content renders the message as the text sent for summarization
func (m *Message) Content() string {
	var b strings.Builder
	if m.From != "" {
		fmt.Fprintf(&b, "From: %s\n", m.From)
	}
	if m.To != "" {
		fmt.Fprintf(&b, "To: %s\n", m.To)
	}
	if m.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", m.Subject)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(m.Body)
	return b.String()
}

func decodeHeader(v string) string {
	decoded, err := wordDecoder.DecodeHeader(v)
	if err != nil {
		return v
	}
	return decoded
}

// extractTextFromMessage extracts the text content from an email message.
// For multipart messages, it collects the text/plain parts.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")
	encoding := msg.Header.Get("Content-Transfer-Encoding")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return readPart(msg.Body, encoding)
	}

	return extractMultipart(multipart.NewReader(msg.Body, params["boundary"]))
}

func extractMultipart(mr *multipart.Reader) (string, error) {
	var textContent bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep what was read before the broken part
			if textContent.Len() > 0 {
				return textContent.String(), nil
			}
			return "", err
		}

		mediaType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			continue
		}

		switch {
		case mediaType == "text/plain":
			text, err := readPart(part, part.Header.Get("Content-Transfer-Encoding"))
			if err != nil {
				continue
			}
			textContent.WriteString(text)
			textContent.WriteString("\n")
		case strings.HasPrefix(mediaType, "multipart/") && params["boundary"] != "":
			nested, err := extractMultipart(multipart.NewReader(part, params["boundary"]))
			if err == nil && nested != noTextContent {
				textContent.WriteString(nested)
			}
		}
	}

	if textContent.Len() > 0 {
		return textContent.String(), nil
	}

	return noTextContent, nil
}

// readPart reads a body honouring its transfer encoding. multipart.Reader
// already decodes quoted-printable parts and drops the header.
func readPart(r io.Reader, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
