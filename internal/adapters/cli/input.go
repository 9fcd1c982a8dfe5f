package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mikey/llm-email-summarizer/internal/core"
)

// StdinPath selects standard input as the email source
const StdinPath = "-"

// ReadInput loads the email text to summarize. An empty path yields the
// built-in sample email. With asMessage the input is parsed as an RFC 5322
// message and only its headers summary and text content are kept.
func ReadInput(path string, stdin io.Reader, asMessage bool) (string, error) {
	var r io.Reader
	switch path {
	case "":
		if !asMessage {
			return core.SampleEmail, nil
		}
		return "", fmt.Errorf("message mode needs an input file or %q for stdin", StdinPath)
	case StdinPath:
		r = stdin
	default:
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		r = file
	}

	if asMessage {
		msg, err := ParseMessage(bufio.NewReader(r))
		if err != nil {
			return "", err
		}
		return msg.Content(), nil
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}
