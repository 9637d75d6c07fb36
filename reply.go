package focus

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// replyTerminator is the line firmware sends to mark the end of a reply
const replyTerminator = "."

// flushCommand is sent to make the firmware answer and empty its queue
const flushCommand = " "

// FormatRequest frames a command and its arguments as one Focus request
// line: tokens joined by single spaces with exactly one trailing newline.
func FormatRequest(command string, args ...string) ([]byte, error) {
	if command == "" {
		return nil, ErrInvalidRequest
	}
	for _, token := range append([]string{command}, args...) {
		if strings.ContainsAny(token, "\r\n") {
			return nil, ErrInvalidRequest
		}
	}

	var b strings.Builder
	b.WriteString(command)
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

// Clean strips protocol framing from raw reply text: empty lines and
// terminator lines are dropped and the rest joined with "\n".
func Clean(raw string) string {
	lines := strings.Split(raw, "\n")

	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" || line == replyTerminator {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

// decodeChunk converts one read to text. Invalid UTF-8, including a rune
// split across two reads, becomes U+FFFD instead of an error.
func decodeChunk(chunk []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(chunk)
	if err != nil {
		return strings.ToValidUTF8(string(chunk), "�")
	}
	return string(decoded)
}
