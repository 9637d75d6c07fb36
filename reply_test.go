package focus

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatRequest(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		args     []string
		expected string
	}{
		{"no arguments", "version", nil, "version\n"},
		{"arguments", "led.setAll", []string{"255", "0", "0"}, "led.setAll 255 0 0\n"},
		{"flush", " ", nil, " \n"},
		{"empty argument kept", "keymap.custom", []string{""}, "keymap.custom \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatRequest(tt.command, tt.args...)
			if err != nil {
				t.Fatalf("FormatRequest failed: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("FormatRequest() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestFormatRequestRejectsNewlines(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
	}{
		{"empty command", "", nil},
		{"newline in command", "version\n", nil},
		{"newline in argument", "led.at", []string{"1\n2"}},
		{"carriage return in argument", "led.at", []string{"1\r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FormatRequest(tt.command, tt.args...); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sentinel and blanks with LF", "a\n\n.\nb", "a\nb"},
		{"sentinel and blanks with CRLF", "a\r\n\r\n.\r\nb", "a\nb"},
		{"mixed line endings", "line1\nline2\r\nline3", "line1\nline2\nline3"},
		{"trailing terminator", "1.2.3\n.\n", "1.2.3"},
		{"only framing", "\n.\r\n\r\n.\n", ""},
		{"empty", "", ""},
		{"dots inside lines kept", "..\n. \n.a", "..\n. \n.a"},
		{"order preserved", "c\nb\n.\na", "c\nb\na"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"a\n\n.\nb",
		"line1\nline2\r\nline3",
		"x\r\r\n.\r\n",
		"a\r\r\nb",
		"\r\n\r\n",
		".\n.\n.",
		"caf�\n.\n",
		strings.Repeat("0 1 2 3\r\n", 8) + ".\r\n",
	}

	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean is not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestDecodeChunk(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"ascii", []byte("version\n"), "version\n"},
		{"utf8", []byte("caf\xc3\xa9"), "café"},
		{"invalid byte", []byte("a\xffb"), "a�b"},
		{"truncated rune", []byte("caf\xc3"), "caf�"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeChunk(tt.input); got != tt.expected {
				t.Errorf("decodeChunk(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
