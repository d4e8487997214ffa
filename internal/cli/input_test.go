package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if out.String() != "Name?\n> " {
		t.Fatalf("prompt = %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	if _, err := GetSimpleText(rdr(""), "Name?", &out); err == nil {
		t.Fatal("expected EOF")
	}
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\nb\n\nrest\n"), "Enter text", &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a\nb" {
		t.Fatalf("got %q, want %q", got, "a\nb")
	}
}

func TestGetMultiline_EOF(t *testing.T) {
	var out bytes.Buffer
	got, _ := GetMultiline(rdr("only"), "Enter text", &out)
	if got != "only" {
		t.Fatalf("got %q", got)
	}
}

func TestGetPassword_Terminal(t *testing.T) {
	oldRead, oldTerm := readPassword, isTerminal
	defer func() { readPassword, isTerminal = oldRead, oldTerm }()
	isTerminal = func(int) bool { return true }

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(rdr(""), &out)
	if err != nil || pw != "s3cret" {
		t.Fatalf("got %q, err=%v", pw, err)
	}

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	if _, err := GetPassword(rdr(""), &out); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetPassword_NotTerminal(t *testing.T) {
	old := isTerminal
	defer func() { isTerminal = old }()
	isTerminal = func(int) bool { return false }

	var out bytes.Buffer
	pw, err := GetPassword(rdr("pw 123\r\n"), &out)
	if err != nil || pw != "pw 123" {
		t.Fatalf("got %q, err=%v", pw, err)
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false} {
		if got := Confirm(rdr(in), "Sure?", &out); got != want {
			t.Fatalf("Confirm(%q) = %v, want %v", in, got, want)
		}
	}
}
