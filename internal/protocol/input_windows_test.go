//go:build windows

package protocol

import (
	"os"
	"strings"
	"testing"
)

func TestInterruptible_PipedStdinIsNotConsole(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	prev := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = prev }()

	if interruptible(os.Stdin) {
		t.Fatal("interruptible(piped stdin) = true, want false")
	}
}

func TestNewLineReader_ReadsPipedStdin(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()

	prev := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = prev }()

	lr, err := NewLineReader(os.Stdin)
	if err != nil {
		t.Fatalf("NewLineReader: %v", err)
	}
	defer lr.Close()

	if _, err := w.WriteString("1 theme \n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Close()

	line, err := lr.ReadLine()
	if err != nil || line != "1 theme " {
		t.Fatalf("ReadLine = %q, %v, want %q", line, err, "1 theme ")
	}
}

func TestInterruptible_OtherReaders(t *testing.T) {
	if !interruptible(strings.NewReader("")) {
		t.Fatal("interruptible(strings.Reader) = false, want true")
	}
}
