package util

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunStreamsLines(t *testing.T) {
	var lines []string
	res, err := NewDefaultRunner().Run(context.Background(), CmdSpec{
		Path:       "/bin/sh",
		Args:       []string{"-c", "echo one; echo two; echo warn >&2"},
		StdoutLine: func(l string) { lines = append(lines, l) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(lines, ",") != "one,two" {
		t.Errorf("lines = %v", lines)
	}
	if len(res.Stdout) != 0 {
		t.Errorf("stdout captured without CaptureStdout: %q", res.Stdout)
	}
	if strings.TrimSpace(string(res.Stderr)) != "warn" {
		t.Errorf("stderr = %q", res.Stderr)
	}
}

func TestRunFailureIncludesStderr(t *testing.T) {
	res, err := Run(context.Background(), CmdSpec{
		Path: "/bin/sh",
		Args: []string{"-c", "echo 'ERROR: boom' >&2; exit 3"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Code != 3 {
		t.Errorf("code = %d, want 3", res.Code)
	}
	if !strings.Contains(err.Error(), "ERROR: boom") {
		t.Errorf("error %q does not carry stderr", err)
	}
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Run(ctx, CmdSpec{Path: "/bin/sh", Args: []string{"-c", "exec sleep 5"}})
	if err == nil || !strings.Contains(err.Error(), "interrupted") {
		t.Fatalf("err = %v, want interruption", err)
	}
}

func TestShellQuote(t *testing.T) {
	got := shellQuote("ffmpeg", []string{"-i", "my file.webm", ""})
	want := "ffmpeg -i 'my file.webm' ''"
	if got != want {
		t.Errorf("shellQuote = %q, want %q", got, want)
	}
}
