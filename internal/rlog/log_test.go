package rlog

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestErrorfWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(log.New(&buf, "", 0))
	defer SetOutput(log.New(bufDiscard{}, "", 0))

	Errorf("attachment mismatch: %s", "depth")

	if !strings.Contains(buf.String(), "attachment mismatch: depth") {
		t.Fatalf("log output missing message: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "ERROR") {
		t.Fatalf("log output missing level tag: %q", buf.String())
	}
}

func TestSetOutputNilDisablesLogging(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(log.New(&buf, "", 0))
	SetOutput(nil)
	defer SetOutput(log.New(&buf, "", 0))

	Errorf("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output after disabling, got %q", buf.String())
	}
}

func TestLongRecordIsTruncated(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(log.New(&buf, "", 0))
	defer SetOutput(log.New(bufDiscard{}, "", 0))

	long := strings.Repeat("x", maxRecordBytes*2)
	Errorf("%s", long)

	if len(buf.String()) > maxRecordBytes+len("[ERROR] \n") {
		t.Fatalf("record not truncated: %d bytes", buf.Len())
	}
}

type bufDiscard struct{}

func (bufDiscard) Write(p []byte) (int, error) { return len(p), nil }
