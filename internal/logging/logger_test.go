package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"frameline/internal/config"
)

func TestFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&Formatter{SystemName: "frameline"})
	logger.WithFields(logrus.Fields{"project_id": "p1", "actor_id": "ana"}).Warn("schedule conflict")

	line := buf.String()
	for _, want := range []string{
		"Event Source: frameline",
		"Event Type: WARNING",
		"Event ID: ",
		"Message: schedule conflict",
		", actor_id=ana, project_id=p1",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("log line not newline terminated: %q", line)
	}
}

func TestFormatterDate(t *testing.T) {
	f := &Formatter{SystemName: "x"}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "hello",
	}
	out, err := f.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "Date: 2024-03-09, Time: 14:05:06, ") {
		t.Fatalf("unexpected prefix: %q", out)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "frameline.log")
	logger, err := New(config.Logging{Level: "debug", File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("written")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "Message: written") {
		t.Fatalf("log file content %q", data)
	}
}

func TestNewRejectsLevel(t *testing.T) {
	if _, err := New(config.Logging{Level: "chatty"}); err == nil {
		t.Fatalf("expected level error")
	}
}
