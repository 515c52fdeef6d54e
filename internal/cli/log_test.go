package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/DocPhoto/internal/model"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("logger output = %q", buf.String())
	}

	buf.Reset()
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug logged at info level: %q", buf.String())
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogDebug)

	c.Logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("debug message not logged after SetLogLevel")
	}
}

func TestLogFile(t *testing.T) {
	if lj := logFile(model.LogConfig{}); lj != nil {
		t.Error("expected no log file when File is empty")
	}

	lj := logFile(model.LogConfig{File: "docphoto.log", MaxSizeMB: 5, MaxBackups: 2, MaxAgeDays: 7})
	if lj == nil {
		t.Fatal("expected a log file")
	}
	if lj.Filename != "docphoto.log" || lj.MaxSize != 5 || lj.MaxBackups != 2 || lj.MaxAge != 7 || !lj.Compress {
		t.Errorf("logFile() = %+v", lj)
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Wrote sheet")

	out := buf.String()
	if !strings.Contains(out, "Wrote sheet (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q", out)
	}
}
