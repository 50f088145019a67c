package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"naulify_agent/internal/config"
)

func TestSetup_WritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	closer := Setup(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1})
	t.Cleanup(func() {
		closer.Close()
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	})

	logrus.WithField("vehicle_id", "v1").Info("route loaded")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "vehicle_id=v1") {
		t.Fatalf("log file = %q", data)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v", logrus.GetLevel())
	}
}

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	closer := Setup(config.LogConfig{Level: "chatty", File: filepath.Join(t.TempDir(), "app.log")})
	t.Cleanup(func() {
		closer.Close()
		logrus.SetOutput(os.Stderr)
	})
	if logrus.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v", logrus.GetLevel())
	}
}
