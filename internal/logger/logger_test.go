//go:build unit

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"go-store-builder/internal/config"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	t.Run("console format", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.LogConfig{Level: "info", Format: "console"}
		log := New(cfg, &buf)

		log.Info("store provisioned")

		output := buf.String()
		if !strings.Contains(output, "store provisioned") {
			t.Errorf("expected log output to contain 'store provisioned', but got '%s'", output)
		}
		if strings.Contains(output, "{") {
			t.Errorf("expected console format, but got json-like output: %s", output)
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.LogConfig{Level: "error", Format: "json"}
		log := New(cfg, &buf)

		log.Error(errors.New("tx aborted"), "batch update failed")

		var logEntry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
			t.Fatalf("failed to unmarshal log output as json: %v\noutput: %s", err, buf.String())
		}
		if logEntry["level"] != "error" {
			t.Errorf("expected log level 'error', got '%v'", logEntry["level"])
		}
		if logEntry["message"] != "batch update failed" {
			t.Errorf("expected message 'batch update failed', got '%v'", logEntry["message"])
		}
		if logEntry["error"] != "tx aborted" {
			t.Errorf("expected error 'tx aborted', got '%v'", logEntry["error"])
		}
	})

	t.Run("with fields", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.LogConfig{Level: "info", Format: "json"}, &buf).With(map[string]interface{}{"store_id": 7})

		log.Info("page updated")

		var logEntry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
			t.Fatalf("failed to unmarshal log output as json: %v", err)
		}
		if logEntry["store_id"] != float64(7) {
			t.Errorf("expected store_id 7, got %v", logEntry["store_id"])
		}
	})

	t.Run("log level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.LogConfig{Level: "warn", Format: "console"}
		log := New(cfg, &buf)

		log.Info("this should be ignored")
		log.Warn("this should appear")

		output := buf.String()
		if strings.Contains(output, "this should be ignored") {
			t.Error("info level log should have been ignored")
		}
		if !strings.Contains(output, "this should appear") {
			t.Error("warn level log should have appeared")
		}
	})
}
