package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/kozaktomas/petface/internal/constants"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"WEB_HOST", "WEB_PORT", "WEB_ALLOWED_ORIGINS", "BREED_IMAGE_DIR", "MAX_UPLOAD_SIZE",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "TRUST_PROXY", "DETECTOR_URL", "DETECTOR_TIMEOUT",
		"DETECTOR_CONCURRENCY", "DETECTOR_MAX_IMAGE_SIZE", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Web.Host != "0.0.0.0" || cfg.Web.Port != 8080 {
		t.Errorf("web address = %s:%d, want 0.0.0.0:8080", cfg.Web.Host, cfg.Web.Port)
	}
	if cfg.Web.MaxUploadSize != 10<<20 {
		t.Errorf("MaxUploadSize = %d, want %d", cfg.Web.MaxUploadSize, 10<<20)
	}
	if cfg.Web.RateLimitRPS != 5 || cfg.Web.RateLimitBurst != 10 {
		t.Errorf("rate limit = %v/%d, want 5/10", cfg.Web.RateLimitRPS, cfg.Web.RateLimitBurst)
	}
	if cfg.Web.TrustProxy {
		t.Error("TrustProxy should default to false")
	}
	if cfg.Web.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v, want nil", cfg.Web.AllowedOrigins)
	}
	if cfg.Detector.URL != constants.DefaultDetectorURL {
		t.Errorf("Detector.URL = %q", cfg.Detector.URL)
	}
	if cfg.Detector.Timeout != 30*time.Second {
		t.Errorf("Detector.Timeout = %v, want 30s", cfg.Detector.Timeout)
	}
	if cfg.Detector.Concurrency != 1 {
		t.Errorf("Detector.Concurrency = %d, want 1", cfg.Detector.Concurrency)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" || cfg.Log.File != "" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("WEB_ALLOWED_ORIGINS", " https://a.example.com , ,https://b.example.com")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("DETECTOR_URL", "ws://detector:9000/")
	t.Setenv("DETECTOR_TIMEOUT", "5")
	t.Setenv("DETECTOR_CONCURRENCY", "4")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg := Load()

	if cfg.Web.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Web.Port)
	}
	wantOrigins := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.Web.AllowedOrigins, wantOrigins) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.Web.AllowedOrigins, wantOrigins)
	}
	if cfg.Web.RateLimitRPS != 0 {
		t.Errorf("RateLimitRPS = %v, want 0", cfg.Web.RateLimitRPS)
	}
	if !cfg.Web.TrustProxy {
		t.Error("TrustProxy = false, want true")
	}
	if cfg.Detector.URL != "ws://detector:9000" {
		t.Errorf("Detector.URL = %q", cfg.Detector.URL)
	}
	if cfg.Detector.Timeout != 5*time.Second {
		t.Errorf("Detector.Timeout = %v, want 5s", cfg.Detector.Timeout)
	}
	if cfg.Detector.Concurrency != 4 {
		t.Errorf("Detector.Concurrency = %d, want 4", cfg.Detector.Concurrency)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestEnvHelpers_InvalidFallBack(t *testing.T) {
	t.Setenv("TEST_INT", "-3")
	t.Setenv("TEST_FLOAT", "abc")
	t.Setenv("TEST_DURATION", "soon")
	t.Setenv("TEST_BOOL", "maybe")

	if got := envInt("TEST_INT", 7); got != 7 {
		t.Errorf("envInt() = %d, want 7", got)
	}
	if got := envFloat("TEST_FLOAT", 1.5); got != 1.5 {
		t.Errorf("envFloat() = %v, want 1.5", got)
	}
	if got := envDuration("TEST_DURATION", time.Minute); got != time.Minute {
		t.Errorf("envDuration() = %v, want 1m", got)
	}
	if got := envBool("TEST_BOOL", true); !got {
		t.Errorf("envBool() = %v, want true", got)
	}
}

func TestDetectorTransport(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://localhost:8000", "http"},
		{"https://detector.example.com", "http"},
		{"ws://localhost:8000/ws", "websocket"},
		{"wss://detector.example.com/ws", "websocket"},
		{"", "http"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := (DetectorConfig{URL: tt.url}).Transport(); got != tt.want {
				t.Errorf("Transport() = %q, want %q", got, tt.want)
			}
		})
	}
}
