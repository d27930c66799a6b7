package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/petface/internal/constants"
)

type Config struct {
	Web      WebConfig
	Detector DetectorConfig
	Log      LogConfig
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // extra CORS origins; localhost is always allowed
	BreedImageDir  string   // directory served under /static/ (optional)
	MaxUploadSize  int64    // bytes
	RateLimitRPS   float64  // per client IP; 0 disables rate limiting
	RateLimitBurst int
	TrustProxy     bool // take the client IP from X-Forwarded-For / X-Real-IP
}

type DetectorConfig struct {
	URL          string        // http(s):// for multipart, ws(s):// for WebSocket
	Timeout      time.Duration // per detection call
	Concurrency  int           // maximum in-flight detection calls
	MaxImageSize int           // longest side in pixels before upload
}

// Transport names the wire protocol selected by the detector URL scheme.
func (c DetectorConfig) Transport() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "http"
	}
	switch u.Scheme {
	case "ws", "wss":
		return "websocket"
	default:
		return "http"
	}
}

type LogConfig struct {
	Level  string // logrus level name
	Format string // text or json
	File   string // optional rotated log file
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads a non-negative float. Zero is a valid value.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}

// envDuration accepts Go duration strings ("45s") or a bare number of seconds.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

// envBool accepts the strconv.ParseBool spellings ("1", "true", "false", ...).
func envBool(key string, defaultVal bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return b
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		return s
	}
	return defaultVal
}

func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	return &Config{
		Web: WebConfig{
			Host:           envString("WEB_HOST", constants.DefaultHost),
			Port:           envInt("WEB_PORT", constants.DefaultPort),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
			BreedImageDir:  os.Getenv("BREED_IMAGE_DIR"),
			MaxUploadSize:  int64(envInt("MAX_UPLOAD_SIZE", constants.MaxUploadSize)),
			RateLimitRPS:   envFloat("RATE_LIMIT_RPS", constants.DefaultRateLimitRPS),
			RateLimitBurst: envInt("RATE_LIMIT_BURST", constants.DefaultRateLimitBurst),
			TrustProxy:     envBool("TRUST_PROXY", false),
		},
		Detector: DetectorConfig{
			URL:          strings.TrimSuffix(envString("DETECTOR_URL", constants.DefaultDetectorURL), "/"),
			Timeout:      envDuration("DETECTOR_TIMEOUT", constants.DefaultDetectorTimeout),
			Concurrency:  envInt("DETECTOR_CONCURRENCY", constants.DefaultDetectorConcurrency),
			MaxImageSize: envInt("DETECTOR_MAX_IMAGE_SIZE", constants.MaxImageSize),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: strings.ToLower(envString("LOG_FORMAT", "text")),
			File:   os.Getenv("LOG_FILE"),
		},
	}
}
