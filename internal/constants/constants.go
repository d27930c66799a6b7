// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Web server constants
const (
	// DefaultHost is the default listen address
	DefaultHost = "0.0.0.0"

	// DefaultPort is the default listen port
	DefaultPort = 8080

	// ShutdownTimeout bounds graceful shutdown of the HTTP server
	ShutdownTimeout = 30 * time.Second

	// RequestTimeout is the chi Timeout middleware budget for a whole request
	RequestTimeout = 60 * time.Second
)

// File upload constants
const (
	// MaxUploadSize is the maximum file upload size in bytes (10MB)
	MaxUploadSize = 10 << 20
)

// Rate limiting constants
const (
	// DefaultRateLimitRPS is the default sustained request rate per client IP
	DefaultRateLimitRPS = 5.0

	// DefaultRateLimitBurst is the default burst size per client IP
	DefaultRateLimitBurst = 10
)

// Detector constants
const (
	// DefaultDetectorURL is where the landmark detector listens by default
	DefaultDetectorURL = "http://localhost:8000"

	// DefaultDetectorTimeout bounds a single detection call
	DefaultDetectorTimeout = 30 * time.Second

	// DefaultDetectorConcurrency is the default number of in-flight detection calls
	DefaultDetectorConcurrency = 1

	// MaxImageSize is the maximum dimension (width or height) sent to the detector
	MaxImageSize = 1280

	// MaxImagePixels caps the declared width*height of an upload before it is decoded
	MaxImagePixels = 40_000_000
)

// Matching constants
const (
	// DefaultTopN is the default number of breed matches returned
	DefaultTopN = 3

	// MaxTopN is the largest number of matches a request may ask for
	MaxTopN = 20

	// MaxLandmarks is the largest landmark list accepted by the landmarks endpoint
	MaxLandmarks = 1000
)
