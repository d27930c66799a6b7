package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/kozaktomas/petface/internal/analysis"
	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/config"
	"github.com/kozaktomas/petface/internal/constants"
	"github.com/kozaktomas/petface/internal/detector/mock"
)

func testConfig() *config.Config {
	return &config.Config{
		Web: config.WebConfig{
			Host:           "127.0.0.1",
			Port:           0,
			MaxUploadSize:  constants.MaxUploadSize,
			RateLimitRPS:   100,
			RateLimitBurst: 100,
		},
		Detector: config.DetectorConfig{URL: "http://localhost:8000"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	registry, err := catalog.LoadRegistry()
	if err != nil {
		t.Fatalf("failed to load catalogs: %v", err)
	}
	log, _ := test.NewNullLogger()
	svc := analysis.NewService(mock.NewDetector(mock.Landmarks(mock.Typical)), registry, log)
	return NewServer(cfg, svc, log)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			img.Set(x, y, color.RGBA{R: 30, G: 60, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "me.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.RemoteAddr = "192.0.2.10:5555"
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestNewServer_Addr(t *testing.T) {
	cfg := testConfig()
	cfg.Web.Host = "0.0.0.0"
	cfg.Web.Port = 9090
	s := newTestServer(t, cfg)

	if s.Addr() != "0.0.0.0:9090" {
		t.Errorf("Addr() = %q, want %q", s.Addr(), "0.0.0.0:9090")
	}
	if s.Router() == nil {
		t.Error("expected router")
	}
}

func TestRoutes_GetEndpoints(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		path   string
		status int
	}{
		{"/api/v1/health", http.StatusOK},
		{"/api/v1/config", http.StatusOK},
		{"/api/v1/breeds", http.StatusOK},
		{"/api/v1/breeds?pet_type=cat", http.StatusOK},
		{"/api/v1/breeds/dog/Beagle", http.StatusOK},
		{"/api/v1/breeds/dog/Golden%20Retriever", http.StatusOK},
		{"/api/v1/breeds/cat/Beagle", http.StatusNotFound},
		{"/api/v1/breeds?pet_type=lizard", http.StatusBadRequest},
		{"/api/v1/unknown", http.StatusNotFound},
		{"/static/golden_retriever.jpg", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest("GET", tc.path, nil))
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d\nBody: %s", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestRoutes_AnalyzeAndAliases(t *testing.T) {
	s := newTestServer(t, testConfig())
	img := testPNG(t)

	for _, path := range []string{"/api/v1/analyze", "/analyze-face", "/find_similar_dog"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, path, img))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d\nBody: %s", rec.Code, http.StatusOK, rec.Body.String())
			}

			var result struct {
				Success bool `json:"success"`
				Matches []struct {
					Breed string `json:"breed"`
				} `json:"matches"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if !result.Success || len(result.Matches) != constants.DefaultTopN {
				t.Errorf("unexpected result: %+v", result)
			}
		})
	}
}

func TestRoutes_AnalyzeMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := serve(s, httptest.NewRequest("GET", "/api/v1/analyze", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestRoutes_RateLimitAppliesToAnalysisOnly(t *testing.T) {
	cfg := testConfig()
	cfg.Web.RateLimitRPS = 0.01
	cfg.Web.RateLimitBurst = 1
	s := newTestServer(t, cfg)
	img := testPNG(t)

	if rec := serve(s, uploadRequest(t, "/api/v1/analyze", img)); rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", rec.Code, http.StatusOK)
	}

	// The aliases share the client's bucket.
	rec := serve(s, uploadRequest(t, "/find_similar_dog", img))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	req := httptest.NewRequest("GET", "/api/v1/breeds", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	if rec := serve(s, req); rec.Code != http.StatusOK {
		t.Errorf("catalog request: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRoutes_RateLimitForwardedFor(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantSecond int
	}{
		{"forwarded headers ignored by default", false, http.StatusTooManyRequests},
		{"forwarded headers honored behind proxy", true, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Web.RateLimitRPS = 0.01
			cfg.Web.RateLimitBurst = 1
			cfg.Web.TrustProxy = tc.trustProxy
			s := newTestServer(t, cfg)
			img := testPNG(t)

			first := uploadRequest(t, "/api/v1/analyze", img)
			first.Header.Set("X-Forwarded-For", "198.51.100.1")
			if rec := serve(s, first); rec.Code != http.StatusOK {
				t.Fatalf("first request: status = %d, want %d", rec.Code, http.StatusOK)
			}

			second := uploadRequest(t, "/api/v1/analyze", img)
			second.Header.Set("X-Forwarded-For", "198.51.100.2")
			if rec := serve(s, second); rec.Code != tc.wantSecond {
				t.Errorf("second request: status = %d, want %d", rec.Code, tc.wantSecond)
			}
		})
	}
}

func TestRoutes_CORS(t *testing.T) {
	cfg := testConfig()
	cfg.Web.AllowedOrigins = []string{"https://pets.example.com"}
	s := newTestServer(t, cfg)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("Origin", "https://pets.example.com")
	rec := serve(s, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://pets.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}

func TestRoutes_StaticImages(t *testing.T) {
	dir := t.TempDir()
	img := testPNG(t)
	if err := os.WriteFile(filepath.Join(dir, "beagle.png"), img, 0o600); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	cfg := testConfig()
	cfg.Web.BreedImageDir = dir
	s := newTestServer(t, cfg)

	rec := serve(s, httptest.NewRequest("GET", "/static/beagle.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !bytes.Equal(rec.Body.Bytes(), img) {
		t.Error("served image differs from file")
	}

	if rec := serve(s, httptest.NewRequest("GET", "/static/missing.png", nil)); rec.Code != http.StatusNotFound {
		t.Errorf("missing file: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec := serve(s, httptest.NewRequest("GET", "/static/", nil)); rec.Code != http.StatusNotFound {
		t.Errorf("directory listing: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
