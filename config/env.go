package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBaseURL  = "http://localhost:5000/api"
	defaultPort        = "5000"
	defaultPhoneRegion = "IN"
)

func init() {
	// Load env from .env
	godotenv.Load()
}

// APIBaseURL is the root of the remote fish-sales API, without a trailing slash.
//
// Set via env:
// - FISH_API_BASE_URL (default http://localhost:5000/api)
func APIBaseURL() string {
	v := strings.TrimSpace(os.Getenv("FISH_API_BASE_URL"))
	if v == "" {
		v = defaultAPIBaseURL
	}
	return strings.TrimRight(v, "/")
}

// APITimeout is zero unless FISH_API_TIMEOUT_SECONDS is set; the client then
// waits on a hung request indefinitely.
func APITimeout() time.Duration {
	return time.Duration(intFromEnv("FISH_API_TIMEOUT_SECONDS", 0)) * time.Second
}

// ServerPort prefers API_PORT, then the platform PORT.
func ServerPort() string {
	if port := strings.TrimSpace(os.Getenv("API_PORT")); port != "" {
		return port
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return port
	}
	return defaultPort
}

func PhoneRegion() string {
	v := strings.ToUpper(strings.TrimSpace(os.Getenv("PHONE_REGION")))
	if v == "" {
		return defaultPhoneRegion
	}
	return v
}

// ExportBucket names the GCS bucket exported workbooks are copied to. Empty disables upload.
func ExportBucket() string {
	return strings.TrimSpace(os.Getenv("EXPORT_GCS_BUCKET"))
}

func IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}

// CORSAllowedOrigins returns the comma-separated CORS_ALLOWED_ORIGINS list.
func CORSAllowedOrigins() []string {
	return splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS"))
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
