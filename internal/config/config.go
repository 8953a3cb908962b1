// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Search backends for web and news queries.
const (
	SearchBackendSerpAPI      = "serpapi"
	SearchBackendCustomSearch = "customsearch"
)

// LLM providers for resume extraction and report generation.
const (
	LLMProviderNvidia = "nvidia"
	LLMProviderGemini = "gemini"
)

// Settings represents the service configuration, loaded from environment
// variables (a .env file is read by the CLI before Load is called).
type Settings struct {
	// LinkedIn profile fetching
	LinkedInProvider string // serpapi | browser | proxycurl | rapidapi
	LinkedInEmail    string
	LinkedInPassword string
	BrowserHeadless  bool

	// Search
	SearchBackend string // serpapi | customsearch
	SerpAPIKey    string
	GoogleCSEID   string
	GoogleCSEKey  string

	// Third-party profile APIs
	ProxycurlAPIKey string
	RapidAPIKey     string
	RapidAPIHost    string

	// LLM analysis
	LLMProvider   string // nvidia | gemini
	NvidiaAPIKey  string
	NvidiaBaseURL string
	NvidiaModel   string
	GeminiAPIKey  string
	GeminiModel   string

	// Supporting services
	ImgBBAPIKey string
	GitHubToken string
	DatabaseURL string
	JWTSecret   string

	// Server and pipeline behavior
	Port                  int
	MaxConcurrency        int
	RequestTimeoutSeconds int
	SocialRetryThreshold  int
}

// Load reads settings from the environment, applying defaults for everything
// optional. It does not validate; call Validate before using the settings.
func Load() *Settings {
	return &Settings{
		LinkedInProvider: getEnv("LINKEDIN_PROVIDER", "browser"),
		LinkedInEmail:    os.Getenv("LINKEDIN_EMAIL"),
		LinkedInPassword: os.Getenv("LINKEDIN_PASSWORD"),
		BrowserHeadless:  getEnvBool("BROWSER_HEADLESS", true),

		SearchBackend: getEnv("SEARCH_BACKEND", SearchBackendSerpAPI),
		SerpAPIKey:    os.Getenv("SERPAPI_API_KEY"),
		GoogleCSEID:   os.Getenv("GOOGLE_CSE_ID"),
		GoogleCSEKey:  os.Getenv("GOOGLE_CSE_API_KEY"),

		ProxycurlAPIKey: os.Getenv("PROXYCURL_API_KEY"),
		RapidAPIKey:     os.Getenv("RAPIDAPI_KEY"),
		RapidAPIHost:    getEnv("RAPIDAPI_HOST", "fresh-linkedin-profile-data.p.rapidapi.com"),

		LLMProvider:   getEnv("LLM_PROVIDER", LLMProviderNvidia),
		NvidiaAPIKey:  os.Getenv("NVIDIA_API_KEY"),
		NvidiaBaseURL: getEnv("NVIDIA_BASE_URL", "https://integrate.api.nvidia.com/v1"),
		NvidiaModel:   getEnv("NVIDIA_MODEL", "meta/llama-3.1-70b-instruct"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		ImgBBAPIKey: os.Getenv("IMGBB_API_KEY"),
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		Port:                  getEnvInt("PORT", 8080),
		MaxConcurrency:        getEnvInt("MAX_CONCURRENCY", 5),
		RequestTimeoutSeconds: getEnvInt("REQUEST_TIMEOUT", 30),
		SocialRetryThreshold:  getEnvInt("SOCIAL_RETRY_THRESHOLD", 2),
	}
}

// Validate checks that the settings are internally consistent.
func (s *Settings) Validate() error {
	switch s.LinkedInProvider {
	case "serpapi", "browser", "proxycurl", "rapidapi":
	default:
		return fmt.Errorf("config error: unknown LINKEDIN_PROVIDER %q", s.LinkedInProvider)
	}

	switch s.SearchBackend {
	case SearchBackendSerpAPI, SearchBackendCustomSearch:
	default:
		return fmt.Errorf("config error: unknown SEARCH_BACKEND %q", s.SearchBackend)
	}
	if s.SearchBackend == SearchBackendCustomSearch && (s.GoogleCSEID == "" || s.GoogleCSEKey == "") {
		return fmt.Errorf("config error: SEARCH_BACKEND=customsearch requires GOOGLE_CSE_ID and GOOGLE_CSE_API_KEY")
	}

	switch s.LLMProvider {
	case LLMProviderNvidia, LLMProviderGemini:
	default:
		return fmt.Errorf("config error: unknown LLM_PROVIDER %q", s.LLMProvider)
	}

	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("config error: PORT must be in 1-65535, got %d", s.Port)
	}
	if s.MaxConcurrency < 1 {
		return fmt.Errorf("config error: MAX_CONCURRENCY must be at least 1, got %d", s.MaxConcurrency)
	}
	if s.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("config error: REQUEST_TIMEOUT must be at least 1 second, got %d", s.RequestTimeoutSeconds)
	}
	if s.SocialRetryThreshold < 0 {
		return fmt.Errorf("config error: SOCIAL_RETRY_THRESHOLD must be non-negative, got %d", s.SocialRetryThreshold)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
