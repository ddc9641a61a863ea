package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/tartil/internal/playback"
)

type Config struct {
	// Quran content API (public api.quran.com when no credentials are set)
	Quran QuranConfig `koanf:"quran"`

	// Repeat policy tuning
	Playback PlaybackConfig `koanf:"playback"`

	// Speech-to-text providers for recitation scoring
	STT STTConfig `koanf:"stt"`

	Server ServerConfig `koanf:"server"`
	Cache  CacheConfig  `koanf:"cache"`
	Log    LogConfig    `koanf:"log"`

	// Path of the SQLite database (default: xdg data dir)
	DBPath string `koanf:"db_path"`
}

// QuranConfig holds Quran Foundation API settings.
type QuranConfig struct {
	ClientID      string `koanf:"client_id"`
	ClientSecret  string `koanf:"client_secret"`
	TokenURL      string `koanf:"token_url"`      // OAuth2 client-credentials endpoint
	BaseURL       string `koanf:"base_url"`       // content API root, without trailing slash
	Language      string `koanf:"language"`       // e.g., "en"
	TranslationID int    `koanf:"translation_id"` // e.g., 131 (Clear Quran)
	Reciter       int    `koanf:"reciter"`        // default recitation id
	TranslitURL   string `koanf:"translit_url"`   // quran-json dataset root
	TimeoutSec    int    `koanf:"timeout_sec"`
}

// PlaybackConfig holds repeat policy constants. Zero values use defaults.
type PlaybackConfig struct {
	Epsilon         float64 `koanf:"epsilon"`          // seconds added to every seek target
	EndTolerance    float64 `koanf:"end_tolerance"`    // seconds before range end that trigger a loop
	ResumeTolerance float64 `koanf:"resume_tolerance"` // seconds before range start tolerated on resume
	LoopDebounceMS  int     `koanf:"loop_debounce_ms"`
	TickMS          int     `koanf:"tick_ms"` // progress tick of the terminal player (default: 250)
}

// STTConfig holds speech-to-text provider settings.
type STTConfig struct {
	Providers      []string `koanf:"providers"` // order of preference: "assemblyai", "google"
	AssemblyAIKey  string   `koanf:"assemblyai_key"`
	AssemblyAIURL  string   `koanf:"assemblyai_url"`
	GoogleKey      string   `koanf:"google_key"`
	GoogleURL      string   `koanf:"google_url"`
	Language       string   `koanf:"language"` // default: "ar"
	PollIntervalMS int      `koanf:"poll_interval_ms"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `koanf:"addr"` // default: ":8080"
}

// CacheConfig holds upstream response cache TTLs.
type CacheConfig struct {
	ChaptersTTLHours  int   `koanf:"chapters_ttl_hours"`
	VersesTTLHours    int   `koanf:"verses_ttl_hours"`
	SearchTTLMinutes  int   `koanf:"search_ttl_minutes"`
	ReciterTTLHours   int   `koanf:"reciter_ttl_hours"`
	TranslitTTLHours  int   `koanf:"translit_ttl_hours"`
	AudioCacheEnabled *bool `koanf:"audio_cache"` // keep downloaded recitations (default: true)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
	Format string `koanf:"format"` // "text" or "json"
	File   string `koanf:"file"`   // TUI log file (default: xdg state dir)
}

func Load() (*Config, error) {
	return loadFrom(getConfigPaths())
}

func loadFrom(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Last wins
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Quran.BaseURL = strings.TrimSuffix(cfg.Quran.BaseURL, "/")
	cfg.Quran.TranslitURL = strings.TrimSuffix(cfg.Quran.TranslitURL, "/")
	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tartil/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tartil", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasQuranCredentials returns true if the authenticated content API is configured.
func (c *Config) HasQuranCredentials() bool {
	return c.Quran.ClientID != "" && c.Quran.ClientSecret != ""
}

const (
	publicQuranURL  = "https://api.quran.com/api/v4"
	defaultTokenURL = "https://oauth2.quran.foundation/oauth2/token"
	translitURL     = "https://cdn.jsdelivr.net/npm/quran-json@3.1.2/dist/chapters/en"
)

// GetQuranConfig returns the Quran API configuration with defaults applied.
func (c *Config) GetQuranConfig() QuranConfig {
	cfg := c.Quran

	if cfg.BaseURL == "" {
		cfg.BaseURL = publicQuranURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.TranslationID <= 0 {
		cfg.TranslationID = 131
	}
	if cfg.Reciter <= 0 {
		cfg.Reciter = 7
	}
	if cfg.TranslitURL == "" {
		cfg.TranslitURL = translitURL
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 15
	}

	return cfg
}

// Timeout returns the HTTP timeout for content requests.
func (q QuranConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSec) * time.Second
}

// Tuning converts the playback section into repeat policy constants.
// Zero fields fall back to the playback package defaults.
func (c *Config) Tuning() playback.Tuning {
	p := c.Playback
	return playback.Tuning{
		Epsilon:         p.Epsilon,
		EndTolerance:    p.EndTolerance,
		ResumeTolerance: p.ResumeTolerance,
		LoopDebounce:    time.Duration(p.LoopDebounceMS) * time.Millisecond,
	}
}

// TickInterval returns the terminal player's progress tick.
func (c *Config) TickInterval() time.Duration {
	if c.Playback.TickMS <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.Playback.TickMS) * time.Millisecond
}

// GetSTTConfig returns the speech-to-text configuration with defaults applied.
func (c *Config) GetSTTConfig() STTConfig {
	cfg := c.STT

	if len(cfg.Providers) == 0 {
		cfg.Providers = []string{"assemblyai", "google"}
	}
	if cfg.AssemblyAIURL == "" {
		cfg.AssemblyAIURL = "https://api.assemblyai.com"
	}
	if cfg.GoogleURL == "" {
		cfg.GoogleURL = "https://speech.googleapis.com"
	}
	if cfg.Language == "" {
		cfg.Language = "ar"
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = 1500
	}

	return cfg
}

// PollInterval returns the transcript polling interval.
func (s STTConfig) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMS) * time.Millisecond
}

// GetServerConfig returns the HTTP API configuration with defaults applied.
func (c *Config) GetServerConfig() ServerConfig {
	cfg := c.Server
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg
}

// GetCacheConfig returns cache TTLs with defaults applied.
func (c *Config) GetCacheConfig() CacheConfig {
	cfg := c.Cache

	if cfg.ChaptersTTLHours <= 0 {
		cfg.ChaptersTTLHours = 24 * 7
	}
	if cfg.VersesTTLHours <= 0 {
		cfg.VersesTTLHours = 24
	}
	if cfg.SearchTTLMinutes <= 0 {
		cfg.SearchTTLMinutes = 30
	}
	if cfg.ReciterTTLHours <= 0 {
		cfg.ReciterTTLHours = 24
	}
	if cfg.TranslitTTLHours <= 0 {
		cfg.TranslitTTLHours = 24 * 30
	}
	if cfg.AudioCacheEnabled == nil {
		enabled := true
		cfg.AudioCacheEnabled = &enabled
	}

	return cfg
}

func hours(n int) time.Duration { return time.Duration(n) * time.Hour }

// ChaptersTTL returns how long chapter metadata stays cached.
func (c CacheConfig) ChaptersTTL() time.Duration { return hours(c.ChaptersTTLHours) }

// VersesTTL returns how long verse pages stay cached.
func (c CacheConfig) VersesTTL() time.Duration { return hours(c.VersesTTLHours) }

// SearchTTL returns how long search results stay cached.
func (c CacheConfig) SearchTTL() time.Duration {
	return time.Duration(c.SearchTTLMinutes) * time.Minute
}

// ReciterTTL returns how long reciter and recitation data stay cached.
func (c CacheConfig) ReciterTTL() time.Duration { return hours(c.ReciterTTLHours) }

// TranslitTTL returns how long community transliterations stay cached.
func (c CacheConfig) TranslitTTL() time.Duration { return hours(c.TranslitTTLHours) }

// GetLogConfig returns logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	return cfg
}
