package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds all externally supplied configuration. It is loaded once at
// boot and passed by value into the components that need it; nothing mutates
// it afterwards. Secrets never have code defaults.
type AppConfig struct {
	AppPort string
	GinMode string
	GinPath string

	JWTSecret        string
	JWTExpireMinutes int
	AgentToken       string

	DemoMode bool
	SeedDemo bool

	DBDriver    string // "sqlite" or "mysql"
	SQLitePath  string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	AllowedOrigins     []string
	RateLimitPerMinute int

	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	ElevenLabsAPIKey string
	ElevenLabsVoice  string
	ElevenLabsModel  string
}

var (
	cfg    AppConfig
	loaded bool
)

// Load reads configuration once: config/config.json first, then defaults for
// zero values, then environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Fatalf("invalid config/config.json: %v", err)
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in config or environment")
	}
	if cfg.AgentToken == "" {
		// Agent gate fails closed when unset; tool endpoints stay unusable.
		log.Println("warning: AGENT_TOKEN not set, /tools endpoints will reject all calls")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// loadJSONConfig reads the grouped JSON file into out if present. A missing
// file is not an error.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	section := func(key string, dst any) error {
		if msg, ok := raw[key]; ok {
			return json.Unmarshal(msg, dst)
		}
		return nil
	}

	var app struct {
		AppPort            string   `json:"AppPort"`
		GinMode            string   `json:"GinMode"`
		GinPath            string   `json:"GinPath"`
		JWTSecret          string   `json:"JWTSecret"`
		JWTExpireMinutes   int      `json:"JWTExpireMinutes"`
		AgentToken         string   `json:"AgentToken"`
		DemoMode           *bool    `json:"DemoMode"`
		SeedDemo           *bool    `json:"SeedDemo"`
		AllowedOrigins     []string `json:"AllowedOrigins"`
		RateLimitPerMinute int      `json:"RateLimitPerMinute"`
	}
	if err := section("app", &app); err != nil {
		return err
	}
	out.AppPort = app.AppPort
	out.GinMode = app.GinMode
	out.GinPath = app.GinPath
	out.JWTSecret = app.JWTSecret
	out.JWTExpireMinutes = app.JWTExpireMinutes
	out.AgentToken = app.AgentToken
	if app.DemoMode != nil {
		out.DemoMode = *app.DemoMode
	}
	if app.SeedDemo != nil {
		out.SeedDemo = *app.SeedDemo
	}
	out.AllowedOrigins = app.AllowedOrigins
	out.RateLimitPerMinute = app.RateLimitPerMinute

	var db struct {
		Driver      string `json:"Driver"`
		SQLitePath  string `json:"SQLitePath"`
		DatabaseURI string `json:"DatabaseURI"`
		DBHost      string `json:"DBHost"`
		DBPort      string `json:"DBPort"`
		DBUser      string `json:"DBUser"`
		DBPassword  string `json:"DBPassword"`
		DBName      string `json:"DBName"`
	}
	if err := section("database", &db); err != nil {
		return err
	}
	out.DBDriver = db.Driver
	out.SQLitePath = db.SQLitePath
	out.DatabaseURI = db.DatabaseURI
	out.DBHost = db.DBHost
	out.DBPort = db.DBPort
	out.DBUser = db.DBUser
	out.DBPassword = db.DBPassword
	out.DBName = db.DBName

	var rds struct {
		RedisHost     string `json:"RedisHost"`
		RedisPort     int    `json:"RedisPort"`
		RedisDB       int    `json:"RedisDB"`
		RedisPassword string `json:"RedisPassword"`
	}
	if err := section("redis", &rds); err != nil {
		return err
	}
	out.RedisHost = rds.RedisHost
	out.RedisPort = rds.RedisPort
	out.RedisDB = rds.RedisDB
	out.RedisPassword = rds.RedisPassword

	var lg struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   bool   `json:"Compress"`
	}
	if err := section("log", &lg); err != nil {
		return err
	}
	out.LogLevel = lg.Level
	out.LogPath = lg.Path
	out.LogMaxSizeMB = lg.MaxSizeMB
	out.LogMaxBackups = lg.MaxBackups
	out.LogMaxAgeDays = lg.MaxAgeDays
	out.LogCompress = lg.Compress

	var voice struct {
		APIKey  string `json:"APIKey"`
		VoiceID string `json:"VoiceID"`
		Model   string `json:"Model"`
	}
	if err := section("voice", &voice); err != nil {
		return err
	}
	out.ElevenLabsAPIKey = voice.APIKey
	out.ElevenLabsVoice = voice.VoiceID
	out.ElevenLabsModel = voice.Model

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8000"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.JWTExpireMinutes == 0 {
		c.JWTExpireMinutes = 30
	}
	if c.DBDriver == "" {
		c.DBDriver = "sqlite"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "fitness_coach.db"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "fitness_coach"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.ElevenLabsVoice == "" {
		c.ElevenLabsVoice = "21m00Tcm4TlvDq8ikWAM"
	}
	if c.ElevenLabsModel == "" {
		c.ElevenLabsModel = "eleven_multilingual_v2"
	}
}

// applyEnvOverrides maps known environment variables onto config values.
func applyEnvOverrides(c *AppConfig) {
	setStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Fatalf("invalid integer value for %s: %v", key, err)
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			*dst = v == "true" || v == "1"
		}
	}

	setStr("APP_PORT", &c.AppPort)
	setStr("GIN_MODE", &c.GinMode)
	setStr("GIN_PATH", &c.GinPath)
	setStr("JWT_SECRET", &c.JWTSecret)
	setInt("JWT_EXPIRE_MINUTES", &c.JWTExpireMinutes)
	setStr("AGENT_TOKEN", &c.AgentToken)
	setBool("DEMO_MODE", &c.DemoMode)
	setBool("SEED_DEMO", &c.SeedDemo)
	setStr("DB_DRIVER", &c.DBDriver)
	setStr("SQLITE_PATH", &c.SQLitePath)
	setStr("DATABASE_URI", &c.DatabaseURI)
	setStr("DB_HOST", &c.DBHost)
	setStr("DB_PORT", &c.DBPort)
	setStr("DB_USER", &c.DBUser)
	setStr("DB_PASSWORD", &c.DBPassword)
	setStr("DB_NAME", &c.DBName)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	setInt("RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute)
	setStr("REDIS_HOST", &c.RedisHost)
	setInt("REDIS_PORT", &c.RedisPort)
	setInt("REDIS_DB", &c.RedisDB)
	setStr("REDIS_PASSWORD", &c.RedisPassword)
	setStr("LOG_LEVEL", &c.LogLevel)
	setStr("LOG_PATH", &c.LogPath)
	setInt("LOG_MAX_SIZE_MB", &c.LogMaxSizeMB)
	setInt("LOG_MAX_BACKUPS", &c.LogMaxBackups)
	setInt("LOG_MAX_AGE_DAYS", &c.LogMaxAgeDays)
	setBool("LOG_COMPRESS", &c.LogCompress)
	setStr("ELEVENLABS_API_KEY", &c.ElevenLabsAPIKey)
	setStr("ELEVENLABS_VOICE_ID", &c.ElevenLabsVoice)
	setStr("ELEVENLABS_MODEL", &c.ElevenLabsModel)
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
