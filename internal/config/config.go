// Package config loads gopraise settings from a TOML file, an optional .env
// file and GOPRAISE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "prefs.db"
	appDirName            = "gopraise"
	envPrefix             = "GOPRAISE_"
)

// Preference store backends.
const (
	PrefsSQLite = "sqlite"
	PrefsFyne   = "fyne"
)

type API struct {
	BaseURL string `toml:"base_url"`
}

type Catalog struct {
	Directories  []string `toml:"directories"`
	ChorusSuffix string   `toml:"chorus_suffix"`
}

type Prefs struct {
	Backend string `toml:"backend"`
	DBPath  string `toml:"db_path"`
}

type Server struct {
	ListenAddr string `toml:"listen_addr"`
	RootDir    string `toml:"root_dir"`
	ListDir    string `toml:"list_dir"`
	ListLimit  int    `toml:"list_limit"`
	CacheTTL   int    `toml:"cache_ttl_seconds"`
}

type Minio struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	UseSSL    bool   `toml:"use_ssl"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ListingTTL returns the listing cache lifetime.
func (s Server) ListingTTL() time.Duration {
	return time.Duration(s.CacheTTL) * time.Second
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type Config struct {
	API     API     `toml:"api"`
	Catalog Catalog `toml:"catalog"`
	Prefs   Prefs   `toml:"prefs"`
	Server  Server  `toml:"server"`
	Minio   Minio   `toml:"minio"`
	Redis   Redis   `toml:"redis"`
	Log     Log     `toml:"log"`
}

// Dir returns the directory holding the config file and the preference database.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, appDirName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), DefaultConfigFileName)
}

// Load reads .env from the working directory (if present), then the config
// file at path (creating it with defaults on first run), then applies
// GOPRAISE_* overrides.
func Load(path string) (Config, error) {
	// godotenv never overrides variables that are already set.
	_ = godotenv.Load()

	cfg, err := LoadOrCreate(path)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadOrCreate reads the config file at path, writing the defaults there if
// it does not exist.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Catalog.Directories) == 0 {
		cfg.Catalog.Directories = Default().Catalog.Directories
	}
	if cfg.Prefs.DBPath == "" {
		cfg.Prefs.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		API: API{BaseURL: "http://localhost:8787"},
		Catalog: Catalog{
			Directories:  []string{"praise/附录/"},
			ChorusSuffix: "-合",
		},
		Prefs: Prefs{
			Backend: PrefsSQLite,
			DBPath:  filepath.Join(Dir(), DefaultDBName),
		},
		Server: Server{
			ListenAddr: ":8787",
			ListDir:    "praise/附录/",
			ListLimit:  1000,
			CacheTTL:   300,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.API.BaseURL = getEnv("API_BASE", cfg.API.BaseURL)
	if dirs := getEnv("DIRECTORIES", ""); dirs != "" {
		cfg.Catalog.Directories = strings.Split(dirs, ",")
	}
	cfg.Prefs.Backend = getEnv("PREFS_BACKEND", cfg.Prefs.Backend)
	cfg.Prefs.DBPath = getEnv("PREFS_DB", cfg.Prefs.DBPath)

	cfg.Server.ListenAddr = getEnv("LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.Server.RootDir = getEnv("ROOT_DIR", cfg.Server.RootDir)

	cfg.Minio.Endpoint = getEnv("MINIO_ENDPOINT", cfg.Minio.Endpoint)
	cfg.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", cfg.Minio.AccessKey)
	cfg.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", cfg.Minio.SecretKey)
	cfg.Minio.Bucket = getEnv("MINIO_BUCKET", cfg.Minio.Bucket)
	cfg.Minio.Region = getEnv("MINIO_REGION", cfg.Minio.Region)
	cfg.Minio.UseSSL = getEnvBool("MINIO_USE_SSL", cfg.Minio.UseSSL)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
}

// getEnv gets GOPRAISE_<key> or returns fallback.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
