package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
	// RW serves every route, RO rejects mutating requests.
	Mode    string
	GinMode string
	// Proxies whose X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies []string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// Restricted role used for read paths.
	ReaderUser     string
	ReaderPassword string

	Migrate bool
}

type Throttle struct {
	JoinAttempts int
	Window       time.Duration
}

type Catalog struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	RPS     float64
}

type Session struct {
	CodeAttempts int
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	HTTP     HTTPServer
	Redis    RedisCache
	Postgres Postgres
	Throttle Throttle
	Catalog  Catalog
	Session  Session
	Log      Log
}

const logtag = "[config]"

var configPath = flag.String("config", "", "path env file")

func Load() *Config {
	if !flag.Parsed() {
		flag.Parse()
	}

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	return FromEnv()
}

// FromEnv builds the config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		HTTP:     *newHTTP(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		Throttle: *newThrottle(),
		Catalog:  *newCatalog(),
		Session:  *newSession(),
		Log:      *newLog(),
	}
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port:    getenv("HTTP_PORT", "8080"),
		Host:    getenv("HTTP_HOST", ""),
		Mode:    getenv("HTTP_MODE", "RW"),
		GinMode: getenv("GIN_MODE", "release"),

		TrustedProxies: getenvList("HTTP_TRUSTED_PROXIES"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getenvSecret("REDIS_PASSWORD", ""),
	}
}

func newPostgres() *Postgres {
	user := getenv("DB_USER", "admin")
	password := getenvSecret("DB_PASSWORD", "shared")
	return &Postgres{
		Host:           getenv("DB_HOST", "localhost"),
		Port:           getenv("DB_PORT", "5432"),
		User:           user,
		Password:       password,
		DBName:         getenv("DB_NAME", "moviematch"),
		SSLMode:        getenv("DB_SSLMODE", "disable"),
		ReaderUser:     getenv("DB_READER_USER", user),
		ReaderPassword: getenvSecret("DB_READER_PASSWORD", password),
		Migrate:        getenvBool("DB_MIGRATE", true),
	}
}

func newThrottle() *Throttle {
	return &Throttle{
		JoinAttempts: getenvInt("JOIN_ATTEMPTS_LIMIT", 0),
		Window:       getenvDuration("JOIN_ATTEMPTS_WINDOW", time.Minute),
	}
}

func newCatalog() *Catalog {
	return &Catalog{
		BaseURL: getenv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		APIKey:  getenvSecret("TMDB_API_KEY", ""),
		Timeout: getenvDuration("TMDB_TIMEOUT", 5*time.Second),
		RPS:     getenvFloat("TMDB_RPS", 20),
	}
}

func newSession() *Session {
	return &Session{
		CodeAttempts: getenvInt("SESSION_CODE_ATTEMPTS", 5),
	}
}

func newLog() *Log {
	return &Log{
		Level:  getenv("LOG_LEVEL", "info"),
		Format: getenv("LOG_FORMAT", "json"),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getenvSecret(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value\n", logtag, key)
		return defaultValue
	}
	fmt.Printf("%s %s = ***\n", logtag, key)
	return val
}

func getenvInt(key string, defaultValue int) int {
	raw := getenv(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("%s %s is not an integer (%q). Using default value %d", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getenvFloat(key string, defaultValue float64) float64 {
	raw := getenv(key, strconv.FormatFloat(defaultValue, 'f', -1, 64))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("%s %s is not a number (%q). Using default value %v", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getenvBool(key string, defaultValue bool) bool {
	raw := getenv(key, strconv.FormatBool(defaultValue))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("%s %s is not a bool (%q). Using default value %t", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("%s %s is not a duration (%q). Using default value %s", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}

// getenvList splits a comma-separated value, dropping blanks.
func getenvList(key string) []string {
	raw := getenv(key, "")
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
