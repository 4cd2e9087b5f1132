package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Store    StoreConfig    `mapstructure:"store"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           string `mapstructure:"port"`
	ReadTimeout    int    `mapstructure:"read_timeout"`
	WriteTimeout   int    `mapstructure:"write_timeout"`
	MaxHeaderBytes int    `mapstructure:"max_header_bytes"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// CacheConfig holds Redis configuration for the slot store
type CacheConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StoreConfig selects the slot store backend: "redis" or "memory".
// The memory backend is single-process only and meant for local runs.
type StoreConfig struct {
	Type string `mapstructure:"type"`
}

// QueueConfig holds settings for the counter sync worker queue
type QueueConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
	Workers    int `mapstructure:"workers"`
}

// AdminConfig holds the shared admin token for the dashboard endpoints
type AdminConfig struct {
	Token         string `mapstructure:"token"`
	SessionCookie string `mapstructure:"session_cookie"`
}

// FacultyConfig describes one faculty member in the static catalog
type FacultyConfig struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Capacity int    `mapstructure:"capacity"`
}

// SubjectConfig describes one subject and the faculty eligible to teach it
type SubjectConfig struct {
	ID        string   `mapstructure:"id"`
	Name      string   `mapstructure:"name"`
	Faculties []string `mapstructure:"faculties"`
}

// CatalogConfig is the static faculty/subject catalog, immutable at runtime
type CatalogConfig struct {
	Faculties []FacultyConfig `mapstructure:"faculties"`
	Subjects  []SubjectConfig `mapstructure:"subjects"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

var config *Config

// Init initializes the configuration
func Init() {
	config = &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// Get returns the global configuration
func Get() *Config {
	if config == nil {
		Init()
	}
	return config
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "faculty-connect")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 15)
	viper.SetDefault("server.write_timeout", 15)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "faculty_connect")
	viper.SetDefault("database.ssl_mode", "disable")

	// Cache defaults
	viper.SetDefault("cache.host", "localhost")
	viper.SetDefault("cache.port", 6379)
	viper.SetDefault("cache.password", "")
	viper.SetDefault("cache.db", 0)

	// Store defaults
	viper.SetDefault("store.type", "redis")

	// Queue defaults
	viper.SetDefault("queue.buffer_size", 256)
	viper.SetDefault("queue.workers", 3)

	// Admin defaults
	viper.SetDefault("admin.token", "")
	viper.SetDefault("admin.session_cookie", "admin_session")

	// Catalog defaults: the pilot batch configuration. Deployments override
	// this section in the config file.
	viper.SetDefault("catalog.faculties", []map[string]interface{}{
		{"id": "f1", "name": "Dr. Eleanor Vance", "capacity": 72},
		{"id": "f2", "name": "Prof. Samuel Green", "capacity": 72},
		{"id": "f3", "name": "Dr. Olivia Chen", "capacity": 72},
	})
	viper.SetDefault("catalog.subjects", []map[string]interface{}{
		{"id": "s1", "name": "Advanced Quantum Physics", "faculties": []string{"f1", "f2", "f3"}},
		{"id": "s2", "name": "Organic Chemistry Symphony", "faculties": []string{"f1", "f2", "f3"}},
		{"id": "s3", "name": "Computational Linguistics", "faculties": []string{"f1", "f2", "f3"}},
		{"id": "s4", "name": "Ancient Civilizations & Mythology", "faculties": []string{"f1", "f2", "f3"}},
		{"id": "s5", "name": "Modern Political Theory", "faculties": []string{"f1", "f2", "f3"}},
		{"id": "s6", "name": "Astrobiology Fundamentals", "faculties": []string{"f1", "f2", "f3"}},
	})

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file_path", "faculty-connect.log")
}
