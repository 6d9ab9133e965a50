package config

import (
	"path/filepath"
	"time"
)

// Photo backends.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// DefaultDatabaseFile is the SQLite file created inside DataDir when no
// DSN is configured.
const DefaultDatabaseFile = "profile.db"

// Config holds runtime settings for the profile CLI.
//
// Fields:
//   - DataDir: root for the staged and durable photo, and the default database.
//   - DatabaseDriver: "sqlite" or "pgx".
//   - DatabaseDSN: driver DSN; empty means DataDir/profile.db with SQLite.
//   - CaptureCommand: external capture program, "{output}" is the target path.
//     Empty selects the import device, which asks for an existing image.
//   - CaptureTimeout: how long the CLI waits for a capture to land.
//   - PhotoBackend: "fs" or "s3" for the durable photo.
//   - S3*: object storage settings used with the s3 backend.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DataDir        string
	DatabaseDriver string
	DatabaseDSN    string
	CaptureCommand string
	CaptureTimeout time.Duration
	PhotoBackend   string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3User         string
	S3Password     string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = ""
	c.CaptureCommand = ""
	c.CaptureTimeout = 2 * time.Minute
	c.PhotoBackend = BackendFS
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
}

// DSN resolves the database DSN, falling back to a file in DataDir.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return filepath.Join(c.DataDir, DefaultDatabaseFile)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
