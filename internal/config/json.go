package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/profilekeeper/internal/flagx"
	"github.com/dmitrijs2005/profilekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// CaptureTimeout is a timex.Duration so the file may say "90s" or give
// integer nanoseconds.
type JsonConfig struct {
	DataDir        string         `json:"data_dir"`
	DatabaseDriver string         `json:"database_driver"`
	DatabaseDSN    string         `json:"database_dsn"`
	CaptureCommand string         `json:"capture_command"`
	CaptureTimeout timex.Duration `json:"capture_timeout"`
	PhotoBackend   string         `json:"photo_backend"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3Endpoint     string         `json:"s3_endpoint"`
	S3User         string         `json:"s3_user"`
	S3Password     string         `json:"s3_password"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c or -config.
// Keys missing from the file keep their current values. Read and decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		DataDir:        cfg.DataDir,
		DatabaseDriver: cfg.DatabaseDriver,
		DatabaseDSN:    cfg.DatabaseDSN,
		CaptureCommand: cfg.CaptureCommand,
		CaptureTimeout: timex.Duration{Duration: cfg.CaptureTimeout},
		PhotoBackend:   cfg.PhotoBackend,
		S3Bucket:       cfg.S3Bucket,
		S3Region:       cfg.S3Region,
		S3Endpoint:     cfg.S3Endpoint,
		S3User:         cfg.S3User,
		S3Password:     cfg.S3Password,
		LogLevel:       cfg.LogLevel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.DataDir = jc.DataDir
	cfg.DatabaseDriver = jc.DatabaseDriver
	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.CaptureCommand = jc.CaptureCommand
	cfg.CaptureTimeout = jc.CaptureTimeout.Duration
	cfg.PhotoBackend = jc.PhotoBackend
	cfg.S3Bucket = jc.S3Bucket
	cfg.S3Region = jc.S3Region
	cfg.S3Endpoint = jc.S3Endpoint
	cfg.S3User = jc.S3User
	cfg.S3Password = jc.S3Password
	cfg.LogLevel = jc.LogLevel
}
