package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/profilekeeper/internal/flagx"
)

var knownFlags = []string{
	"-d", "-driver", "-dsn", "-capture", "-t", "-backend",
	"-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-user", "-s3-password", "-l",
}

// parseFlags populates Config fields from command-line flags.
//
//	-d string            data directory
//	-driver string       database driver (sqlite|pgx)
//	-dsn string          database DSN
//	-capture string      capture command, {output} is the target path
//	-t duration          capture timeout, e.g. 90s
//	-backend string      durable photo backend (fs|s3)
//	-s3-bucket string    bucket for the s3 backend
//	-s3-region string    region for the s3 backend
//	-s3-endpoint string  custom endpoint (MinIO and friends)
//	-s3-user string      access key
//	-s3-password string  secret key
//	-l string            log level
//
// os.Args is filtered with flagx.FilterArgs first, so -c/-config and any
// unknown flags are left alone.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.DatabaseDriver, "driver", cfg.DatabaseDriver, "database driver (sqlite|pgx)")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.CaptureCommand, "capture", cfg.CaptureCommand, "capture command")
	fs.DurationVar(&cfg.CaptureTimeout, "t", cfg.CaptureTimeout, "capture timeout")
	fs.StringVar(&cfg.PhotoBackend, "backend", cfg.PhotoBackend, "durable photo backend (fs|s3)")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "s3 bucket")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "s3 region")
	fs.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "s3 endpoint")
	fs.StringVar(&cfg.S3User, "s3-user", cfg.S3User, "s3 access key")
	fs.StringVar(&cfg.S3Password, "s3-password", cfg.S3Password, "s3 secret key")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
