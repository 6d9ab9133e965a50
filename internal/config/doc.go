// Package config loads runtime configuration for the profile CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "data_dir": "data",
//	  "database_driver": "sqlite",
//	  "database_dsn": "",
//	  "capture_command": "fswebcam --no-banner {output}",
//	  "capture_timeout": "2m",
//	  "photo_backend": "s3",
//	  "s3_bucket": "profiles",
//	  "s3_region": "us-east-1",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_user": "minio",
//	  "s3_password": "minio123",
//	  "log_level": "debug"
//	}
//
// The fixed photo file names and the marker key are not configurable; only
// the directory they live in is.
package config
