// Package config provides configuration management for the Quiz Manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section, so every key can be overridden by an environment variable named
// after its path (api.base_url -> API_BASE_URL).
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Log: logging level and format
//   - API: backend base URL, credentials, endpoint paths, timeout
//   - Tokens, Redis: where the backend session is stored
//   - Storage: S3/MinIO settings for baseline backups
//   - Database: attempt history (mysql or sqlite)
//   - Matching, Editor: session limits, delimiter, concurrency
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.BaseURL)
package config
