// Package config provides configuration management for the prompt console.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: connection details for the document store backing database
//   - Storage: S3/MinIO credentials and bucket settings for sweep report archiving
//   - Log: Logging level and format
//
// Note that the device admission limit is NOT part of this configuration: it is
// an administrative setting stored in the document store itself (settings/admin)
// so the settings screen can change it without a redeploy.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
