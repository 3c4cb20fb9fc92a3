// Package config provides configuration management for the KF2 manager.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional config.yaml and a .env file.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - KF2: server install directory, executable, launch args, custom map dirs
//   - Steam: SteamCMD install directory, executable, args, app id
//   - Supervisor: restart hour, warm-up duration, poll interval
//   - Approved: where the approved workshop list comes from
//   - Storage: S3/MinIO credentials and bucket settings
//   - Database: optional cycle history database
//   - Server: status HTTP server (address, API key)
//   - Log: logging level and format
//
// Nested keys map to environment variables by replacing dots with
// underscores, e.g. KF2_INSTALL_DIR or SUPERVISOR_RESTART_HOUR. List values
// are comma separated: KF2_CUSTOM_DIRS=KFGame/BrewedPC/Maps/Custom,D:/maps.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.KF2.InstallDir)
package config
