package kf2

// Config holds configuration for the KF2 dedicated server.
type Config struct {
	// InstallDir is the server install directory (contains KFGame/ and Binaries/).
	InstallDir string `mapstructure:"install_dir" default:""`
	// Executable is the server binary, relative to InstallDir.
	Executable string `mapstructure:"executable" default:"Binaries/Win64/KFServer.exe"`
	// Args are the server launch arguments (comma separated in env).
	Args []string `mapstructure:"args" default:"kf-burningparis"`
	// CustomDirs are extra directories scanned for KF-*.kfm maps, relative to InstallDir unless absolute.
	CustomDirs []string `mapstructure:"custom_dirs" default:""`
	// MapCycleIndex is the map cycle slot rewritten with the custom map list.
	MapCycleIndex int `mapstructure:"mapcycle_index" default:"1"`
}

// SteamConfig holds configuration for SteamCMD.
type SteamConfig struct {
	// InstallDir is the SteamCMD install directory.
	InstallDir string `mapstructure:"install_dir" default:""`
	// Executable is the SteamCMD binary, relative to InstallDir.
	Executable string `mapstructure:"executable" default:"steamcmd.exe"`
	// Args are the SteamCMD launch arguments.
	Args []string `mapstructure:"args" default:"+login,anonymous"`
	// AppID is the Steam app id of the dedicated server.
	AppID int `mapstructure:"app_id" default:"232130"`
}
