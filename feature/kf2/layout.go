package kf2

import (
	"path/filepath"
	"strconv"

	"kf2-manager/core/process"
)

const (
	// GameInfoSection holds the map cycles in PCServer-KFGame.ini.
	GameInfoSection = "[KFGame.KFGameInfo]"
	// WorkshopSection holds the workshop subscriptions in PCServer-KFEngine.ini.
	WorkshopSection = "[OnlineSubsystemSteamworks.KFWorkshopSteamworks]"
	// WorkshopItemKey is the key of a subscription line.
	WorkshopItemKey = "ServerSubscribedWorkshopItems"

	gameINISubpath   = "KFGame/Config/PCServer-KFGame.ini"
	engineINISubpath = "KFGame/Config/PCServer-KFEngine.ini"
	cacheSubpath     = "KFGame/Cache"
)

// Layout resolves paths inside a server installation.
type Layout struct {
	InstallDir string
	CustomDirs []string
}

// NewLayout builds a Layout from configuration.
func NewLayout(cfg Config) Layout {
	return Layout{InstallDir: cfg.InstallDir, CustomDirs: cfg.CustomDirs}
}

// GameINI is the path of PCServer-KFGame.ini (map summaries and cycles).
func (l Layout) GameINI() string {
	return filepath.Join(l.InstallDir, filepath.FromSlash(gameINISubpath))
}

// EngineINI is the path of PCServer-KFEngine.ini (workshop subscriptions).
func (l Layout) EngineINI() string {
	return filepath.Join(l.InstallDir, filepath.FromSlash(engineINISubpath))
}

// CacheDir is the workshop content cache. It may not exist yet.
func (l Layout) CacheDir() string {
	return filepath.Join(l.InstallDir, filepath.FromSlash(cacheSubpath))
}

// MapDirs returns the directories scanned for custom maps: the workshop
// cache first, then the custom directories.
func (l Layout) MapDirs() []string {
	dirs := []string{l.CacheDir()}
	for _, d := range l.CustomDirs {
		if d == "" {
			continue
		}
		d = filepath.FromSlash(d)
		if !filepath.IsAbs(d) {
			d = filepath.Join(l.InstallDir, d)
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// Variant is one launchable program.
type Variant struct {
	Name       string
	InstallDir string
	Executable string
	Args       []string
}

// ServerVariant returns the dedicated server variant.
func ServerVariant(cfg Config) Variant {
	return Variant{Name: "kf2", InstallDir: cfg.InstallDir, Executable: cfg.Executable, Args: cfg.Args}
}

// SteamVariant returns the SteamCMD variant.
func SteamVariant(cfg SteamConfig) Variant {
	return Variant{Name: "steamcmd", InstallDir: cfg.InstallDir, Executable: cfg.Executable, Args: cfg.Args}
}

// ExecutablePath returns the absolute executable path.
func (v Variant) ExecutablePath() string {
	exe := filepath.FromSlash(v.Executable)
	if filepath.IsAbs(exe) {
		return exe
	}
	return filepath.Join(v.InstallDir, exe)
}

// ProcessSpec returns the launch spec with the default arguments followed
// by extra.
func (v Variant) ProcessSpec(extra ...string) process.Spec {
	args := make([]string, 0, len(v.Args)+len(extra))
	args = append(args, v.Args...)
	args = append(args, extra...)
	return process.Spec{
		Name: v.Name,
		Path: v.ExecutablePath(),
		Args: args,
		Dir:  v.InstallDir,
	}
}

// UpdateSpec returns the SteamCMD invocation that installs or validates appID
// and exits.
func UpdateSpec(steam Variant, appID int) process.Spec {
	spec := steam.ProcessSpec("+app_update", strconv.Itoa(appID), "validate", "+exit")
	spec.Name = steam.Name + "-update"
	return spec
}
