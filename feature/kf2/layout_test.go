package kf2_test

import (
	"path/filepath"
	"testing"

	"kf2-manager/feature/kf2"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	root := filepath.Join("srv", "kf2server")
	absCustom := filepath.Join(string(filepath.Separator), "maps")
	l := kf2.Layout{
		InstallDir: root,
		CustomDirs: []string{"KFGame/BrewedPC/Maps/Custom", "", absCustom},
	}

	assert.Equal(t, filepath.Join(root, "KFGame", "Config", "PCServer-KFGame.ini"), l.GameINI())
	assert.Equal(t, filepath.Join(root, "KFGame", "Config", "PCServer-KFEngine.ini"), l.EngineINI())
	assert.Equal(t, filepath.Join(root, "KFGame", "Cache"), l.CacheDir())
	assert.Equal(t, []string{
		filepath.Join(root, "KFGame", "Cache"),
		filepath.Join(root, "KFGame", "BrewedPC", "Maps", "Custom"),
		absCustom,
	}, l.MapDirs())
}

func TestVariants(t *testing.T) {
	server := kf2.ServerVariant(kf2.Config{
		InstallDir: "kf2server",
		Executable: "Binaries/Win64/KFServer.exe",
		Args:       []string{"kf-burningparis"},
	})
	spec := server.ProcessSpec()
	assert.Equal(t, "kf2", spec.Name)
	assert.Equal(t, filepath.Join("kf2server", "Binaries", "Win64", "KFServer.exe"), spec.Path)
	assert.Equal(t, []string{"kf-burningparis"}, spec.Args)
	assert.Equal(t, "kf2server", spec.Dir)

	steam := kf2.SteamVariant(kf2.SteamConfig{
		InstallDir: "steamcmd",
		Executable: "steamcmd.exe",
		Args:       []string{"+login", "anonymous"},
	})
	update := kf2.UpdateSpec(steam, 232130)
	assert.Equal(t, "steamcmd-update", update.Name)
	assert.Equal(t, []string{"+login", "anonymous", "+app_update", "232130", "validate", "+exit"}, update.Args)

	// Default args are not aliased by ProcessSpec.
	assert.Equal(t, []string{"+login", "anonymous"}, steam.Args)
}
