package gamepath

import (
	"os"
	"path/filepath"
)

// Candidate install locations cover Flatpak Steam (Steam Deck default),
// native Linux Steam, macOS, and Windows. Every candidate is probed for
// existence regardless of the running OS; foreign paths simply never exist,
// which keeps the list in one place instead of behind GOOS switches.

const gameDataDir = "Hex of Steel_Data"

func managedCandidates(home string) []string {
	managedSuffix := filepath.Join("steamapps", "common", "Hex of Steel", gameDataDir, "Managed")

	var out []string
	if home != "" {
		out = append(out,
			filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".steam", "steam", managedSuffix),
			filepath.Join(home, ".steam", "steam", managedSuffix),
			filepath.Join(home, ".local", "share", "Steam", managedSuffix),
			filepath.Join(home, "SteamLibrary", managedSuffix),
		)
	}
	out = append(out, filepath.Join("/Applications", "Hex of Steel.app", "Contents", "Resources", "Data", "Managed"))
	if home != "" {
		out = append(out,
			filepath.Join(home, "Library", "Application Support", "Steam", "steamapps", "common",
				"Hex of Steel", "Hex of Steel.app", "Contents", "Resources", "Data", "Managed"),
			filepath.Join(home, "Library", "Application Support", "War Frogs Studio", "Hex of Steel",
				gameDataDir, "Managed"),
		)
	}
	for _, programFiles := range []string{os.Getenv("ProgramFiles(x86)"), os.Getenv("ProgramFiles"), "C:/Program Files (x86)"} {
		if programFiles == "" {
			continue
		}
		out = append(out, filepath.Join(programFiles, "Steam", managedSuffix))
	}
	if home != "" {
		out = append(out, filepath.Join(home, gameDataDir, "Managed"))
	}
	return out
}

func modsCandidates(home string) []string {
	if home == "" {
		return nil
	}
	modsSuffix := filepath.Join("War Frogs Studio", "Hex of Steel", "MODS")
	return []string{
		filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", "config", "unity3d", modsSuffix),
		filepath.Join(home, ".config", "unity3d", modsSuffix),
		filepath.Join(home, "Library", "Application Support", modsSuffix),
		filepath.Join(home, "AppData", "LocalLow", modsSuffix),
		filepath.Join(home, "Hex of Steel", "MODS"),
	}
}
