package defs

// Common file names used across the project.
const (
	// ConfigYAML is the per-project settings file that marks a directory
	// as a hosmod project root.
	ConfigYAML = "hosmod.yaml"

	// ManifestJSON is the mod manifest shipped inside every package.
	ManifestJSON = "Manifest.json"

	// OverrideEnv is the local override file for game path variables.
	OverrideEnv = ".env"

	// HarmonyDLL is the patching library every mod build links against.
	HarmonyDLL = "0Harmony.dll"

	// VanillaAssembly is the game assembly fed to the decompiler.
	VanillaAssembly = "Assembly-CSharp.dll"
)

// Directory names under the project root.
const (
	LibrariesDir  = "Libraries"
	AssetsDir     = "assets"
	OutputDir     = "output"
	PackageDir    = "package"
	DecompiledDir = "decompiled"
)

// Environment variables recognized by path resolution. The same keys are
// honored in the project's .env override file, with the environment winning.
const (
	EnvManagedDir = "HOS_MANAGED_DIR"
	EnvModsPath   = "HOS_MODS_PATH"
)
