package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const appName = "choices"

// PathResolver finds config and choice files relative to the places a user
// would reasonably keep them.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver determines the executable, home and config locations.
func NewPathResolver() *PathResolver {
	pr := &PathResolver{}

	if execPath, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = resolved
		}
		pr.executableDir = filepath.Dir(execPath)
	} else {
		log.Debugf("Could not determine executable path: %v", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}
	pr.homeDir = homeDir
	pr.configDir = configDirFor(homeDir)

	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr
}

func configDirFor(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appName)
		}
		return filepath.Join(homeDir, ".config", appName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appName)
	default:
		return filepath.Join(homeDir, ".config", appName)
	}
}

// ConfigDir returns the platform config directory.
func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}

// GetConfigPath returns the path for a config file, falling back to the temp
// dir when the config directory cannot be created.
func (pr *PathResolver) GetConfigPath(filename string) string {
	err := EnsureDir(pr.configDir)
	if err == nil {
		return filepath.Join(pr.configDir, filename)
	}
	log.Debugf("Cannot create config directory %s: %v", pr.configDir, err)

	fallback := filepath.Join(os.TempDir(), appName)
	if err := EnsureDir(fallback); err == nil {
		path := filepath.Join(fallback, filename)
		log.Warnf("Using fallback config location: %s", path)
		return path
	}
	return filepath.Join(os.TempDir(), filename)
}

// ResolveFile looks for name as given, then relative to the working
// directory, the executable and the config directory.
func (pr *PathResolver) ResolveFile(name string) (string, error) {
	if filepath.IsAbs(name) {
		if FileExists(name) {
			return name, nil
		}
		return "", os.ErrNotExist
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, name))
	}
	if pr.executableDir != "" {
		candidates = append(candidates, filepath.Join(pr.executableDir, name))
	}
	candidates = append(candidates, filepath.Join(pr.configDir, name))

	for _, path := range candidates {
		if FileExists(path) {
			log.Debugf("Resolved %s to %s", name, path)
			return path, nil
		}
		log.Debugf("Candidate not found: %s", path)
	}
	return "", os.ErrNotExist
}
