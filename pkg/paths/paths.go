package paths

import (
	"os"

	"streamarchive/pkg/env"
)

// GetDataDir returns the directory holding config and log files. Inside
// a container it is the mounted /app/data volume, otherwise the working
// directory. An ADDON_DATA_DIR override wins in both cases.
func GetDataDir() string {
	if dir := os.Getenv(env.AddonDataDir); dir != "" {
		return dir
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "/app/data"
	}
	return "."
}
