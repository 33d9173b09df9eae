package file

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the docchat home directory.
const HomeEnv = "DOCCHAT_HOME"

// HomeDir returns the directory holding config.toml, prompts and data:
// $DOCCHAT_HOME when set, otherwise ~/.docchat.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docchat"), nil
}
