package kite

import (
	"os"
	"strings"
)

// The access token is valid until the next trading day, so it is persisted
// to a plain file and reloaded on restart instead of forcing a fresh login.

func loadToken(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func saveToken(path, token string) error {
	return os.WriteFile(path, []byte(token), 0o600)
}
