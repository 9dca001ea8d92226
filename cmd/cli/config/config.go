package config

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultAPIURL = "http://localhost:8080"

// APIURL returns the base URL for the Item Vault API.
// It can be overridden with the ITEMVAULT_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("ITEMVAULT_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	vaultDir := filepath.Join(dir, "itemvault")
	if err := os.MkdirAll(vaultDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(vaultDir, "token"), nil
}

// SaveToken stores the JWT for subsequent CLI commands, readable by the owner only.
func SaveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

// ReadToken returns the stored JWT, or an error when none was saved.
func ReadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
