package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	secretsDir     = ".secrets"
	apiKeySecret   = "anthropic-api-key"
	secretsKeyFile = secretsDir + "/" + apiKeySecret
)

// loadSecrets reads every file in dir into a map of filename to trimmed contents.
// A missing directory is not an error. Unreadable files are skipped with a warning.
func loadSecrets(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Printf("Warning: could not read secret %s: %v", entry.Name(), err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[entry.Name()] = value
		}
	}
	return secrets, nil
}

// resolveAPIKey returns the first non-empty key from the explicit value,
// the ANTHROPIC_API_KEY environment variable, then the secrets directory.
func resolveAPIKey(explicit string, secrets map[string]string) string {
	if explicit != "" {
		return explicit
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key
	}
	return secrets[apiKeySecret]
}
