// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files
// and from the environment. Each file in the directory represents one secret: the
// filename is the key name and the file contents (trimmed) are the value.
//
// Supported key files: anthropic-api-key, sheets-access-token, sheets-id.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Key file names in the secrets directory.
const (
	AnthropicKeyFile = "anthropic-api-key"
	SheetsTokenFile  = "sheets-access-token"
	SheetsIDFile     = "sheets-id"
)

// Environment variables that override the key files.
const (
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"
	SheetsTokenEnv  = "GOOGLE_SHEETS_ACCESS_TOKEN"
	SheetsIDEnv     = "GOOGLE_SHEETS_ID"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped. log may be nil.
func Load(dir string, log *zap.Logger) (map[string]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotEnv sets variables from the given .env files (default ".env")
// without overriding the process environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Credentials are the secrets the agent uses.
type Credentials struct {
	AnthropicAPIKey   string
	SheetsAccessToken string
	SheetsID          string
}

// Resolve picks each credential from the environment first and the key
// files second.
func Resolve(files map[string]string) Credentials {
	pick := func(env, file string) string {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
		return files[file]
	}
	return Credentials{
		AnthropicAPIKey:   pick(AnthropicKeyEnv, AnthropicKeyFile),
		SheetsAccessToken: pick(SheetsTokenEnv, SheetsTokenFile),
		SheetsID:          pick(SheetsIDEnv, SheetsIDFile),
	}
}
