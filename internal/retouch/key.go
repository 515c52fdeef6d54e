package retouch

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// Keyring entry holding the Gemini API key.
const (
	KeyringService = "docphoto"
	KeyringUser    = "gemini-api-key"
)

// defaultKeyEnv are checked after the configured variable.
var defaultKeyEnv = []string{"GEMINI_API_KEY", "API_KEY"}

// LookupAPIKey returns the API key from envVar, the default environment
// variables, or the OS keyring, in that order.
func LookupAPIKey(envVar string) (string, error) {
	vars := defaultKeyEnv
	if envVar != "" {
		vars = append([]string{envVar}, defaultKeyEnv...)
	}
	for _, name := range vars {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}

	key, err := keyring.Get(KeyringService, KeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoAPIKey
		}
		return "", fmt.Errorf("reading API key from keyring: %w", err)
	}
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}

// StoreAPIKey saves the API key in the OS keyring.
func StoreAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("API key must not be empty")
	}
	if err := keyring.Set(KeyringService, KeyringUser, key); err != nil {
		return fmt.Errorf("saving API key to keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the stored API key. Removing a missing key is not an error.
func DeleteAPIKey() error {
	if err := keyring.Delete(KeyringService, KeyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting API key from keyring: %w", err)
	}
	return nil
}
