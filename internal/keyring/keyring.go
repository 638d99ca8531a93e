// Package keyring stores generative backend API keys in the system keychain.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "carepost"

// ErrUnknownProvider is returned for names that have no keychain entry.
var ErrUnknownProvider = errors.New("unknown provider")

// APIKey represents a named API key stored in the keychain.
type APIKey string

const (
	// Gemini is the keychain entry for the Gemini API key.
	Gemini APIKey = "gemini-api-key"
	// OpenAI is the keychain entry for the OpenAI API key.
	OpenAI APIKey = "openai-api-key"
	// Anthropic is the keychain entry for the Anthropic API key.
	Anthropic APIKey = "anthropic-api-key"
)

// AllAPIKeys returns all known API key types for iteration.
func AllAPIKeys() []APIKey {
	return []APIKey{Gemini, OpenAI, Anthropic}
}

// DisplayName returns the provider name for the key.
func (k APIKey) DisplayName() string {
	return strings.TrimSuffix(string(k), "-api-key")
}

// Get retrieves an API key value from the system keychain.
func Get(apiKey APIKey) (string, error) {
	value, err := keyring.Get(serviceName, string(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to get %s from keychain: %w", apiKey.DisplayName(), err)
	}

	return value, nil
}

// Set stores an API key value in the system keychain.
func Set(apiKey APIKey, value string) error {
	if err := keyring.Set(serviceName, string(apiKey), value); err != nil {
		return fmt.Errorf("failed to set %s in keychain: %w", apiKey.DisplayName(), err)
	}

	return nil
}

// IsSet checks if an API key exists in the keychain.
func IsSet(apiKey APIKey) bool {
	_, err := keyring.Get(serviceName, string(apiKey))

	return err == nil
}

// ForProvider maps a provider name such as "gemini" to its APIKey.
func ForProvider(name string) (APIKey, error) {
	for _, k := range AllAPIKeys() {
		if k.DisplayName() == strings.ToLower(strings.TrimSpace(name)) {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownProvider, name)
}

// Resolve returns envValue when set, otherwise the keychain entry for the
// provider. An empty string means neither source has a key.
func Resolve(provider, envValue string) string {
	if envValue != "" {
		return envValue
	}

	k, err := ForProvider(provider)
	if err != nil {
		return ""
	}
	value, err := Get(k)
	if err != nil {
		return ""
	}

	return value
}
