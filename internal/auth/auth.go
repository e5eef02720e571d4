// Package auth stores provider API keys in the OS keychain. Environment
// variables are an opt-in fallback so keys do not leak into shell history
// or process listings by default.
package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const serviceName = "hanmd"

func accountFor(service string) string {
	if service == "openai" {
		return "openai-api-key"
	}
	return "gemini-api-key"
}

func envVarFor(service string) string {
	if service == "openai" {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// GetKey retrieves the API key for a service (gemini or openai) and reports
// where it came from. The environment is consulted only when allowEnv is set.
func GetKey(service string, allowEnv bool) (string, string) {
	key, err := keyring.Get(serviceName, accountFor(service))
	if err == nil && key != "" {
		return strings.TrimSpace(key), "Keychain"
	}

	if allowEnv {
		if key := strings.TrimSpace(os.Getenv(envVarFor(service))); key != "" {
			return key, "Environment Variable"
		}
	}

	return "", ""
}

// SaveKey writes the key for a service to the OS keychain.
func SaveKey(service, key string) error {
	return keyring.Set(serviceName, accountFor(service), strings.TrimSpace(key))
}

// DeleteKey removes the key for a service from the OS keychain.
func DeleteKey(service string) error {
	return keyring.Delete(serviceName, accountFor(service))
}

// GetStatus reports whether a key exists for a service in the keychain.
func GetStatus(service string) bool {
	key, err := keyring.Get(serviceName, accountFor(service))
	return err == nil && key != ""
}

// PromptForAPIKey reads an API key from the terminal without echoing it.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(raw)), nil
}

// GetEnvKey retrieves the key from environment variables only.
func GetEnvKey(service string) (string, bool) {
	key := strings.TrimSpace(os.Getenv(envVarFor(service)))
	if key == "" {
		return "", false
	}
	return key, true
}
