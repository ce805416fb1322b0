package cli

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "clientboard"
	keyringUser    = "clickup-api-key"
)

var (
	ErrNoAPIKey          = errors.New("no ClickUp API key found (use --api-key, CLICKUP_API_KEY or clientboardctl login)")
	ErrKeyringKeyMissing = errors.New("no key stored in the keyring")
)

// Keyring stores secrets by service and user
type Keyring interface {
	Get(service, user string) (string, error)
	Set(service, user, secret string) error
	Delete(service, user string) error
}

type systemKeyring struct{}

// NewSystemKeyring uses the OS secret store (Keychain, Secret Service or Windows Credential Manager)
func NewSystemKeyring() Keyring {
	return systemKeyring{}
}

func (systemKeyring) Get(service, user string) (string, error) {
	secret, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrKeyringKeyMissing
	}
	return secret, err
}

func (systemKeyring) Set(service, user, secret string) error {
	return keyring.Set(service, user, secret)
}

func (systemKeyring) Delete(service, user string) error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrKeyringKeyMissing
	}
	return err
}

func resolveAPIKey(flagValue string, deps Dependencies) (string, error) {
	if apiKey := envOrFlag(flagValue, deps, "CLICKUP_API_KEY"); apiKey != "" {
		return apiKey, nil
	}

	apiKey, err := deps.Keyring.Get(keyringService, keyringUser)
	if errors.Is(err, ErrKeyringKeyMissing) {
		return "", ErrNoAPIKey
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	if apiKey == "" {
		return "", ErrNoAPIKey
	}
	return apiKey, nil
}
