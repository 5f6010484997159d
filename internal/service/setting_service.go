package service

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/repository"
)

// fxAPIKeySetting is the system_setting key under which the encrypted FX
// provider API key is stored.
const fxAPIKeySetting = "fx_api_key"

// SettingService handles system settings, most importantly the FX provider
// API key. The key is fernet-encrypted at rest; the environment variable
// acts as a fallback when no key has been stored through the API.
type SettingService struct {
	settingRepo *repository.SettingRepository
	fernetKey   *fernet.Key
	envAPIKey   string
}

// NewSettingService creates a new SettingService.
//
// Parameters:
//   - settingRepo: repository for the system_setting table
//   - fernetKey: base64 fernet key used to encrypt stored secrets
//   - envAPIKey: API key from the environment, used when none is stored
func NewSettingService(settingRepo *repository.SettingRepository, fernetKey string, envAPIKey string) (*SettingService, error) {
	svc := &SettingService{
		settingRepo: settingRepo,
		envAPIKey:   envAPIKey,
	}

	if fernetKey != "" {
		key, err := fernet.DecodeKey(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode fernet key: %w", err)
		}
		svc.fernetKey = key
	}

	return svc, nil
}

// SetFXAPIKey encrypts and stores the FX provider API key.
func (s *SettingService) SetFXAPIKey(apiKey string) error {
	if apiKey == "" {
		return apperrors.ErrMissingRequiredField
	}
	if s.fernetKey == nil {
		return fmt.Errorf("cannot store API key: no fernet key configured")
	}

	token, err := fernet.EncryptAndSign([]byte(apiKey), s.fernetKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt API key: %w", err)
	}

	return s.settingRepo.Upsert(fxAPIKeySetting, string(token))
}

// FXAPIKey returns the FX provider API key: the stored encrypted key when one
// exists, otherwise the environment fallback. Returns
// apperrors.ErrMissingAPIKey when neither is configured.
func (s *SettingService) FXAPIKey() (string, error) {
	stored, err := s.settingRepo.Get(fxAPIKeySetting)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		if s.envAPIKey == "" {
			return "", apperrors.ErrMissingAPIKey
		}
		return s.envAPIKey, nil
	}
	if err != nil {
		return "", err
	}

	if s.fernetKey == nil {
		return "", fmt.Errorf("cannot decrypt stored API key: no fernet key configured")
	}

	// No TTL: stored keys stay valid until replaced.
	msg := fernet.VerifyAndDecrypt([]byte(stored), 0, []*fernet.Key{s.fernetKey})
	if msg == nil {
		return "", fmt.Errorf("failed to decrypt stored API key")
	}

	return string(msg), nil
}

// HasStoredFXAPIKey reports whether an API key has been stored through the
// API (as opposed to the environment fallback).
func (s *SettingService) HasStoredFXAPIKey() (bool, error) {
	_, err := s.settingRepo.Get(fxAPIKeySetting)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
