package service_test

import (
	"errors"
	"testing"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/testutil"
)

// TestSettingService_FXAPIKey tests resolution and storage of the exchange
// rate provider API key.
//
// WHY: The key is a credential. It must never be persisted in the clear,
// and the stored value must win over the environment fallback so a key set
// through the API takes effect without a restart.
func TestSettingService_FXAPIKey(t *testing.T) {
	t.Run("falls back to the environment key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingService(t, db, "env-key")

		key, err := svc.FXAPIKey()
		if err != nil {
			t.Fatalf("FXAPIKey() returned unexpected error: %v", err)
		}
		if key != "env-key" {
			t.Errorf("Expected env-key, got %s", key)
		}
	})

	t.Run("errors when no key is configured anywhere", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingService(t, db, "")

		if _, err := svc.FXAPIKey(); !errors.Is(err, apperrors.ErrMissingAPIKey) {
			t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("stored key round-trips and wins over the environment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingService(t, db, "env-key")

		if err := svc.SetFXAPIKey("stored-key"); err != nil {
			t.Fatalf("SetFXAPIKey() returned unexpected error: %v", err)
		}

		key, err := svc.FXAPIKey()
		if err != nil {
			t.Fatalf("FXAPIKey() returned unexpected error: %v", err)
		}
		if key != "stored-key" {
			t.Errorf("Expected stored-key, got %s", key)
		}
	})

	t.Run("stores the key encrypted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingService(t, db, "")

		if err := svc.SetFXAPIKey("super-secret"); err != nil {
			t.Fatalf("SetFXAPIKey() returned unexpected error: %v", err)
		}

		var stored string
		if err := db.QueryRow("SELECT value FROM system_setting WHERE key = 'fx_api_key'").Scan(&stored); err != nil {
			t.Fatalf("Failed to read system_setting: %v", err)
		}
		if stored == "super-secret" {
			t.Error("Expected the stored key to be encrypted, found plaintext")
		}
	})

	t.Run("reports whether a key is stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingService(t, db, "env-key")

		stored, err := svc.HasStoredFXAPIKey()
		if err != nil {
			t.Fatalf("HasStoredFXAPIKey() returned unexpected error: %v", err)
		}
		if stored {
			t.Error("Expected no stored key before SetFXAPIKey")
		}

		if err := svc.SetFXAPIKey("stored-key"); err != nil {
			t.Fatalf("SetFXAPIKey() returned unexpected error: %v", err)
		}

		stored, err = svc.HasStoredFXAPIKey()
		if err != nil {
			t.Fatalf("HasStoredFXAPIKey() returned unexpected error: %v", err)
		}
		if !stored {
			t.Error("Expected a stored key after SetFXAPIKey")
		}
	})
}
