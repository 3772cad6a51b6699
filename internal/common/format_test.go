package common

import (
	"errors"
	"strings"
	"testing"
	"time"

	"token-rush-go/internal/models"

	"github.com/shopspring/decimal"
)

func TestShortId(t *testing.T) {
	tests := map[string]string{
		"":                   "none",
		"abc":                "abc",
		"0123456789ab":       "0123456789ab",
		"0123456789abcdef01": "0123456789ab...",
	}
	for in, want := range tests {
		if got := ShortId(in); got != want {
			t.Errorf("ShortId(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("0.01")); got != "+0.01" {
		t.Errorf("expected +0.01, got %s", got)
	}
	if got := FormatAmount(decimal.RequireFromString("-0.04")); got != "-0.04" {
		t.Errorf("expected -0.04, got %s", got)
	}
	if got := FormatAmount(decimal.Zero); got != "0" {
		t.Errorf("expected 0, got %s", got)
	}
}

func TestFormatTransaction(t *testing.T) {
	hash := "provider-transaction-id"
	line := FormatTransaction(models.TransactionRecord{
		Id:              "local",
		Kind:            models.KindPenalty,
		TransactionHash: &hash,
		Amount:          decimal.RequireFromString("-0.04"),
		Status:          models.StatusConfirmed,
		CreatedAt:       time.Now(),
	})

	for _, part := range []string{"confirmed", "penalty", "-0.04", "provider-tra...", colorGreen} {
		if !strings.Contains(line, part) {
			t.Errorf("expected %q in %q", part, line)
		}
	}
}

func TestFormatProviderTransaction(t *testing.T) {
	hash := "0xabcdef0123456789"
	confirmedAt := "2025-01-01T00:00:09Z"
	failure := "execution reverted"

	tests := []struct {
		name  string
		tx    models.ProviderTransaction
		parts []string
	}{
		{
			name:  "confirmed without status",
			tx:    models.ProviderTransaction{Id: "provider-transaction-1", TransactionHash: &hash, ConfirmedAt: &confirmedAt},
			parts: []string{colorGreen, models.ProviderStatusConfirmed, "provider-tra...", "0xabcdef0123..."},
		},
		{
			name:  "failed carries the error",
			tx:    models.ProviderTransaction{Id: "tx-2", Status: models.ProviderStatusFailed, ErrorMessage: &failure},
			parts: []string{colorRed, "FAILED", "tx-2", "none", "(execution reverted)"},
		},
		{
			name:  "queued",
			tx:    models.ProviderTransaction{Id: "tx-3", Status: models.ProviderStatusQueued, CreatedAt: "2025-01-01T00:00:00Z"},
			parts: []string{colorYellow, "QUEUED", "2025-01-01T00:00:00Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := FormatProviderTransaction(tt.tx)
			for _, part := range tt.parts {
				if !strings.Contains(line, part) {
					t.Errorf("expected %q in %q", part, line)
				}
			}
		})
	}
}

func TestIsIgnorableSyncError(t *testing.T) {
	if !isIgnorableSyncError(errors.New("sync /dev/stderr: inappropriate ioctl for device")) {
		t.Error("expected tty sync error to be ignorable")
	}
	if isIgnorableSyncError(errors.New("disk full")) {
		t.Error("expected other errors to be reported")
	}
}
