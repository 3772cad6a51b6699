package listener

import (
	"time"

	"token-rush-go/internal/models"
)

// StatusOf maps a provider transaction to the local lifecycle. A confirmation
// timestamp wins over an error message. The confirmation time falls back to
// now when the provider value cannot be parsed.
func StatusOf(tx *models.ProviderTransaction, now time.Time) (models.TransactionStatus, *time.Time) {
	if tx == nil {
		return models.StatusPending, nil
	}

	if tx.IsConfirmed() {
		confirmedAt := now
		if parsed, err := time.Parse(time.RFC3339Nano, *tx.ConfirmedAt); err == nil {
			confirmedAt = parsed.UTC()
		}
		return models.StatusConfirmed, &confirmedAt
	}

	if tx.IsFailed() || tx.Status == models.ProviderStatusFailed {
		return models.StatusFailed, nil
	}

	return models.StatusPending, nil
}
