package database

const (
	// Current user queries
	queryGetCurrentUser = `
		SELECT user_id, email, wallet_address, smart_wallet_address, created_at, csrf_token
		FROM player_profile
		WHERE slot = 1`

	queryUpsertCurrentUser = `
		INSERT INTO player_profile (slot, user_id, email, wallet_address, smart_wallet_address, created_at, csrf_token, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			user_id = excluded.user_id,
			email = excluded.email,
			wallet_address = excluded.wallet_address,
			smart_wallet_address = excluded.smart_wallet_address,
			created_at = excluded.created_at,
			csrf_token = excluded.csrf_token,
			updated_at = excluded.updated_at`

	queryDeleteCurrentUser = `
		DELETE FROM player_profile WHERE slot = 1`

	// Transaction queries
	queryCheckDuplicateTransaction = `
		SELECT id FROM transactions WHERE id = ?`

	queryInsertTransaction = `
		INSERT INTO transactions (id, kind, transaction_hash, amount, status, created_at, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	querySetTransactionHash = `
		UPDATE transactions SET transaction_hash = ? WHERE id = ?`

	querySetTransactionAmount = `
		UPDATE transactions SET amount = ? WHERE id = ?`

	queryGetTransactionStatus = `
		SELECT status FROM transactions WHERE id = ?`

	queryUpdateTransactionStatus = `
		UPDATE transactions
		SET status = ?, confirmed_at = ?
		WHERE id = ? AND status = 'pending'`

	queryGetTransaction = `
		SELECT id, kind, transaction_hash, amount, status, created_at, confirmed_at
		FROM transactions
		WHERE id = ?`

	queryListTransactions = `
		SELECT id, kind, transaction_hash, amount, status, created_at, confirmed_at
		FROM transactions
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	queryListPendingTransactions = `
		SELECT id, kind, transaction_hash, amount, status, created_at, confirmed_at
		FROM transactions
		WHERE status = 'pending'
		ORDER BY created_at DESC, id DESC`
)
