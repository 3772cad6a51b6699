package player

import (
	"context"
	"fmt"
	"time"

	"token-rush-go/internal/models"
	"token-rush-go/internal/token"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	actionMiss     = "miss"
	actionWithdraw = "withdraw"
)

func newRecordId() string {
	return uuid.New().String()
}

// Hit claims the reward for hitting targetId. The record is stored pending
// before the API call and fails if the call fails. A target already being
// processed, or any reward still in flight, returns ErrBusy.
func (s *Service) Hit(ctx context.Context, targetId string, gameStart, hitAt time.Time) (*models.TransactionRecord, error) {
	key := "hit:" + targetId
	if !s.acquire(key) {
		return nil, ErrBusy
	}

	s.mutex.Lock()
	if s.rewardInFlight {
		s.mutex.Unlock()
		s.release(key)
		return nil, ErrBusy
	}
	s.rewardInFlight = true
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.rewardInFlight = false
		s.mutex.Unlock()
		time.AfterFunc(s.releaseDelay, func() { s.release(key) })
	}()

	record, err := s.newRecord(ctx, models.KindReward, s.rewardAmount)
	if err != nil {
		return nil, err
	}

	result, err := s.api.Reward(ctx, &models.GameSessionData{
		GameStartTime: gameStart.UnixMilli(),
		TargetHitTime: hitAt.UnixMilli(),
	})
	if err != nil {
		return record, s.fail(ctx, record, fmt.Errorf("reward failed: %w", err))
	}

	if err := s.submitted(ctx, record, result.TransactionIds); err != nil {
		return record, err
	}

	zap.L().Info("Reward submitted",
		zap.String("transaction_id", record.Id),
		zap.String("target_id", targetId),
		zap.String("amount", result.Amount))
	return record, nil
}

// Miss applies the penalty. The record is stored pending with the configured
// penalty before the call and takes the server's actual amount afterwards. A
// zero amount means the balance was empty and nothing was transferred.
func (s *Service) Miss(ctx context.Context) (*models.TransactionRecord, error) {
	if !s.acquire(actionMiss) {
		return nil, ErrBusy
	}
	defer s.release(actionMiss)

	record, err := s.newRecord(ctx, models.KindPenalty, s.penaltyAmount.Neg())
	if err != nil {
		return nil, err
	}

	result, err := s.api.Penalty(ctx)
	if err != nil {
		return record, s.fail(ctx, record, fmt.Errorf("penalty failed: %w", err))
	}

	return s.settleOutgoing(ctx, record, result.ActualAmount, result.TransactionIds)
}

// Withdraw sends the whole balance to recipient. The balance is only known to
// the server, so the pending record starts at zero. A zero amount means there
// was nothing to withdraw.
func (s *Service) Withdraw(ctx context.Context, recipient string) (*models.TransactionRecord, error) {
	if !token.IsAddress(recipient) {
		return nil, fmt.Errorf("invalid recipient address: %q", recipient)
	}

	if !s.acquire(actionWithdraw) {
		return nil, ErrBusy
	}
	defer s.release(actionWithdraw)

	record, err := s.newRecord(ctx, models.KindWithdraw, decimal.Zero)
	if err != nil {
		return nil, err
	}

	result, err := s.api.Withdraw(ctx, recipient)
	if err != nil {
		return record, s.fail(ctx, record, fmt.Errorf("withdraw failed: %w", err))
	}

	return s.settleOutgoing(ctx, record, result.Amount, result.TransactionIds)
}

// settleOutgoing stores the amount the server moved on a penalty or withdraw
// record. An empty transfer confirms the record at zero right away.
func (s *Service) settleOutgoing(ctx context.Context, record *models.TransactionRecord, rawAmount string, ids []string) (*models.TransactionRecord, error) {
	raw, err := token.ParseBaseUnits(rawAmount)
	if err != nil {
		return record, s.fail(ctx, record, fmt.Errorf("unexpected %s amount %q: %w", record.Kind, rawAmount, err))
	}
	amount := token.FromBaseUnits(raw, s.decimals).Neg()

	if !amount.Equal(record.Amount) {
		if err := s.transactions.SetTransactionAmount(ctx, record.Id, amount); err != nil {
			return record, fmt.Errorf("unable to store %s amount: %w", record.Kind, err)
		}
		record.Amount = amount
	}

	if amount.IsZero() && len(ids) == 0 {
		zap.L().Info("Nothing transferred", zap.String("kind", record.Kind))
		settledAt := s.now()
		if err := s.transactions.UpdateTransactionStatus(ctx, record.Id, models.StatusConfirmed, &settledAt); err != nil {
			return record, fmt.Errorf("unable to settle empty %s: %w", record.Kind, err)
		}
		record.Status = models.StatusConfirmed
		record.ConfirmedAt = &settledAt
		return record, nil
	}

	if err := s.submitted(ctx, record, ids); err != nil {
		return record, err
	}

	zap.L().Info("Transfer submitted",
		zap.String("kind", record.Kind),
		zap.String("transaction_id", record.Id),
		zap.String("amount", amount.String()))
	return record, nil
}

// Balance returns the player's balance in token units
func (s *Service) Balance(ctx context.Context) (decimal.Decimal, error) {
	user, err := s.users.GetCurrentUser(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	raw, err := s.api.Balance(ctx, user.WalletAddress)
	if err != nil {
		return decimal.Zero, err
	}
	return s.toUnits(raw)
}

func (s *Service) toUnits(raw string) (decimal.Decimal, error) {
	value, err := token.ParseBaseUnits(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unexpected balance %q: %w", raw, err)
	}
	return token.FromBaseUnits(value, s.decimals), nil
}

// History returns the newest local records first
func (s *Service) History(ctx context.Context, limit int) ([]models.TransactionRecord, error) {
	return s.transactions.ListTransactions(ctx, limit)
}

// Resume tracks records left pending by a previous run. Records that never
// got a provider id cannot be followed and are marked failed.
func (s *Service) Resume(ctx context.Context) (int, error) {
	pending, err := s.transactions.ListPendingTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("unable to list pending transactions: %w", err)
	}

	resumed := 0
	for i := range pending {
		record := pending[i]
		if record.TransactionHash == nil || *record.TransactionHash == "" {
			zap.L().Warn("Pending transaction has no provider id",
				zap.String("transaction_id", record.Id))
			_ = s.fail(ctx, &record, nil)
			continue
		}
		if s.tracker.Track(ctx, record.Id, *record.TransactionHash) {
			resumed++
		}
	}

	zap.L().Info("Resumed pending transactions", zap.Int("count", resumed))
	return resumed, nil
}
