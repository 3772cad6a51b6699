package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"token-rush-go/internal/client"
	"token-rush-go/internal/listener"
	"token-rush-go/internal/models"
	"token-rush-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrBusy is returned when the same action is already being processed
var ErrBusy = errors.New("action already in progress")

const defaultReleaseDelay = time.Second

// API is the part of the game API the player actions use
type API interface {
	Reward(ctx context.Context, data *models.GameSessionData) (*models.TransferResult, error)
	Penalty(ctx context.Context) (*models.TransferResult, error)
	Withdraw(ctx context.Context, recipient string) (*models.TransferResult, error)
	Balance(ctx context.Context, address string) (string, error)
	TreasuryBalance(ctx context.Context) (string, error)
	Leaderboard(ctx context.Context) ([]models.TokenOwner, error)
}

var _ API = (*client.Client)(nil)

// Tracker follows a provider transaction until it is confirmed or failed
type Tracker interface {
	Track(ctx context.Context, localId, providerId string) bool
}

var _ Tracker = (*listener.TransactionPoller)(nil)

type Config struct {
	Decimals      int32
	RewardAmount  decimal.Decimal
	PenaltyAmount decimal.Decimal
	// ReleaseDelay keeps a hit target locked after its reward call returns
	ReleaseDelay time.Duration
}

// Service runs hit, miss and withdraw for the logged-in player. Every action
// leaves a local transaction record that the tracker drives to a terminal
// status.
type Service struct {
	api          API
	users        store.UserStore
	transactions store.TransactionStore
	tracker      Tracker
	decimals      int32
	rewardAmount  decimal.Decimal
	penaltyAmount decimal.Decimal
	releaseDelay  time.Duration

	mutex          sync.Mutex
	processing     map[string]struct{}
	rewardInFlight bool

	now func() time.Time
}

func NewService(api API, profile store.ProfileStore, tracker Tracker, cfg Config) *Service {
	releaseDelay := cfg.ReleaseDelay
	if releaseDelay <= 0 {
		releaseDelay = defaultReleaseDelay
	}

	return &Service{
		api:           api,
		users:         profile,
		transactions:  profile,
		tracker:       tracker,
		decimals:      cfg.Decimals,
		rewardAmount:  cfg.RewardAmount,
		penaltyAmount: cfg.PenaltyAmount,
		releaseDelay:  releaseDelay,
		processing:    make(map[string]struct{}),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CurrentUser returns the stored player or store.ErrNoCurrentUser
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.users.GetCurrentUser(ctx)
}

// acquire marks key as processing. It fails if key is already held.
func (s *Service) acquire(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, busy := s.processing[key]; busy {
		return false
	}
	s.processing[key] = struct{}{}
	return true
}

func (s *Service) release(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.processing, key)
}

// Reset drops every processing mark, e.g. on logout
func (s *Service) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.processing = make(map[string]struct{})
	s.rewardInFlight = false
}

// newRecord stores a pending record for an action
func (s *Service) newRecord(ctx context.Context, kind string, amount decimal.Decimal) (*models.TransactionRecord, error) {
	record := models.TransactionRecord{
		Id:        newRecordId(),
		Kind:      kind,
		Amount:    amount,
		Status:    models.StatusPending,
		CreatedAt: s.now(),
	}
	if err := s.transactions.AddTransaction(ctx, record); err != nil {
		return nil, fmt.Errorf("unable to record %s: %w", kind, err)
	}
	return &record, nil
}

// submitted attaches the first provider id to the record and starts tracking
func (s *Service) submitted(ctx context.Context, record *models.TransactionRecord, ids []string) error {
	if len(ids) == 0 {
		return s.fail(ctx, record, fmt.Errorf("%s returned no transaction id", record.Kind))
	}

	hash := ids[0]
	if err := s.transactions.SetTransactionHash(ctx, record.Id, hash); err != nil {
		return fmt.Errorf("unable to store transaction id: %w", err)
	}
	record.TransactionHash = &hash

	if len(ids) > 1 {
		zap.L().Debug("Tracking only the first transaction id",
			zap.String("transaction_id", record.Id),
			zap.Strings("provider_ids", ids))
	}

	s.tracker.Track(ctx, record.Id, hash)
	return nil
}

// fail marks the record failed and returns cause
func (s *Service) fail(ctx context.Context, record *models.TransactionRecord, cause error) error {
	if err := s.transactions.UpdateTransactionStatus(ctx, record.Id, models.StatusFailed, nil); err != nil {
		zap.L().Error("Failed to mark transaction failed",
			zap.String("transaction_id", record.Id),
			zap.Error(err))
	} else {
		record.Status = models.StatusFailed
	}
	return cause
}
