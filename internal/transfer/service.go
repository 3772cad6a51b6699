/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package transfer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"token-rush-go/internal/metrics"
	"token-rush-go/internal/models"
	"token-rush-go/internal/thirdweb"
	"token-rush-go/internal/token"

	"go.uber.org/zap"
)

var ErrInvalidAuthToken = errors.New("invalid authentication token")

// ValidationError is a client input problem; its message is safe to return.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Gateway is the part of the custodial wallet provider the transfer flow needs
type Gateway interface {
	CreateWallet(ctx context.Context, identifier string) (*models.Wallet, error)
	GetUserDetails(ctx context.Context, authToken string) (*models.UserDetails, error)
	GetTokenBalance(ctx context.Context, wallet, tokenAddress string, chainId int64) (string, error)
	TransferTokens(ctx context.Context, from, to, amount, tokenAddress string, chainId int64, authToken string) ([]string, error)
	GetTransaction(ctx context.Context, transactionId string) (*models.ProviderTransaction, error)
	ListTransactions(ctx context.Context, page, limit int) (*models.TransactionList, error)
	GetTokenOwners(ctx context.Context, chainId int64, tokenAddress string, limit int) ([]models.TokenOwner, error)
	SendLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (*models.LoginResult, error)
}

var _ Gateway = (*thirdweb.Service)(nil)

type Service struct {
	gateway Gateway
	economy models.EconomyConfig

	rewardAmount  *big.Int
	penaltyAmount *big.Int
}

func NewService(gateway Gateway, economy models.EconomyConfig) (*Service, error) {
	rewardAmount, err := token.ToBaseUnits(economy.RewardAmount, economy.Decimals)
	if err != nil {
		return nil, fmt.Errorf("invalid reward amount: %w", err)
	}

	penaltyAmount, err := token.ToBaseUnits(economy.PenaltyAmount, economy.Decimals)
	if err != nil {
		return nil, fmt.Errorf("invalid penalty amount: %w", err)
	}

	return &Service{
		gateway:       gateway,
		economy:       economy,
		rewardAmount:  rewardAmount,
		penaltyAmount: penaltyAmount,
	}, nil
}

// resolvePlayer maps a session token to the player's wallet address
func (s *Service) resolvePlayer(ctx context.Context, authToken string) (string, error) {
	details, err := s.gateway.GetUserDetails(ctx, authToken)
	if err != nil {
		// Only a rejected token ends the session; provider outages are upstream errors.
		if errors.Is(err, thirdweb.ErrInvalidAuthToken) || isUpstreamClientError(err) {
			return "", fmt.Errorf("%w: %w", ErrInvalidAuthToken, err)
		}
		return "", fmt.Errorf("unable to resolve player: %w", err)
	}
	if details.Address == "" {
		return "", invalid("No wallet address found for user")
	}
	return details.Address, nil
}

func (s *Service) balanceOf(ctx context.Context, wallet string) (*big.Int, error) {
	raw, err := s.gateway.GetTokenBalance(ctx, wallet, s.economy.TokenAddress, s.economy.ChainId)
	if err != nil {
		return nil, fmt.Errorf("unable to read balance: %w", err)
	}

	balance, err := token.ParseBaseUnits(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to parse balance %q: %w", raw, err)
	}
	return balance, nil
}

// validateTiming rejects hits reported before the game started or outside the
// hit window. The timestamps come from the client, so this only filters out
// obviously malformed reports.
func (s *Service) validateTiming(data *models.GameSessionData) error {
	if data == nil {
		return nil
	}
	if data.TargetHitTime < data.GameStartTime {
		return invalid("Invalid game timing: hit recorded before game start")
	}
	// Compared without subtracting: client timestamps can be anywhere in int64.
	// A start closer than the window to MaxInt64 cannot have a late hit.
	window := s.economy.HitWindow.Milliseconds()
	if data.GameStartTime <= math.MaxInt64-window && data.TargetHitTime > data.GameStartTime+window {
		return invalid("Invalid game timing: hit outside the %s window", s.economy.HitWindow)
	}
	return nil
}

// Reward sends the fixed reward from the treasury to the session's player.
// The treasury is authorized by the server's secret key alone.
func (s *Service) Reward(ctx context.Context, authToken string, data *models.GameSessionData) (*models.TransferResult, error) {
	player, err := s.resolvePlayer(ctx, authToken)
	if err != nil {
		s.recordOutcome(models.KindReward, err)
		return nil, err
	}

	if err := s.validateTiming(data); err != nil {
		zap.L().Warn("Rejected reward with invalid timing",
			zap.String("player", player),
			zap.Int64("game_start_time", data.GameStartTime),
			zap.Int64("target_hit_time", data.TargetHitTime))
		s.recordOutcome(models.KindReward, err)
		return nil, err
	}

	amount := s.rewardAmount.String()
	ids, err := s.gateway.TransferTokens(ctx, s.economy.TreasuryAddress, player, amount, s.economy.TokenAddress, s.economy.ChainId, "")
	if err != nil {
		s.recordOutcome(models.KindReward, err)
		return nil, fmt.Errorf("unable to send reward: %w", err)
	}

	s.recordOutcome(models.KindReward, nil)
	return &models.TransferResult{
		TransactionIds: nonNil(ids),
		Amount:         amount,
	}, nil
}

// Penalty moves min(balance, penalty) from the player back to the treasury,
// authorized by the player's own session token. A zero balance makes no
// provider write.
func (s *Service) Penalty(ctx context.Context, authToken string) (*models.TransferResult, error) {
	player, err := s.resolvePlayer(ctx, authToken)
	if err != nil {
		s.recordOutcome(models.KindPenalty, err)
		return nil, err
	}

	balance, err := s.balanceOf(ctx, player)
	if err != nil {
		s.recordOutcome(models.KindPenalty, err)
		return nil, err
	}

	transferAmount := new(big.Int).Set(s.penaltyAmount)
	if balance.Cmp(transferAmount) < 0 {
		transferAmount.Set(balance)
	}

	result := &models.TransferResult{
		TransactionIds: []string{},
		Amount:         s.penaltyAmount.String(),
		ActualAmount:   transferAmount.String(),
	}

	if transferAmount.Sign() == 0 {
		zap.L().Info("Skipping penalty for empty wallet", zap.String("player", player))
		metrics.Transfers.WithLabelValues(models.KindPenalty, metrics.OutcomeSkipped).Inc()
		return result, nil
	}

	ids, err := s.gateway.TransferTokens(ctx, player, s.economy.TreasuryAddress, transferAmount.String(), s.economy.TokenAddress, s.economy.ChainId, authToken)
	if err != nil {
		s.recordOutcome(models.KindPenalty, err)
		return nil, fmt.Errorf("unable to apply penalty: %w", err)
	}

	s.recordOutcome(models.KindPenalty, nil)
	result.TransactionIds = nonNil(ids)
	return result, nil
}

// Withdraw sends the player's entire balance to recipient. The recipient is
// validated before any provider call.
func (s *Service) Withdraw(ctx context.Context, authToken, recipient string) (*models.TransferResult, error) {
	if recipient == "" {
		err := invalid("Recipient address is required")
		s.recordOutcome(models.KindWithdraw, err)
		return nil, err
	}
	if !token.IsAddress(recipient) {
		err := invalid("Invalid recipient address")
		s.recordOutcome(models.KindWithdraw, err)
		return nil, err
	}

	player, err := s.resolvePlayer(ctx, authToken)
	if err != nil {
		s.recordOutcome(models.KindWithdraw, err)
		return nil, err
	}

	balance, err := s.balanceOf(ctx, player)
	if err != nil {
		s.recordOutcome(models.KindWithdraw, err)
		return nil, err
	}

	if balance.Sign() == 0 {
		zap.L().Info("Nothing to withdraw", zap.String("player", player))
		metrics.Transfers.WithLabelValues(models.KindWithdraw, metrics.OutcomeSkipped).Inc()
		return &models.TransferResult{TransactionIds: []string{}, Amount: "0"}, nil
	}

	amount := balance.String()
	ids, err := s.gateway.TransferTokens(ctx, player, recipient, amount, s.economy.TokenAddress, s.economy.ChainId, authToken)
	if err != nil {
		s.recordOutcome(models.KindWithdraw, err)
		return nil, fmt.Errorf("unable to process withdraw: %w", err)
	}

	zap.L().Info("Withdraw submitted",
		zap.String("player", player),
		zap.String("recipient", recipient),
		zap.String("amount", amount))

	s.recordOutcome(models.KindWithdraw, nil)
	return &models.TransferResult{
		TransactionIds: nonNil(ids),
		Amount:         amount,
	}, nil
}

func (s *Service) recordOutcome(kind string, err error) {
	outcome := metrics.OutcomeSubmitted
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) || errors.Is(err, ErrInvalidAuthToken) {
			outcome = metrics.OutcomeRejected
		} else {
			outcome = metrics.OutcomeFailed
		}
	}
	metrics.Transfers.WithLabelValues(kind, outcome).Inc()
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
