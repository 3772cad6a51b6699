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

package listener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"token-rush-go/internal/models"
	"token-rush-go/internal/store"

	"go.uber.org/zap"
)

// Track starts polling providerId and resolves the local record localId once
// the provider reports a terminal status. Tracking an id that is already
// active is a no-op and returns false.
func (p *TransactionPoller) Track(ctx context.Context, localId, providerId string) bool {
	if providerId == "" || p.stopped() {
		return false
	}

	entry := &tracked{
		localId:    localId,
		providerId: providerId,
		stop:       make(chan struct{}),
	}

	p.mutex.Lock()
	if _, exists := p.active[providerId]; exists {
		p.mutex.Unlock()
		return false
	}
	p.active[providerId] = entry
	p.mutex.Unlock()

	zap.L().Debug("Tracking transaction",
		zap.String("transaction_id", localId),
		zap.String("provider_id", providerId))

	p.group.Go(func() error {
		p.pollLoop(ctx, entry)
		return nil
	})
	return true
}

// Untrack stops polling providerId without changing the local record
func (p *TransactionPoller) Untrack(providerId string) {
	p.mutex.Lock()
	entry, exists := p.active[providerId]
	if exists {
		delete(p.active, providerId)
	}
	p.mutex.Unlock()

	if exists {
		close(entry.stop)
		zap.L().Debug("Untracked transaction", zap.String("provider_id", providerId))
	}
}

// Stop ends all polling without status changes and waits for the pollers to exit
func (p *TransactionPoller) Stop() {
	p.stopOnce.Do(func() {
		zap.L().Debug("Stopping transaction poller")
		close(p.stopChan)
	})

	p.mutex.Lock()
	for id := range p.active {
		delete(p.active, id)
	}
	p.mutex.Unlock()

	_ = p.group.Wait()
}

// Wait blocks until every tracked transaction has been resolved, untracked
// or abandoned. Call it after the transactions of interest are tracked.
func (p *TransactionPoller) Wait() {
	_ = p.group.Wait()
}

// pollLoop runs the polling loop for one transaction
func (p *TransactionPoller) pollLoop(ctx context.Context, entry *tracked) {
	defer p.claim(entry.providerId, entry)

	ticker := time.NewTicker(p.pollingInterval)
	defer ticker.Stop()

	polls := 0
	for {
		select {
		case <-ticker.C:
		case <-entry.stop:
			return
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		}

		polls++
		status, confirmedAt, fetchErr := p.pollOnce(ctx, entry.providerId)
		if status.IsTerminal() {
			p.resolve(ctx, entry, status, confirmedAt, fetchErr)
			return
		}

		if p.maxPolls > 0 && polls >= p.maxPolls {
			zap.L().Warn("Transaction still pending, giving up",
				zap.String("transaction_id", entry.localId),
				zap.String("provider_id", entry.providerId),
				zap.Int("polls", polls))
			return
		}
	}
}

// pollOnce fetches the provider record and derives the local status
func (p *TransactionPoller) pollOnce(ctx context.Context, providerId string) (models.TransactionStatus, *time.Time, error) {
	tx, err := p.fetcher.Transaction(ctx, providerId)
	if err != nil {
		// A cancelled poll is not a provider verdict
		if ctx.Err() != nil {
			return models.StatusPending, nil, nil
		}
		zap.L().Warn("Failed to fetch transaction status",
			zap.String("provider_id", providerId),
			zap.Error(err))
		return models.StatusFailed, nil, fmt.Errorf("fetch transaction %s: %w", providerId, err)
	}

	status, confirmedAt := StatusOf(tx, time.Now().UTC())
	zap.L().Debug("Polled transaction",
		zap.String("provider_id", providerId),
		zap.String("provider_status", tx.Status),
		zap.String("status", string(status)))
	return status, confirmedAt, nil
}

// resolve reports a terminal status exactly once
func (p *TransactionPoller) resolve(ctx context.Context, entry *tracked, status models.TransactionStatus, confirmedAt *time.Time, cause error) {
	if !p.claim(entry.providerId, entry) {
		return
	}

	// The record is updated even if the caller's context is done
	storeCtx := context.WithoutCancel(ctx)
	err := p.store.UpdateTransactionStatus(storeCtx, entry.localId, status, confirmedAt)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrAlreadyTerminal):
		zap.L().Debug("Transaction already resolved",
			zap.String("transaction_id", entry.localId))
	default:
		zap.L().Error("Failed to update transaction status",
			zap.String("transaction_id", entry.localId),
			zap.String("status", string(status)),
			zap.Error(err))
	}

	zap.L().Info("Transaction resolved",
		zap.String("transaction_id", entry.localId),
		zap.String("provider_id", entry.providerId),
		zap.String("status", string(status)))

	if p.onUpdate != nil {
		p.onUpdate(models.TransactionUpdate{
			TransactionId: entry.localId,
			Status:        status,
			ConfirmedAt:   confirmedAt,
			Err:           cause,
		})
	}
}
