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
	"sync"
	"time"

	"token-rush-go/internal/models"
	"token-rush-go/internal/store"

	"golang.org/x/sync/errgroup"
)

const defaultPollingInterval = 3 * time.Second

// TransactionFetcher reads a provider transaction by id
type TransactionFetcher interface {
	Transaction(ctx context.Context, id string) (*models.ProviderTransaction, error)
}

// TransactionPollerConfig contains configuration for TransactionPoller
type TransactionPollerConfig struct {
	Fetcher         TransactionFetcher
	Store           store.TransactionStore
	PollingInterval time.Duration
	// MaxPolls stops polling a transaction that is still pending after this
	// many fetches. The local record stays pending. Zero polls forever.
	MaxPolls int
	// OnUpdate is called once per tracked transaction when it reaches a
	// terminal status.
	OnUpdate func(models.TransactionUpdate)
}

// tracked is one transaction in the active set
type tracked struct {
	localId    string
	providerId string
	stop       chan struct{}
}

// TransactionPoller polls the API for provider transactions until each one
// is confirmed or failed, then updates the local record.
type TransactionPoller struct {
	fetcher         TransactionFetcher
	store           store.TransactionStore
	pollingInterval time.Duration
	maxPolls        int
	onUpdate        func(models.TransactionUpdate)

	// Active set keyed by provider transaction id
	active map[string]*tracked
	mutex  sync.Mutex
	group  errgroup.Group

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewTransactionPoller creates a new transaction poller
func NewTransactionPoller(cfg TransactionPollerConfig) *TransactionPoller {
	interval := cfg.PollingInterval
	if interval <= 0 {
		interval = defaultPollingInterval
	}

	return &TransactionPoller{
		fetcher:         cfg.Fetcher,
		store:           cfg.Store,
		pollingInterval: interval,
		maxPolls:        cfg.MaxPolls,
		onUpdate:        cfg.OnUpdate,
		active:          make(map[string]*tracked),
		stopChan:        make(chan struct{}),
	}
}

// ActiveCount returns the number of transactions still being polled
func (p *TransactionPoller) ActiveCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.active)
}

// claim removes an id from the active set. Only the caller that gets true
// may report a status for it.
func (p *TransactionPoller) claim(providerId string, entry *tracked) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	current, exists := p.active[providerId]
	if !exists || current != entry {
		return false
	}
	delete(p.active, providerId)
	return true
}

func (p *TransactionPoller) stopped() bool {
	select {
	case <-p.stopChan:
		return true
	default:
		return false
	}
}
