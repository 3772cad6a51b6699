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

package thirdweb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"token-rush-go/internal/metrics"
	"token-rush-go/internal/models"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

const maxErrorBody = 512

var (
	ErrWalletCreation   = errors.New("wallet creation failed")
	ErrInvalidAuthToken = errors.New("invalid authentication token")
)

// ProviderError is returned when the provider answers with a non-2xx status.
// Body is the raw response body, truncated; request headers are never kept.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

type Service struct {
	client    http.Client
	baseURL   string
	secretKey string
}

func NewService(cfg models.ProviderConfig) (*Service, error) {
	httpClient, err := createCustomHttpClient(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	return &Service{
		client:    httpClient,
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
	}, nil
}

func createCustomHttpClient(timeout time.Duration) (http.Client, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

// doRequest performs a provider call and decodes the response into out.
// Responses wrapped in {"result": ...} are unwrapped; anything else is
// decoded from the top-level body.
func (s *Service) doRequest(ctx context.Context, operation, method, path string, body any, authToken string, out any) error {
	start := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("unable to encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("unable to create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-secret-key", s.secretKey)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("method", method),
		zap.String("path", path),
		zap.Bool("user_auth", authToken != ""),
	}
	if rc := models.GetRequestContext(ctx); rc != nil {
		fields = append(fields, zap.String("request_id", rc.RequestId))
	}
	zap.L().Debug("Making provider request", fields...)

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(operation, "transport").Inc()
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close provider response body", zap.Error(err))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(operation, "read").Inc()
		return fmt.Errorf("unable to read %s response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderErrors.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		zap.L().Debug("Provider request failed",
			append(fields, zap.Int("status", resp.StatusCode))...)
		return &ProviderError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	zap.L().Debug("Provider response received",
		append(fields, zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))...)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := decodeResult(data, out); err != nil {
		metrics.ProviderErrors.WithLabelValues(operation, "decode").Inc()
		return fmt.Errorf("unable to decode %s response: %w", operation, err)
	}
	return nil
}

func decodeResult(data []byte, out any) error {
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	// A non-object body (e.g. a bare array) cannot carry an envelope.
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Result) > 0 && string(envelope.Result) != "null" {
		data = envelope.Result
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}
