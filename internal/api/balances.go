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

package api

import (
	"net/http"
	"strconv"

	"token-rush-go/internal/models"

	"github.com/gin-gonic/gin"
)

func (s *GameService) balance(c *gin.Context) {
	balance, err := s.transfers.PlayerBalance(c.Request.Context(), c.Query("address"))
	if err != nil {
		abortWithError(c, err, "Failed to get balance")
		return
	}

	c.JSON(http.StatusOK, models.BalanceResponse{Balance: balance})
}

func (s *GameService) treasuryBalance(c *gin.Context) {
	balance, err := s.transfers.TreasuryBalance(c.Request.Context())
	if err != nil {
		abortWithError(c, err, "Failed to get treasury balance")
		return
	}

	c.JSON(http.StatusOK, models.BalanceResponse{Balance: balance})
}

func (s *GameService) transaction(c *gin.Context) {
	tx, err := s.transfers.Transaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err, "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, models.TransactionResponse{Result: tx})
}

// transactions lists provider transactions; unparseable page/limit fall back to defaults
func (s *GameService) transactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := s.transfers.Transactions(c.Request.Context(), page, limit)
	if err != nil {
		abortWithError(c, err, "Failed to get transactions")
		return
	}

	c.JSON(http.StatusOK, models.TransactionsResponse{Transactions: list})
}

func (s *GameService) leaderboard(c *gin.Context) {
	owners, err := s.transfers.Leaderboard(c.Request.Context())
	if err != nil {
		abortWithError(c, err, "Failed to fetch leaderboard")
		return
	}

	c.JSON(http.StatusOK, models.LeaderboardResponse{Owners: owners})
}
