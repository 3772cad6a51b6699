package api

import (
	"errors"
	"io"
	"net/http"

	"token-rush-go/internal/models"
	"token-rush-go/internal/transfer"

	"github.com/gin-gonic/gin"
)

// bindOptionalJSON decodes a JSON body if one was sent. An empty body is
// treated as {}.
func bindOptionalJSON(c *gin.Context, out any) error {
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		return &transfer.ValidationError{Message: "Invalid request body"}
	}
	return nil
}

func (s *GameService) reward(c *gin.Context) {
	var req models.RewardRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		abortWithError(c, err, "")
		return
	}

	result, err := s.transfers.Reward(c.Request.Context(), c.GetString(authTokenKey), req.GameSessionData)
	if err != nil {
		abortWithError(c, err, "Failed to send reward")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *GameService) penalty(c *gin.Context) {
	result, err := s.transfers.Penalty(c.Request.Context(), c.GetString(authTokenKey))
	if err != nil {
		abortWithError(c, err, "Failed to apply penalty")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *GameService) withdraw(c *gin.Context) {
	var req models.WithdrawRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		abortWithError(c, err, "")
		return
	}

	result, err := s.transfers.Withdraw(c.Request.Context(), c.GetString(authTokenKey), req.RecipientAddress)
	if err != nil {
		abortWithError(c, err, "Failed to process withdraw")
		return
	}

	c.JSON(http.StatusOK, result)
}
