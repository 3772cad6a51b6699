package api

import (
	"net/http"

	"token-rush-go/internal/models"
	"token-rush-go/internal/transfer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sendCode only serves same-origin callers; it needs no session.
func (s *GameService) sendCode(c *gin.Context) {
	if err := s.guard.VerifySameOrigin(c.Request); err != nil {
		abortWithError(c, err, "Invalid origin")
		return
	}

	var req models.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, &transfer.ValidationError{Message: "Email is required"}, "")
		return
	}

	if err := s.transfers.SendCode(c.Request.Context(), req.Email); err != nil {
		abortWithError(c, err, "Failed to send login code")
		return
	}

	c.JSON(http.StatusOK, models.SendCodeResponse{
		Success: true,
		Message: "Login code sent to your email",
	})
}

func (s *GameService) verifyCode(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, &transfer.ValidationError{Message: "Email and code are required"}, "")
		return
	}

	login, err := s.transfers.Login(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		abortWithError(c, err, "Failed to verify login code")
		return
	}

	csrfToken, err := s.guard.IssueCookies(c.Writer, login.AuthToken)
	if err != nil {
		abortWithError(c, err, "Failed to verify login code")
		return
	}

	user := login.User
	user.CsrfToken = csrfToken

	zap.L().Info("Player logged in",
		zap.String("user_id", user.Id),
		zap.String("wallet_address", user.WalletAddress))

	c.JSON(http.StatusOK, models.VerifyCodeResponse{User: user})
}

// createUser provisions a wallet for a username. Like sendCode it is
// same-origin only.
func (s *GameService) createUser(c *gin.Context) {
	if err := s.guard.VerifySameOrigin(c.Request); err != nil {
		abortWithError(c, err, "Invalid origin")
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, &transfer.ValidationError{Message: "Username is required"}, "")
		return
	}

	user, err := s.transfers.CreateUser(c.Request.Context(), req.Username)
	if err != nil {
		abortWithError(c, err, "Failed to create user")
		return
	}

	zap.L().Info("Wallet provisioned",
		zap.String("user_id", user.Id),
		zap.String("wallet_address", user.WalletAddress))

	c.JSON(http.StatusOK, models.CreateUserResponse{User: *user})
}

func (s *GameService) logout(c *gin.Context) {
	s.guard.ClearCookies(c.Writer)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
