package api

import (
	"net/http"
	"strconv"
	"time"

	"token-rush-go/internal/metrics"
	"token-rush-go/internal/models"
	"token-rush-go/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	requestIdHeader = "X-Request-Id"
	authTokenKey    = "authToken"
)

// NewRouter wires every game endpoint onto a gin engine
func NewRouter(s *GameService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestContext(), observe())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/send-code", s.sendCode)
	auth.POST("/verify-code", s.verifyCode)
	auth.POST("/logout", s.logout)

	api.POST("/user", s.createUser)

	// GET balance checks need a session but no CSRF token
	readOnly := s.requireSession(session.WithCSRFMethods())
	api.GET("/balance", readOnly, s.balance)
	api.GET("/treasury-balance", readOnly, s.treasuryBalance)

	guarded := s.requireSession()
	api.POST("/reward", guarded, s.reward)
	api.POST("/penalty", guarded, s.penalty)
	api.POST("/withdraw", guarded, s.withdraw)

	api.GET("/transaction/:id", noStore(), s.transaction)
	api.GET("/transactions", s.transactions)
	api.GET("/leaderboard", noStore(), s.leaderboard)

	return r
}

// requireSession runs the session/CSRF guard and stores the auth token for the handler
func (s *GameService) requireSession(opts ...session.VerifyOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		authToken, err := s.guard.Verify(c.Request, opts...)
		if err != nil {
			abortWithError(c, err, "Unauthorized")
			return
		}
		c.Set(authTokenKey, authToken)
		c.Next()
	}
}

func requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(requestIdHeader)
		if requestId == "" {
			requestId = uuid.New().String()
		}
		c.Header(requestIdHeader, requestId)

		ctx := models.WithRequestContext(c.Request.Context(), &models.RequestContext{
			RequestId: requestId,
			Route:     c.FullPath(),
			ClientIp:  c.ClientIP(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		zap.L().Debug("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// noStore marks responses as uncacheable, including error responses
func noStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
