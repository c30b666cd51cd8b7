package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simaogato/walletpnl/internal/domain"
	"github.com/simaogato/walletpnl/internal/usecase/pnl"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// PnLCalculator computes the PnL series of a wallet
type PnLCalculator interface {
	CalculatePnL(ctx context.Context, walletAddress string) (*pnl.Result, error)
}

// PnLResponse is the body of a successful /calculate_pnl call
type PnLResponse struct {
	WalletAddress string            `json:"wallet_address"`
	PnL           []domain.PnLPoint `json:"pnl"`
	MissingPrices int               `json:"missing_prices"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Server exposes the PnL calculation over HTTP
type Server struct {
	pnl    PnLCalculator
	router *gin.Engine
}

// NewServer creates the router with all routes registered
func NewServer(pnlService PnLCalculator) *Server {
	g := gin.New()
	g.Use(gin.Recovery())
	g.SetTrustedProxies(nil)

	s := &Server{
		pnl:    pnlService,
		router: g,
	}
	s.routes()

	return s
}

// Handler returns the http.Handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/", s.accessLog(), s.handleIndex())
	s.router.GET("/healthz", s.handleHealth())

	api := s.router.Group("", s.accessLog())
	api.POST("/calculate_pnl", s.handleCalculatePnL())
}

func (s *Server) handleIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello world!"})
	}
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) handleCalculatePnL() gin.HandlerFunc {
	return func(c *gin.Context) {
		address := c.Query("wallet_address")
		if address == "" {
			s.abort(c, http.StatusBadRequest, "wallet_address query parameter is required")
			return
		}

		result, err := s.pnl.CalculatePnL(c.Request.Context(), address)
		if err != nil {
			log.Printf("[%s] pnl calculation for %s failed: %v", c.GetString("request_id"), address, err)
			s.abort(c, statusFor(err), err.Error())
			return
		}

		c.JSON(http.StatusOK, PnLResponse{
			WalletAddress: result.WalletAddress,
			PnL:           result.Points,
			MissingPrices: result.MissingPrices,
		})
	}
}

func (s *Server) abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, RequestID: c.GetString("request_id")})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidWalletAddress):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProviderFailure):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// accessLog tags the request with an id and logs it once handled
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		log.Printf("[%s] %s %s %d (%s)", requestID, c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
