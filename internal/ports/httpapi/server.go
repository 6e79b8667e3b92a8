package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hiddencard/internal/auth"
	"hiddencard/internal/config"
)

// Server is the discovery endpoint clients hit before opening a game
// session. It hands out the WebTransport URL, the certificate fingerprint
// to pin, and a fresh session token.
type Server struct {
	cfg      *config.ServerConfig
	tokens   *auth.TokenService
	certHash string
	logger   *slog.Logger
	engine   *gin.Engine
}

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	GameURL  string `json:"game_url"`
	CertHash string `json:"cert_hash,omitempty"`
	ClientID string `json:"client_id"`
	Token    string `json:"token"`
}

func New(cfg *config.ServerConfig, tokens *auth.TokenService, certHash string, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		tokens:   tokens,
		certHash: certHash,
		logger:   logger,
		engine:   engine,
	}
	engine.GET("/info", s.handleInfo)
	engine.GET("/healthz", s.handleHealthz)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run() error {
	s.logger.Info("discovery listening", "addr", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

func (s *Server) handleInfo(c *gin.Context) {
	id, token, err := s.tokens.Issue()
	if err != nil {
		s.logger.Error("issue token", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}

	c.Header("Access-Control-Allow-Origin", "*")
	c.JSON(http.StatusOK, InfoResponse{
		GameURL:  s.cfg.PublicURL,
		CertHash: s.certHash,
		ClientID: string(id),
		Token:    token,
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
