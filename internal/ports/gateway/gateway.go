package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
	"github.com/quic-go/webtransport-go"

	"hiddencard/internal/app"
	"hiddencard/internal/auth"
	"hiddencard/internal/codec"
	"hiddencard/internal/config"
	"hiddencard/internal/domain"
)

type inboundEvent struct {
	clientID domain.ClientID
	ev       domain.Event
}

type connChange struct {
	clientID  domain.ClientID
	connected bool
}

type outbound struct {
	to []domain.ClientID
	ev domain.Event
}

// Gateway is the WebTransport front of the server. Reader goroutines feed
// the inbound queue; the registry and every room are driven exclusively by
// the tick loop, so game state needs no locking.
type Gateway struct {
	cfg      *config.ServerConfig
	tokens   *auth.TokenService
	registry *app.Registry
	manager  *Manager
	logger   *slog.Logger

	tlsConf  *tls.Config
	wtServer *webtransport.Server

	inbound  chan inboundEvent
	changes  chan connChange
	deferred []outbound
	wg       sync.WaitGroup
}

// New loads the TLS material and wires the registry to the gateway's
// outbox. The gateway itself is the registry's event sink.
func New(cfg *config.ServerConfig, tokens *auth.TokenService, rng *rand.Rand, logger *slog.Logger) (*Gateway, error) {
	tlsConf, err := loadTLSConfig(cfg.CertFile, cfg.KeyFile, logger)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		cfg:     cfg,
		tokens:  tokens,
		manager: NewManager(),
		logger:  logger,
		tlsConf: tlsConf,
		inbound: make(chan inboundEvent, 1024),
		changes: make(chan connChange, 64),
	}
	g.registry = app.NewRegistry(rng, g, logger)
	return g, nil
}

// Registry exposes the room registry, used by tests and dev tooling.
func (g *Gateway) Registry() *app.Registry { return g.registry }

// CertificateHash returns the fingerprint clients pin for the self-signed
// development certificate.
func (g *Gateway) CertificateHash() string { return certificateHash(g.tlsConf) }

// Start runs the tick loop and serves WebTransport upgrades until the
// context is canceled.
func (g *Gateway) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/game", g.handleUpgrade)

	g.wtServer = &webtransport.Server{
		H3: http3.Server{
			Addr:      g.cfg.GameAddr,
			TLSConfig: g.tlsConf,
			Handler:   mux,
			QUICConfig: &quic.Config{
				EnableDatagrams: true,
			},
		},
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	go g.runTicks(ctx)

	g.logger.Info("gateway listening", "addr", g.cfg.GameAddr)
	return g.wtServer.ListenAndServe()
}

// Shutdown closes the listener and waits for session goroutines.
func (g *Gateway) Shutdown() {
	if g.wtServer != nil {
		g.wtServer.Close()
	}
	g.wg.Wait()
}

func (g *Gateway) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	id, err := g.tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		g.logger.Debug("rejected upgrade", "err", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	session, err := g.wtServer.Upgrade(w, r)
	if err != nil {
		g.logger.Error("upgrade failed", "err", err)
		return
	}

	g.wg.Add(1)
	go g.handleSession(r.Context(), id, session)
}

func (g *Gateway) handleSession(ctx context.Context, id domain.ClientID, session *webtransport.Session) {
	defer g.wg.Done()

	if g.manager.Count() >= g.cfg.MaxClients {
		g.logger.Warn("server full, dropping session", "client", id)
		session.CloseWithError(4000, "server full")
		return
	}

	conn := NewConnection(id, session, g.logger)
	g.manager.Add(conn)
	g.changes <- connChange{clientID: id, connected: true}
	g.logger.Info("client connected", "client", id)

	defer func() {
		g.manager.Remove(conn)
		conn.Close()
		g.changes <- connChange{clientID: id, connected: false}
		g.logger.Info("client disconnected", "client", id)
	}()

	// The client speaks over a single bidirectional stream; every frame on
	// it is one length-prefixed event.
	stream, err := session.AcceptStream(ctx)
	if err != nil {
		return
	}
	defer stream.Close()

	for {
		ev, err := codec.ReadFrame(stream, g.cfg.MaxFrameBytes)
		if err != nil {
			if errors.Is(err, codec.ErrUnknownKind) || errors.Is(err, codec.ErrFrameTooLarge) {
				g.logger.Warn("protocol violation", "client", id, "err", err)
			}
			return
		}
		g.inbound <- inboundEvent{clientID: id, ev: ev}
	}
}
