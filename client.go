package chowgo

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chowgpt/chowgo/internal/domain"
	"github.com/chowgpt/chowgo/internal/pipeline"
	"github.com/chowgpt/chowgo/internal/session"
	"github.com/chowgpt/chowgo/internal/store"
	storeMemory "github.com/chowgpt/chowgo/internal/store/memory"
	storeRedis "github.com/chowgpt/chowgo/internal/store/redis"
	"github.com/chowgpt/chowgo/internal/transport/rest"
	"github.com/chowgpt/chowgo/internal/transport/stream"
)

// Client is the chowgo SDK entry point. It owns the session state store,
// the backend transport, and the local ranking pipeline.
type Client struct {
	sessionID string

	api      *rest.Client
	streams  *stream.Client
	pipe     *pipeline.Pipeline
	sessions *session.Manager
	store    store.Store

	logger *zap.Logger
	obs    *observer
	clock  domain.Clock
}

// funcClock adapts a now function to domain.Clock.
type funcClock func() time.Time

func (f funcClock) Now() time.Time { return f() }

// New creates a chowgo Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		storeDriver: "memory",
		ttl:         session.DefaultTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.baseURL == "" {
		return nil, errors.New("chowgo: backend base URL required (use WithBaseURL)")
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var clock domain.Clock = domain.SystemClock()
	if cfg.now != nil {
		clock = funcClock(cfg.now)
	}

	st, err := createStore(cfg, clock)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(logger, cfg.metricsReg)
	if err != nil {
		st.Close()
		return nil, err
	}

	sessionID := cfg.sessionID
	if sessionID == "" {
		sessionID = session.NewID()
	}

	api := rest.NewClient(rest.Config{
		BaseURL:    cfg.baseURL,
		HTTPClient: cfg.httpClient,
		Token:      cfg.token,
		Logger:     logger,
	})

	return &Client{
		sessionID: sessionID,
		api:       api,
		streams:   stream.NewClient(api.OpenStream, logger),
		pipe:      pipeline.New(clock),
		sessions:  session.NewManager(st, cfg.ttl, logger),
		store:     st,
		logger:    logger,
		obs:       obs,
		clock:     clock,
	}, nil
}

func createStore(cfg *clientConfig, clock domain.Clock) (store.Store, error) {
	switch cfg.storeDriver {
	case "memory":
		return storeMemory.NewStore(storeMemory.Config{
			SweepInterval: cfg.sweepInterval,
			Clock:         clock,
		}), nil
	case "redis":
		s, err := storeRedis.NewStore(storeRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("chowgo: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("chowgo: unknown store driver %q", cfg.storeDriver)
	}
}

// SessionID returns the client's current chat session identifier.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Close releases the session store.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
