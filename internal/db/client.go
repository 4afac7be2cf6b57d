// Package db persists scored entity graphs in SurrealDB.
package db

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/contrib/rews"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/logger"
	"github.com/surrealdb/surrealdb.go/surrealcbor"
)

func init() {
	// WebSocket upgrade requires HTTP/1.1; keep WSS from negotiating HTTP/2.
	gorillaws.DefaultDialer.TLSClientConfig = &tls.Config{
		NextProtos: []string{"http/1.1"},
	}
}

// Config holds SurrealDB connection configuration.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
	AuthLevel string // "root" or "database"
}

// Client wraps a SurrealDB connection with auto-reconnect.
type Client struct {
	conn   *rews.Connection[*gorillaws.Connection]
	db     *surrealdb.DB
	cfg    Config
	logger logger.Logger
}

// NewClient connects, authenticates and selects the namespace/database.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	sdkLogger := logger.New(log.Handler())

	codec := surrealcbor.New()

	// gorillaws appends /rpc itself
	baseURL := strings.TrimSuffix(cfg.URL, "/rpc")

	conn := rews.New(
		func(ctx context.Context) (*gorillaws.Connection, error) {
			return gorillaws.New(&connection.Config{
				BaseURL:     baseURL,
				Marshaler:   codec,
				Unmarshaler: codec,
				Logger:      sdkLogger,
			}), nil
		},
		5*time.Second,
		codec,
		sdkLogger,
	)

	retryer := rews.NewExponentialBackoffRetryer()
	retryer.InitialDelay = 1 * time.Second
	retryer.MaxDelay = 30 * time.Second
	retryer.Multiplier = 2.0
	retryer.MaxRetries = 10
	conn.Retryer = retryer

	sdkLogger.Info("connecting to SurrealDB", "url", cfg.URL)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("from connection: %w", err)
	}

	auth := surrealdb.Auth{Username: cfg.Username, Password: cfg.Password}
	if cfg.AuthLevel == "database" {
		auth.Namespace = cfg.Namespace
		auth.Database = cfg.Database
	}
	if _, err := db.SignIn(ctx, auth); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("signin: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("use: %w", err)
	}

	sdkLogger.Info("SurrealDB connection established", "namespace", cfg.Namespace, "database", cfg.Database)
	return &Client{conn: conn, db: db, cfg: cfg, logger: sdkLogger}, nil
}

// Close closes the SurrealDB connection.
func (c *Client) Close(ctx context.Context) error {
	c.logger.Debug("closing SurrealDB connection")
	return c.conn.Close(ctx)
}

// InitSchema defines the erdscan tables.
func (c *Client) InitSchema(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, c.db, SchemaSQL, nil); err != nil {
		return fmt.Errorf("init schema: %w", wrapQueryError(err))
	}
	return nil
}

// WipeData deletes all erdscan records while preserving schema.
// Use for testing only.
func (c *Client) WipeData(ctx context.Context) error {
	c.logger.Warn("wiping all data from database")

	// relations first
	for _, table := range []string{"links_to", "schema_entity", "score_run"} {
		if _, err := surrealdb.Query[any](ctx, c.db, fmt.Sprintf("DELETE %s", table), nil); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}
