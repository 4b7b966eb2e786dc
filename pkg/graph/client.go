package graph

import (
	"context"
	"fmt"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Row is a single query result record keyed by return column name.
type Row map[string]any

// Runner executes one parameterized Cypher query and eagerly collects the
// result rows. Services depend on this interface so multi-query mutations can
// run against either the client (auto-commit) or an open transaction.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) ([]Row, error)
}

// Client wraps the Neo4j driver with the one-session-per-call access pattern
// used across the API. Driver-level errors propagate to the caller unmodified;
// classification happens in the services.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// New builds a driver against the configured bolt URI and verifies
// connectivity before returning.
func New(ctx context.Context, cfg config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *neo4j.Config) {
			if cfg.MaxConnectionPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
			}
			if cfg.ConnectionTimeout > 0 {
				c.ConnectionAcquisitionTimeout = cfg.ConnectionTimeout
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	return &Client{driver: driver, database: cfg.Database}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// Ping exposes the health-check surface.
func (c *Client) Ping(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Client) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
}

// Read executes a single query in a managed read transaction.
func (c *Client) Read(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collect(ctx, tx, cypher, params)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Row), nil
}

// Write executes a single query in a managed write transaction.
func (c *Client) Write(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collect(ctx, tx, cypher, params)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Row), nil
}

// Run satisfies Runner with auto-commit write semantics, matching the
// historical single-query call sites.
func (c *Client) Run(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	return c.Write(ctx, cypher, params)
}

// WriteTx runs fn inside one managed write transaction. Every query issued
// through the supplied Runner commits or rolls back atomically, which is what
// keeps stock decrements, order creation and notification fan-out consistent.
func (c *Client) WriteTx(ctx context.Context, fn func(Runner) error) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := fn(&txRunner{tx: tx}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

type txRunner struct {
	tx neo4j.ManagedTransaction
}

func (r *txRunner) Run(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	return collect(ctx, r.tx, cypher, params)
}

func collect(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) ([]Row, error) {
	result, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = record.Values[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
