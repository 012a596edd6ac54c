package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// InsertQuery writes one normalized row. Column order matches model.NormalizedRow.Values.
const InsertQuery = "INSERT INTO datalake.logs (id, ingestion_id, timestamp, user_id, event_type, page_url, ip_address, device_type, browser, os, response_time) VALUES (?,?,?,?,?,?,?,?,?,?,?)"

// Executor runs a single CQL statement.
type Executor interface {
	Exec(ctx context.Context, stmt string, values ...any) error
}

// ScyllaOptions configures the cluster connection.
type ScyllaOptions struct {
	Hosts      []string
	DataCenter string
	Timeout    time.Duration
}

// NewScyllaSession connects to the cluster. Requests are routed token-aware,
// preferring the local data center when one is configured, and frames are
// Snappy-compressed.
func NewScyllaSession(opts ScyllaOptions) (*gocql.Session, error) {
	if len(opts.Hosts) == 0 {
		return nil, fmt.Errorf("scylla: no hosts configured")
	}
	cluster := gocql.NewCluster(opts.Hosts...)
	cluster.Compressor = &gocql.SnappyCompressor{}

	fallback := gocql.RoundRobinHostPolicy()
	if opts.DataCenter != "" {
		fallback = gocql.DCAwareRoundRobinPolicy(opts.DataCenter)
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(fallback)
	if opts.Timeout > 0 {
		cluster.Timeout = opts.Timeout
		cluster.ConnectTimeout = opts.Timeout
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("scylla: create session: %w", err)
	}
	return session, nil
}

// SessionExecutor runs statements on a shared gocql session.
// The session is safe for concurrent use and is never mutated here.
type SessionExecutor struct {
	session     *gocql.Session
	consistency gocql.Consistency
	override    bool
}

// NewSessionExecutor runs statements at the session's default consistency.
func NewSessionExecutor(session *gocql.Session) *SessionExecutor {
	return &SessionExecutor{session: session}
}

// WithConsistency returns an executor that runs statements at c.
func (e *SessionExecutor) WithConsistency(c gocql.Consistency) *SessionExecutor {
	return &SessionExecutor{session: e.session, consistency: c, override: true}
}

func (e *SessionExecutor) Exec(ctx context.Context, stmt string, values ...any) error {
	q := e.session.Query(stmt, values...).WithContext(ctx)
	if e.override {
		q = q.Consistency(e.consistency)
	}
	return q.Exec()
}
