// SPDX-License-Identifier: Apache-2.0

// Package dbconn implements the Connection Manager: loading the env-block,
// optionally standing up an SSH local port-forward, and constructing a
// pooled Postgres connection bound to the command's lifetime.
package dbconn

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/tuskdb/tusk/internal/connstr"
	"github.com/tuskdb/tusk/pkg/applog"
	"github.com/tuskdb/tusk/pkg/db"
)

const maxDBConnections = 5

// DbConnection owns the connection pool and, optionally, the SSH tunnel for
// the lifetime of a single command invocation.
type DbConnection struct {
	db            db.DB
	rawDB         *sql.DB
	connStr       string
	pgDumpBinPath string
	tunnel        *sshTunnel
	logger        applog.Logger
}

// Open loads the env-block at envPath, optionally opens an SSH tunnel, and
// builds a connection pool. Callers MUST call Close on every exit path.
func Open(ctx context.Context, envPath string, logger applog.Logger) (*DbConnection, error) {
	if logger == nil {
		logger = applog.NewNoop()
	}

	block, err := LoadEnvBlock(envPath)
	if err != nil {
		return nil, err
	}

	dbHost, dbPort := block.DBHost, block.DBPort

	var tunnel *sshTunnel
	if block.UseSSH {
		tunnel, err = openSSHTunnel(block.SSHUser, block.SSHHost, block.SSHLocalBindPort, block.SSHRemotePort, block.DBHost)
		if err != nil {
			return nil, fmt.Errorf("opening ssh tunnel: %w", err)
		}
		logger.LogTunnelOpen(block.SSHHost, block.SSHLocalBindPort)

		dbHost = "127.0.0.1"
		dbPort = block.SSHLocalBindPort
	}

	connStr := connstr.Build(block.DBUser, block.DBPass, dbHost, dbPort, block.DBName)

	rawDB, err := sql.Open("postgres", connStr)
	if err != nil {
		_ = tunnel.Close()
		return nil, fmt.Errorf("opening connection pool: %w", err)
	}
	rawDB.SetMaxOpenConns(maxDBConnections)

	if err := rawDB.PingContext(ctx); err != nil {
		_ = rawDB.Close()
		_ = tunnel.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	logger.Info("connected to database", "host", dbHost, "port", dbPort, "database", block.DBName)

	return &DbConnection{
		db:            &db.RDB{DB: rawDB},
		rawDB:         rawDB,
		connStr:       connStr,
		pgDumpBinPath: block.PgBinPath,
		tunnel:        tunnel,
		logger:        logger,
	}, nil
}

// DB returns the resilient query/exec/transaction interface.
func (c *DbConnection) DB() db.DB { return c.db }

// RawDB returns the underlying *sql.DB, for callers that need
// driver-specific behavior (e.g. explicit savepoints) not exposed by db.DB.
func (c *DbConnection) RawDB() *sql.DB { return c.rawDB }

// ConnectionString returns the connection string used to build the pool,
// for handing to external dump processes.
func (c *DbConnection) ConnectionString() string { return c.connStr }

// DumpBinaryPath returns the path to the external dump binary, defaulting
// to "pg_dump" resolved on PATH.
func (c *DbConnection) DumpBinaryPath() string { return c.pgDumpBinPath }

// Logger returns the structured logger constructed by Open, shared by every
// command operating on this connection.
func (c *DbConnection) Logger() applog.Logger { return c.logger }

// Close tears down the connection pool and, if one was opened, the SSH
// tunnel. It is safe to call multiple times and is best-effort on the
// tunnel teardown: a failure there does not mask a pool-close error.
func (c *DbConnection) Close() error {
	var poolErr error
	if c.rawDB != nil {
		poolErr = c.rawDB.Close()
	}

	if c.tunnel != nil {
		if err := c.tunnel.Close(); err != nil {
			c.logger.Warn("ssh tunnel teardown reported an error", "error", err)
		}
		c.logger.LogTunnelClose()
	}

	return poolErr
}
