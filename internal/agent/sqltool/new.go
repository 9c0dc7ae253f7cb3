package sqltool

import (
	"context"
	"database/sql"

	"datachat/internal/agent"
	pkgLog "datachat/pkg/log"
)

// Invoker is the uniform invocation surface the graph calls tools through.
type Invoker interface {
	// Invoke runs the database operation named by the action. A failure is
	// returned as a *agent.ToolError value, never as a raised error, so the
	// graph can route both outcomes uniformly.
	Invoke(ctx context.Context, action agent.Action) (agent.Observation, *agent.ToolError)
}

// Config is the dependency bag for the toolkit.
type Config struct {
	DB            *sql.DB
	Driver        string // database/sql driver name, used for introspection dialect
	MaxResultRows int
	Logger        pkgLog.Logger
}

// Toolkit implements Invoker over a relational database.
type Toolkit struct {
	db      *sql.DB
	driver  string
	maxRows int
	l       pkgLog.Logger
}

// New creates a toolkit bound to the given database.
func New(cfg Config) *Toolkit {
	maxRows := cfg.MaxResultRows
	if maxRows <= 0 {
		maxRows = DefaultMaxResultRows
	}
	return &Toolkit{
		db:      cfg.DB,
		driver:  cfg.Driver,
		maxRows: maxRows,
		l:       cfg.Logger,
	}
}
