package connection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tinysql-odbc/driver/internal/tsengine"
)

// Outcome is everything odbc's SQLConnect/SQLDriverConnect handlers need
// after a successful connect: the live engine connection, any non-fatal
// warnings to push as diagnostics, and (if a session-init script ran) its
// raw text for the SUCCESS_WITH_INFO traceability diagnostic.
type Outcome struct {
	Conn           *tsengine.Conn
	SessionID      uuid.UUID // internal correlation only; never crosses the ABI
	Warnings       []*ParseError
	InitScriptText string
}

// Connect runs the full connect flow end to end: parse the connection string,
// resolve a DSN section if one was named, acquire (or create) the shared
// engine instance for the resolved database path, and run session-init SQL.
// tenant scopes the tinySQL multi-tenant namespace for every statement run
// on the returned connection; the DSN name is used when present, otherwise
// "default".
func Connect(ctx context.Context, connString string) (*Outcome, error) {
	parsed := ParseConnectionString(connString)
	opts := parsed.Options

	tenant := "default"
	if dsn := opts["dsn"]; dsn != "" {
		tenant = dsn
		dsnOpts, err := DSNEntry(dsn)
		if err == nil {
			for k, v := range dsnOpts {
				if _, already := opts[k]; !already && !dsnOnlyKeys[k] {
					opts[k] = v
				}
			}
		}
	}

	path := opts["database"]
	cache.mu.Lock()
	_, cached := cache.instances[path]
	cache.mu.Unlock()
	fresh := path == "" || !cached
	eng, err := Acquire(path, opts)
	if err != nil {
		return nil, fmt.Errorf("connection: %w", err)
	}
	conn := eng.Connect(tenant, path)

	if v, ok := opts["autocommit"]; ok {
		conn.SetAutoCommit(v != "0" && v != "false")
	}

	out := &Outcome{Conn: conn, SessionID: uuid.New(), Warnings: parsed.Warnings}

	initFile := ""
	initHash := ""
	if dsn := opts["dsn"]; dsn != "" {
		if dsnOpts, err := DSNEntry(dsn); err == nil {
			initFile = dsnOpts["session_init_sql_file"]
			initHash = dsnOpts["session_init_sql_file_sha256"]
		}
	}
	if initFile == "" {
		return out, nil
	}

	script, err := LoadSessionInit(initFile, initHash)
	if err != nil {
		Logger.Warn("session init load failed", zap.Error(err))
		return nil, err
	}
	if fresh && script.DBInitSQL != "" {
		if err := RunScript(ctx, conn, script.DBInitSQL); err != nil {
			Logger.Warn("session init db_init_sql failed", zap.Error(err))
			return nil, err
		}
	}
	if script.ConnInitSQL != "" {
		if err := RunScript(ctx, conn, script.ConnInitSQL); err != nil {
			Logger.Warn("session init conn_init_sql failed", zap.Error(err))
			return nil, err
		}
	}
	out.InitScriptText = script.RawText
	return out, nil
}
