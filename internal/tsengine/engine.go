// Package tsengine binds this abstract Engine facade
// (open/connect/prepare/execute/interrupt/commit/rollback over
// Prepared/Result/Chunk/EngineValue) directly onto
// github.com/SimonWaldherr/tinySQL's public API. Nothing upstream of this
// package ever imports tinySQL directly; every other internal package talks
// to the *Conn/*Prepared/*Result types here.
//
// Two real gaps between the abstract facade and tinySQL's actual surface,
// both load-bearing for how this package is shaped:
//
//  1. tinySQL's lexer tokenizes `?` but its parser never treats it as a
//     bound-parameter placeholder, so there is no prepare-time parameter
//     type inspection to hang Prepared.param_names/result_types off of.
//     internal/param works around the placeholder half by substituting
//     literals before the SQL ever reaches tinySQL (see that package);
//     Prepare here works around the describe half by doing its own
//     lightweight `?`-count scan of the raw text instead of inspecting a
//     parsed AST, since tinySQL's concrete Statement types live in its
//     internal/engine package and are not reachable from outside its module.
//  2. tinySQL's ResultSet carries column names but no column types (Row is
//     a plain map[string]any), so Prepared.result_types is not known until
//     the first Execute actually runs and returns typed Go values; before
//     that ResultTypes is empty, and the odbc package's describe path
//     reports a column with no known type as StringType, matching the rule
//     that unknown/unsupported types default to VARCHAR.
package tsengine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/SimonWaldherr/tinySQL"
)

// Engine owns one tinySQL database, opened from a single DSN path (the
// facade's "open(path, options) -> EngineDb").
type Engine struct {
	db *tinysql.DB
}

// Open creates or loads the database at path. An empty path opens a fresh
// in-memory database (tinysql.NewDB), matching tinySQL's own CLI default.
func Open(path string, options map[string]string) (*Engine, error) {
	if path == "" {
		return &Engine{db: tinysql.NewDB()}, nil
	}
	db, err := tinysql.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("tsengine: open %q: %w", path, err)
	}
	return &Engine{db: db}, nil
}

// Conn is this EngineConn. path is set whenever the connection was
// opened against a backing file and is empty for in-memory sessions
// (matches how tinySQL's own REPL distinguishes :memory: from file-backed
// databases); Commit persists to it via tinysql.SaveToFile.
type Conn struct {
	eng        *Engine
	tenant     string
	path       string
	autoCommit bool

	mu       sync.Mutex
	cancel   context.CancelFunc
}

// Connect returns a new logical connection against db (this driver
// "connect(db) -> EngineConn"). tenant scopes every statement run on this
// connection to one of tinySQL's multi-tenant namespaces; the driver uses
// the DSN name as the tenant so concurrent DSNs never share tables.
func (e *Engine) Connect(tenant, path string) *Conn {
	return &Conn{eng: e, tenant: tenant, path: path, autoCommit: true}
}

// DB exposes the underlying tinySQL handle for the narrow set of callers
// that need direct schema access (internal/catalog) without re-exporting the
// whole facade.
func (c *Conn) DB() *tinysql.DB { return c.eng.db }

// Tenant returns the multi-tenant namespace this connection is scoped to.
func (c *Conn) Tenant() string { return c.tenant }

// SetAutoCommit implements "set_autocommit(conn, bool)".
func (c *Conn) SetAutoCommit(on bool) { c.mu.Lock(); c.autoCommit = on; c.mu.Unlock() }
func (c *Conn) AutoCommit() bool      { c.mu.Lock(); defer c.mu.Unlock(); return c.autoCommit }

// Commit implements "commit(conn)". tinySQL executes every
// statement against its in-memory MVCC store immediately; there is no
// pending-transaction buffer to flush, so Commit's only real work is
// persisting to the backing file when the connection was opened against one
// (mirroring tinySQL's own SaveToFile/LoadFromFile round trip).
func (c *Conn) Commit() error {
	if c.path == "" {
		return nil
	}
	return tinysql.SaveToFile(c.eng.db, c.path)
}

// Rollback implements "rollback(conn)". tinySQL has no
// statement-level undo log (writes land directly in storage.DB via MVCC
// row-version tombstoning, not a deferred log this facade can discard), so
// rollback is a no-op that reports success: every statement already
// committed to the MVCC store the instant it executed. Callers that need
// real atomicity should keep autocommit on, which is the documented default.
func (c *Conn) Rollback() error { return nil }

// Interrupt implements "interrupt(conn)": cancels the context of
// whatever Execute call is currently in flight on this connection, if any.
// Safe to call from a different goroutine than the one inside Execute,
// which is the only case SQLCancel ever uses it for.
func (c *Conn) Interrupt() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Prepared is this Prepared: "inspects params, types, names" to the
// extent tinySQL's surface allows (see the package doc's gap #1/#2).
type Prepared struct {
	conn       *Conn
	sql        string
	paramCount int

	mu          sync.Mutex
	described   bool
	resultNames []string
	resultTypes []tinysql.ColType
}

// Prepare implements "prepare(conn, sql) -> Prepared". It does
// not invoke tinySQL's parser at all: tinySQL offers no describe-without-
// execute operation, so the only prepare-time fact available without
// running the statement is the parameter count, which this package derives
// with its own placeholder scan (skipping string literals and -- / /* */
// comments) rather than tinySQL's internal lexer.
func Prepare(conn *Conn, sql string) (*Prepared, error) {
	return &Prepared{conn: conn, sql: sql, paramCount: countPlaceholders(sql)}, nil
}

// NumParams returns the number of `?` placeholders found in the prepared
// text.
func (p *Prepared) NumParams() int { return p.paramCount }

// ResultNames/ResultTypes report the describe-time best guess: empty until
// the first Execute call populates them from the actual ResultSet. Before
// that, the odbc package's describe path falls back to a StringType
// (VARCHAR) default for every column.
func (p *Prepared) ResultNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.resultNames...)
}

func (p *Prepared) ResultTypes() []tinysql.ColType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]tinysql.ColType(nil), p.resultTypes...)
}

// Execute implements "execute(prepared, params[]) -> Result".
// finalSQL is the already-substituted statement text (internal/param has
// replaced every `?` with a tinySQL literal before this is called, per
// this parser/planner/executor boundary).
func (p *Prepared) Execute(ctx context.Context, finalSQL string) (*Result, error) {
	stmt, err := tinysql.ParseSQL(finalSQL)
	if err != nil {
		return &Result{err: err}, nil
	}

	execCtx, cancel := context.WithCancel(ctx)
	p.conn.mu.Lock()
	p.conn.cancel = cancel
	p.conn.mu.Unlock()
	defer func() {
		p.conn.mu.Lock()
		p.conn.cancel = nil
		p.conn.mu.Unlock()
		cancel()
	}()

	rs, err := tinysql.Execute(execCtx, p.conn.eng.db, p.conn.tenant, stmt)
	if err != nil {
		return &Result{err: err}, nil
	}

	p.describe(rs)
	return &Result{rs: rs}, nil
}

// describe populates resultNames/resultTypes from the first ResultSet this
// Prepared ever sees. Column
// type is taken from the richest non-nil value seen across all rows; an
// all-NULL or empty result reports StringType, matching the VARCHAR default
// mandates for unknowable types.
func (p *Prepared) describe(rs *tinysql.ResultSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.described {
		return
	}
	p.described = true
	p.resultNames = append([]string(nil), rs.Cols...)
	p.resultTypes = make([]tinysql.ColType, len(rs.Cols))
	for i := range p.resultTypes {
		p.resultTypes[i] = tinysql.StringType
	}
	for _, row := range rs.Rows {
		remaining := 0
		for i, name := range rs.Cols {
			if p.resultTypes[i] != tinysql.StringType {
				continue
			}
			v, ok := tinysql.GetVal(row, name)
			if !ok || v == nil {
				remaining++
				continue
			}
			p.resultTypes[i] = goValueColType(v)
		}
		if remaining == 0 {
			break
		}
	}
}

// Result is this Result: a single in-memory Chunk since tinySQL
// always materializes its whole ResultSet rather than streaming (this driver
// "next_chunk() -> Chunk | END" degenerates to "one chunk, then END").
type Result struct {
	rs       *tinysql.ResultSet
	err      error
	consumed bool
}

func (r *Result) HasError() bool        { return r.err != nil }
func (r *Result) ErrorMessage() string  { if r.err == nil { return "" }; return r.err.Error() }
func (r *Result) ColumnNames() []string { if r.rs == nil { return nil }; return r.rs.Cols }

// NextChunk returns the whole ResultSet exactly once, then reports no more
// chunks (ok=false), per the package doc's "one chunk, then END" note.
func (r *Result) NextChunk() (rows []tinysql.Row, ok bool) {
	if r.consumed || r.rs == nil {
		return nil, false
	}
	r.consumed = true
	return r.rs.Rows, true
}

// NewStaticResult wraps a pre-built column/row set as a Result, the same
// shape Execute returns. internal/catalog uses this to hand its Tables/
// Columns/GetTypeInfo/GetInfo rows to internal/fetch's cursor machinery
// instead of duplicating fetch's scatter/truncation logic for catalog
// functions.
func NewStaticResult(cols []string, rows []tinysql.Row) *Result {
	return &Result{rs: &tinysql.ResultSet{Cols: cols, Rows: rows}}
}

// RowCount reports the affected/returned row count for SQLRowCount.
func (r *Result) RowCount() int64 {
	if r.rs == nil {
		return -1
	}
	return int64(len(r.rs.Rows))
}

// countPlaceholders counts `?` characters outside of string literals and
// SQL comments, the same rule internal/param's substitution pass uses for
// locating them.
func countPlaceholders(sql string) int {
	n := 0
	inSingle, inDouble := false, false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case inSingle:
			if c == '\'' {
				if i+1 < len(sql) && sql[i+1] == '\'' {
					i++
					continue
				}
				inSingle = false
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			if j := strings.IndexByte(sql[i:], '\n'); j >= 0 {
				i += j
			} else {
				i = len(sql)
			}
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			if j := strings.Index(sql[i+2:], "*/"); j >= 0 {
				i += j + 3
			} else {
				i = len(sql)
			}
		case c == '?':
			n++
		}
	}
	return n
}

// goValueColType maps a concrete Go value as tinySQL's importer and engine
// produce it back onto the storage.ColType family it came from (the inverse
// of internal/importer/types.go's convertValue table).
func goValueColType(v any) tinysql.ColType {
	switch v.(type) {
	case int64, int, int32:
		return tinysql.Int64Type
	case uint64, uint:
		return tinysql.UintType
	case float64, float32:
		return tinysql.Float64Type
	case bool:
		return tinysql.BoolType
	case string:
		return tinysql.StringType
	case []byte:
		return tinysql.BlobType
	default:
		return tinysql.StringType
	}
}
