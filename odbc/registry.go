package main

import (
	"sync"

	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/diag"
	"github.com/tinysql-odbc/driver/internal/fetch"
	"github.com/tinysql-odbc/driver/internal/handle"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
	"github.com/tinysql-odbc/driver/internal/param"
	"github.com/tinysql-odbc/driver/internal/tsengine"
	"github.com/tinysql-odbc/driver/internal/typeinfo"
)

// The ODBC ABI passes handles as opaque void* values. Rather than smuggling
// real Go pointers across cgo (which the garbage collector cannot be told
// about), every handle value handed back to the caller is an id — a plain
// counter — boxed into a uintptr-sized void*. The maps below are the only
// place that id is ever dereferenced back into the corresponding internal/
// handle object.
var (
	regMu sync.Mutex

	envs    = map[uintptr]*handle.Environment{}
	nextEnv uintptr = 1

	dbcs    = map[uintptr]*handle.Connection{}
	nextDbc uintptr = 1

	stmts    = map[uintptr]*handle.Statement{}
	nextStmt uintptr = 1

	descs    = map[uintptr]*explicitDescHandle{}
	nextDesc uintptr = 1
)

// explicitDescHandle is what SQL_HANDLE_DESC resolves to: the owning
// connection (explicit descriptors are Connection-scoped,) plus
// the handle.Ref the connection's own slab uses to track it.
type explicitDescHandle struct {
	connID uintptr
	ref    handle.Ref
	desc   *descriptor.Descriptor
	Diag   diag.Stack

	// Role is the APD/ARD/IPD/IRD role this descriptor last played while
	// bound into a statement's APD or ARD slot (bindExplicitFromHandle in
	// odbc.go records it once handle.BindExplicit succeeds;
	// odbc/descriptors.go needs it to apply this
	// field-routing table to a bare SQLHDESC that isn't currently attached to
	// any statement call). Zero value is RoleAPD, the most permissive role,
	// until the descriptor is actually bound once.
	Role odbcapi.DescRole
}

func allocEnv() (uintptr, *handle.Environment) {
	regMu.Lock()
	defer regMu.Unlock()
	id := nextEnv
	nextEnv++
	e := handle.NewEnvironment()
	envs[id] = e
	return id, e
}

func lookupEnv(id uintptr) (*handle.Environment, bool) {
	regMu.Lock()
	defer regMu.Unlock()
	e, ok := envs[id]
	return e, ok
}

func freeEnv(id uintptr) {
	regMu.Lock()
	defer regMu.Unlock()
	delete(envs, id)
}

func allocDbc(envID uintptr) (uintptr, *handle.Connection, bool) {
	regMu.Lock()
	env, ok := envs[envID]
	regMu.Unlock()
	if !ok {
		return 0, nil, false
	}
	c := env.AllocConnection()
	regMu.Lock()
	id := nextDbc
	nextDbc++
	dbcs[id] = c
	regMu.Unlock()
	return id, c, true
}

func lookupDbc(id uintptr) (*handle.Connection, bool) {
	regMu.Lock()
	defer regMu.Unlock()
	c, ok := dbcs[id]
	return c, ok
}

func freeDbc(id uintptr) {
	regMu.Lock()
	c, ok := dbcs[id]
	delete(dbcs, id)
	regMu.Unlock()
	if !ok {
		return
	}
	c.Env.FreeConnection(c)
}

func allocStmt(dbcID uintptr) (uintptr, *handle.Statement, bool) {
	regMu.Lock()
	c, ok := dbcs[dbcID]
	regMu.Unlock()
	if !ok {
		return 0, nil, false
	}
	s := c.AllocStatement()
	s.Ext = &stmtState{cursorType: odbcapi.CursorForwardOnly}
	regMu.Lock()
	id := nextStmt
	nextStmt++
	stmts[id] = s
	regMu.Unlock()
	return id, s, true
}

func lookupStmt(id uintptr) (*handle.Statement, bool) {
	regMu.Lock()
	defer regMu.Unlock()
	s, ok := stmts[id]
	return s, ok
}

func freeStmt(id uintptr) {
	regMu.Lock()
	s, ok := stmts[id]
	delete(stmts, id)
	regMu.Unlock()
	if !ok {
		return
	}
	if st := stmtExt(s); st != nil && st.cursor != nil {
		st.cursor.Close()
	}
	s.Conn.FreeStatement(s)
}

func allocExplicitDesc(dbcID uintptr) (uintptr, *descriptor.Descriptor, bool) {
	regMu.Lock()
	c, ok := dbcs[dbcID]
	regMu.Unlock()
	if !ok {
		return 0, nil, false
	}
	ref, d := c.AllocExplicitDescriptor()
	regMu.Lock()
	id := nextDesc
	nextDesc++
	descs[id] = &explicitDescHandle{connID: dbcID, ref: ref, desc: d}
	regMu.Unlock()
	return id, d, true
}

func lookupDesc(id uintptr) (*explicitDescHandle, bool) {
	regMu.Lock()
	defer regMu.Unlock()
	d, ok := descs[id]
	return d, ok
}

func freeExplicitDesc(id uintptr) error {
	regMu.Lock()
	ed, ok := descs[id]
	delete(descs, id)
	c, cok := dbcs[ed.connID]
	regMu.Unlock()
	if !ok || !cok {
		return nil
	}
	return c.FreeExplicitDescriptor(ed.ref)
}

// stmtState is the per-statement payload internal/handle.Statement.Ext
// carries: tsengine's prepared form, the live fetch cursor once a result
// set is open, and any in-flight data-at-exec parameter.
type stmtState struct {
	sql        string
	prepared   *tsengine.Prepared
	result     *tsengine.Result
	cursor     *fetch.Cursor
	cursorType odbcapi.CursorType
	cursorName string
	pending    *param.Pending
	pendingSQL string

	rowsFetchedPtr uintptr
	maxLength      int64
	retrieveData   bool
}

func stmtExt(s *handle.Statement) *stmtState {
	st, _ := s.Ext.(*stmtState)
	return st
}

// resolver is the shared internal/descriptor.TypeResolver every statement's
// descriptor field-consistency check uses.
var resolver = typeinfo.Resolver{}

// engineConn unwraps the *tsengine.Conn stashed on a handle.Connection by
// internal/connection.Connect.
func engineConn(c *handle.Connection) (*tsengine.Conn, bool) {
	ec, ok := c.EngineConn.(*tsengine.Conn)
	return ec, ok
}
