// Package handle implements the environment/connection/statement/descriptor
// lifecycle of : parent-child ownership,
// implicit-vs-explicit descriptors, and the back-reference bookkeeping that
// must be repaired when a statement or an explicit descriptor is freed.
//
// Design note: a
// statement's APD/ARD slot can point either at its own implicit descriptor
// or at a client-supplied explicit one. The C++ original back-pointers and
// scans on free; here that maps to an arena + generation index. Every
// explicit descriptor lives in a slab owned by its Connection; a binding
// stores a (slot index, generation) pair, and freeing the descriptor bumps
// the generation rather than the slot being reused while still referenced.
// A dereference that sees a stale generation falls back to the statement's
// implicit descriptor — no raw pointers, no use-after-free, no cycles.
package handle

import (
	"sync"

	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/diag"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

// Ref is an opaque handle value exposed across the cgo boundary. It is the
// handle's slot index in its kind-specific arena; kind is carried alongside
// it by the caller (the ODBC ABI always passes the handle kind separately).
type Ref uintptr

// explicitSlot is one slab entry for an explicit descriptor.
type explicitSlot struct {
	generation uint64
	desc       *descriptor.Descriptor
	connID     Ref
	freed      bool
}

// DescBinding is a weak reference to an explicit descriptor, or "not bound"
// meaning "use the implicit descriptor" (the zero value).
type DescBinding struct {
	slot       Ref
	generation uint64
	bound      bool
}

// Environment is the root handle.
type Environment struct {
	Diag Stack

	mu            sync.Mutex
	odbcVersion   int32
	poolingMode   int32
	outputNTS     bool
	connections   map[Ref]*Connection
	nextConnID    Ref
}

// Stack is an alias so callers can read diag.Stack without importing both
// packages; kept distinct from descriptor field routing.
type Stack = diag.Stack

// Connection owns an engine handle (opaque to this package — see
// internal/tsengine), a back-reference list of live statements, and the
// slab of explicit descriptors allocated against it.
type Connection struct {
	Diag Stack
	Env  *Environment

	mu             sync.Mutex
	statements     map[Ref]*Statement
	nextStmtID     Ref
	explicitDescs  map[Ref]*explicitSlot
	nextDescID     Ref

	// Fields intentionally left for internal/connection to populate; this
	// package only owns lifecycle, not engine semantics.
	AutoCommit   bool
	AccessMode   int32
	MetadataID   bool
	DSN          string
	CurrentCatalog string
	EngineConn   any // *tsengine.Conn, set by internal/connection
}

// Statement owns its four implicit descriptors and bindings for APD/ARD
//.
type Statement struct {
	Diag Stack
	Conn *Connection

	ImplicitAPD *descriptor.Descriptor
	ImplicitIPD *descriptor.Descriptor
	ImplicitARD *descriptor.Descriptor
	ImplicitIRD *descriptor.Descriptor

	APDBinding DescBinding
	ARDBinding DescBinding

	// Opaque payload populated by internal/fetch, internal/param, and
	// internal/catalog; this package never inspects it.
	Ext any
}

// NewEnvironment allocates a fresh root environment handle.
func NewEnvironment() *Environment {
	return &Environment{
		connections: make(map[Ref]*Connection),
		nextConnID:  1,
		odbcVersion: 3,
	}
}

// SetODBCVersion / ODBCVersion implement SQL_ATTR_ODBC_VERSION: a connection
// allocated under this environment inherits its ODBC version.
func (e *Environment) SetODBCVersion(v int32) { e.mu.Lock(); e.odbcVersion = v; e.mu.Unlock() }
func (e *Environment) ODBCVersion() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.odbcVersion
}

// AllocConnection creates a Connection owned by e.
func (e *Environment) AllocConnection() *Connection {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := &Connection{
		Env:           e,
		statements:    make(map[Ref]*Statement),
		nextStmtID:    1,
		explicitDescs: make(map[Ref]*explicitSlot),
		nextDescID:    1,
		AutoCommit:    true,
	}
	id := e.nextConnID
	e.nextConnID++
	e.connections[id] = c
	return c
}

// FreeConnection destroys a connection and,
// "ODBC-bug-workaround invariant", all statements still referenced from its
// back-reference list — because some ODBC host applications fail to free
// their statements before freeing the connection.
func (e *Environment) FreeConnection(c *Connection) {
	e.mu.Lock()
	for id, cand := range e.connections {
		if cand == c {
			delete(e.connections, id)
			break
		}
	}
	e.mu.Unlock()

	c.mu.Lock()
	stmts := make([]*Statement, 0, len(c.statements))
	for _, s := range c.statements {
		stmts = append(stmts, s)
	}
	c.statements = make(map[Ref]*Statement)
	c.mu.Unlock()

	for _, s := range stmts {
		_ = s // CloseCursor is driven by odbc/internal callers that own fetch state
	}
}

// AllocStatement creates a Statement owned by c, wired with four fresh
// implicit descriptors.
func (c *Connection) AllocStatement() *Statement {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &Statement{
		Conn:        c,
		ImplicitAPD: descriptor.New(odbcapi.AllocAuto),
		ImplicitIPD: descriptor.New(odbcapi.AllocAuto),
		ImplicitARD: descriptor.New(odbcapi.AllocAuto),
		ImplicitIRD: descriptor.New(odbcapi.AllocAuto),
	}
	id := c.nextStmtID
	c.nextStmtID++
	c.statements[id] = s
	return s
}

// FreeStatement scrubs s's entry from c's back-reference list. Closing any
// open cursor is the caller's (internal/fetch's) responsibility before this
// is called.
func (c *Connection) FreeStatement(s *Statement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, cand := range c.statements {
		if cand == s {
			delete(c.statements, id)
			return
		}
	}
}

// AllocExplicitDescriptor creates an explicit descriptor slab entry owned by
// c.
func (c *Connection) AllocExplicitDescriptor() (Ref, *descriptor.Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := descriptor.New(odbcapi.AllocUser)
	slot := &explicitSlot{generation: 1, desc: d}
	id := c.nextDescID
	c.nextDescID++
	c.explicitDescs[id] = slot
	return id, d
}

// FreeExplicitDescriptor bumps the slot's generation (invalidating any
// DescBinding referencing it) and walks every statement on c, reverting any
// APD/ARD binding that pointed at it back to the implicit descriptor
//.
func (c *Connection) FreeExplicitDescriptor(id Ref) error {
	c.mu.Lock()
	slot, ok := c.explicitDescs[id]
	if !ok {
		c.mu.Unlock()
		return errUnknownDescriptor
	}
	slot.freed = true
	slot.generation++
	delete(c.explicitDescs, id)
	stmts := make([]*Statement, 0, len(c.statements))
	for _, s := range c.statements {
		stmts = append(stmts, s)
	}
	c.mu.Unlock()

	for _, s := range stmts {
		if s.APDBinding.bound && s.APDBinding.slot == id {
			s.APDBinding = DescBinding{}
		}
		if s.ARDBinding.bound && s.ARDBinding.slot == id {
			s.ARDBinding = DescBinding{}
		}
	}
	return nil
}

// BindExplicit installs the explicit descriptor id (as last returned by
// AllocExplicitDescriptor) into the APD or ARD slot of s.
func (c *Connection) BindExplicit(s *Statement, role odbcapi.DescRole, id Ref) error {
	c.mu.Lock()
	slot, ok := c.explicitDescs[id]
	if !ok {
		c.mu.Unlock()
		return errUnknownDescriptor
	}
	gen := slot.generation
	c.mu.Unlock()

	b := DescBinding{slot: id, generation: gen, bound: true}
	switch role {
	case odbcapi.RoleAPD:
		s.APDBinding = b
	case odbcapi.RoleARD:
		s.ARDBinding = b
	default:
		return errInvalidRole
	}
	return nil
}

// Resolve returns the descriptor currently playing role for s: the bound
// explicit descriptor if the binding's generation is still live, otherwise
// (or if never bound) the implicit descriptor.
func (s *Statement) Resolve(role odbcapi.DescRole) *descriptor.Descriptor {
	var b DescBinding
	switch role {
	case odbcapi.RoleAPD:
		b = s.APDBinding
	case odbcapi.RoleARD:
		b = s.ARDBinding
	default:
		return s.implicitFor(role)
	}
	if !b.bound {
		return s.implicitFor(role)
	}
	c := s.Conn
	c.mu.Lock()
	slot, ok := c.explicitDescs[b.slot]
	c.mu.Unlock()
	if !ok || slot.generation != b.generation {
		return s.implicitFor(role)
	}
	return slot.desc
}

func (s *Statement) implicitFor(role odbcapi.DescRole) *descriptor.Descriptor {
	switch role {
	case odbcapi.RoleAPD:
		return s.ImplicitAPD
	case odbcapi.RoleIPD:
		return s.ImplicitIPD
	case odbcapi.RoleARD:
		return s.ImplicitARD
	case odbcapi.RoleIRD:
		return s.ImplicitIRD
	default:
		return nil
	}
}

type handleErr string

func (e handleErr) Error() string { return string(e) }

const (
	errUnknownDescriptor = handleErr("odbc: unknown explicit descriptor handle")
	errInvalidRole       = handleErr("odbc: explicit descriptors may only be bound as APD or ARD")
)
