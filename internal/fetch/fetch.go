// Package fetch implements the cursor open/close,
// FORWARD_ONLY vs STATIC positioning, scatter-to-bound-columns fetch, and
// the per-column byte-offset state SQLGetData's partial-read streaming
// needs. tinySQL's Execute always returns a ResultSet with every row
// already materialized (internal/tsengine's "one chunk, then END" note), so
// unlike a true streaming engine this package never actually waits on a
// second chunk — but it still goes through Result.NextChunk() and keeps the
// row buffer exactly as this STATIC cursor describes, so random
// access (PRIOR/FIRST/ABSOLUTE) costs nothing extra to support.
package fetch

import (
	"unsafe"

	"github.com/SimonWaldherr/tinySQL"

	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
	"github.com/tinysql-odbc/driver/internal/tsengine"
)

// Cursor owns one statement's open result set.
type Cursor struct {
	result     *tsengine.Result
	names      []string
	rows       []tinysql.Row
	pos        int // index of the row the cursor is currently positioned on, -1 before first
	open       bool
	cursorType odbcapi.CursorType
	rowsetStart int // index of row 1 of the last-fetched rowset, for SQLSetPos(SQL_POSITION)

	// getDataState tracks the partial-read offset for the column
	// SQLGetData was last called on.
	getDataCol    int
	getDataOffset int
	getDataValid  bool
}

// Open implements "Open cursor": materializes the result's one
// chunk and positions the cursor before the first row.
func Open(result *tsengine.Result, cursorType odbcapi.CursorType) (*Cursor, error) {
	c := &Cursor{result: result, pos: -1, open: true, cursorType: cursorType}
	c.names = result.ColumnNames()
	rows, _ := result.NextChunk()
	c.rows = rows
	return c, nil
}

// Close implements CloseCursor; the cursor can be reopened by a fresh
// Execute, not by calling Open again on the same Cursor value.
func (c *Cursor) Close() { c.open = false }

func (c *Cursor) IsOpen() bool   { return c.open }
func (c *Cursor) RowCount() int  { return len(c.rows) }
func (c *Cursor) ColumnNames() []string { return c.names }

// supportsOrientation implements this cursor-type table: only
// FORWARD_ONLY restricts orientation; STATIC/KEYSET/DYNAMIC (the latter two
// mapped onto STATIC) all support full random access.
func (c *Cursor) supportsOrientation(orient odbcapi.FetchOrientation) bool {
	if c.cursorType == odbcapi.CursorForwardOnly {
		return orient == odbcapi.FetchNext
	}
	return true
}

// ErrBadOrientation is returned when a FORWARD_ONLY cursor receives anything
// but SQL_FETCH_NEXT (SQLSTATE HY106 at the caller layer).
type ErrBadOrientation struct{}

func (*ErrBadOrientation) Error() string { return "fetch orientation not supported by this cursor type" }

// Seek implements this orientation/offset addressing, moving
// c.pos to the target row index (or past the end). It does not scatter data;
// callers invoke Scatter afterward to fill bound columns.
func (c *Cursor) Seek(orient odbcapi.FetchOrientation, offset int64) (atEnd bool, err error) {
	if !c.supportsOrientation(orient) {
		return false, &ErrBadOrientation{}
	}
	n := len(c.rows)
	switch orient {
	case odbcapi.FetchNext:
		c.pos++
	case odbcapi.FetchFirst:
		c.pos = 0
	case odbcapi.FetchLast:
		c.pos = n - 1
	case odbcapi.FetchPrior:
		c.pos--
	case odbcapi.FetchAbsolute:
		if offset >= 0 {
			c.pos = int(offset) - 1
		} else {
			c.pos = n + int(offset)
		}
	case odbcapi.FetchRelative:
		c.pos += int(offset)
	}
	if c.pos < 0 || c.pos >= n {
		return true, nil
	}
	return false, nil
}

// ScatterTarget describes one ARD-bound column, resolved by the caller
// (odbc's dispatcher) from the descriptor record before calling Scatter.
type ScatterTarget struct {
	ColumnOrdinal int // 1-based
	CType         odbcapi.CType
	DataPtr       uintptr
	IndicatorPtr  uintptr
	BufferLength  int64
}

// Scatter implements column-wise/row-wise fetch addressing:
// starting at the cursor's current position, it writes up to ard.Header
// .ArraySize rows into the bound targets, advancing c.pos as it goes, and
// reports how many rows were actually written plus whether any column's
// string/binary value was truncated.
func (c *Cursor) Scatter(ard *descriptor.Descriptor, targets []ScatterTarget,
	write func(row tinysql.Row, t ScatterTarget, rowOffset int64) (truncated bool, err error)) (n int, truncated bool, err error) {

	arraySize := ard.Header.ArraySize
	if arraySize < 1 {
		arraySize = 1
	}
	statusPtr := ard.Header.ArrayStatusPtr
	c.rowsetStart = c.pos

	for i := int64(0); i < arraySize; i++ {
		if c.pos < 0 || c.pos >= len(c.rows) {
			writeRowStatus(statusPtr, i, odbcapi.RowNoRow)
			continue
		}
		row := c.rows[c.pos]
		rowTrunc := false
		for _, t := range targets {
			stride := bindStride(ard, t)
			rowOffset := i * stride
			tr, werr := write(row, t, rowOffset)
			if werr != nil {
				writeRowStatus(statusPtr, i, odbcapi.RowError)
				return n, truncated, werr
			}
			if tr {
				rowTrunc = true
			}
		}
		if rowTrunc {
			truncated = true
			writeRowStatus(statusPtr, i, odbcapi.RowSuccessWithInfo)
		} else {
			writeRowStatus(statusPtr, i, odbcapi.RowSuccess)
		}
		n++
		if i+1 < arraySize {
			c.pos++
		}
	}
	return n, truncated, nil
}

func bindStride(ard *descriptor.Descriptor, t ScatterTarget) int64 {
	if ard.Header.BindType > 0 {
		return ard.Header.BindType
	}
	return ctypeWidth(t.CType)
}

func ctypeWidth(t odbcapi.CType) int64 {
	switch t {
	case odbcapi.CTinyint, odbcapi.CUtinyint, odbcapi.CBit:
		return 1
	case odbcapi.CShort:
		return 2
	case odbcapi.CLong, odbcapi.CFloat:
		return 4
	case odbcapi.CDouble, odbcapi.CSBigint, odbcapi.CUBigint:
		return 8
	default:
		return 8
	}
}

func writeRowStatus(ptr uintptr, i int64, status odbcapi.RowStatus) {
	if ptr == 0 {
		return
	}
	*(*uint16)(unsafe.Pointer(ptr + uintptr(i*2))) = uint16(status)
}

// GetDataState reports the byte/unit offset SQLGetData should resume from
// for col (1-based); ok is false if this is the first call on col (start
// fresh, "First call on this column: start at offset 0").
// Calling GetDataState for a column different from the last one implicitly
// resets state for the new column, matching "switching to a different
// column resets the state."
func (c *Cursor) GetDataState(col int) (offset int, ok bool) {
	if c.getDataValid && c.getDataCol == col {
		return c.getDataOffset, true
	}
	c.getDataCol = col
	c.getDataOffset = 0
	c.getDataValid = true
	return 0, false
}

// AdvanceGetData records the new offset after a partial SQLGetData read.
func (c *Cursor) AdvanceGetData(col, newOffset int) {
	c.getDataCol = col
	c.getDataOffset = newOffset
	c.getDataValid = true
}

// ResetGetData clears state, called when the cursor moves to a new row:
// GetData's resume offset is scoped to one column within the current row, and
// any Fetch/FetchScroll call starts it fresh.
func (c *Cursor) ResetGetData() { c.getDataValid = false }

// CurrentRow returns the row at the cursor's position, or nil if positioned
// before-first/after-last.
func (c *Cursor) CurrentRow() (tinysql.Row, bool) {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, false
	}
	return c.rows[c.pos], true
}

// ErrInvalidRowNumber is returned by SetPosition for a rowNumber below 1 or
// past the end of the result set (SQLSTATE HY109 at the caller layer).
type ErrInvalidRowNumber struct{}

func (*ErrInvalidRowNumber) Error() string { return "invalid cursor position" }

// SetPosition implements SQLSetPos(SQL_POSITION): moves the cursor to the
// rowNumber-th row (1-based) counted from the first row of the last-fetched
// rowset, without changing any data. The bound checked is the end of the
// result set; the rowset size is not tracked here, so a rowNumber past the
// rowset but within the result is accepted. This is the only SetPos operation this driver supports; row
// update/delete/refresh operations are rejected by the caller before this
// is ever invoked.
func (c *Cursor) SetPosition(rowNumber int) error {
	if rowNumber < 1 {
		return &ErrInvalidRowNumber{}
	}
	target := c.rowsetStart + rowNumber - 1
	if target < 0 || target >= len(c.rows) {
		return &ErrInvalidRowNumber{}
	}
	c.pos = target
	c.ResetGetData()
	return nil
}
