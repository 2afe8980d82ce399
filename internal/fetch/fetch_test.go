package fetch

import (
	"testing"
	"unsafe"

	"github.com/SimonWaldherr/tinySQL"

	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

func testRows(n int) []tinysql.Row {
	rows := make([]tinysql.Row, n)
	for i := range rows {
		rows[i] = tinysql.Row{"n": i}
	}
	return rows
}

func TestSeekForwardOnlyRejectsNonNext(t *testing.T) {
	c := &Cursor{rows: testRows(3), pos: -1, open: true, cursorType: odbcapi.CursorForwardOnly}
	_, err := c.Seek(odbcapi.FetchPrior, 0)
	if _, ok := err.(*ErrBadOrientation); !ok {
		t.Fatalf("Seek(FetchPrior) on FORWARD_ONLY = %v, want *ErrBadOrientation", err)
	}
}

func TestSeekForwardOnlyAllowsNext(t *testing.T) {
	c := &Cursor{rows: testRows(3), pos: -1, open: true, cursorType: odbcapi.CursorForwardOnly}
	atEnd, err := c.Seek(odbcapi.FetchNext, 0)
	if err != nil {
		t.Fatalf("Seek(FetchNext) failed: %v", err)
	}
	if atEnd {
		t.Error("should not be at end after first FetchNext on a 3-row result")
	}
	if c.pos != 0 {
		t.Errorf("pos = %d, want 0", c.pos)
	}
}

func TestSeekStaticSupportsAbsoluteAndLast(t *testing.T) {
	c := &Cursor{rows: testRows(5), pos: -1, open: true, cursorType: odbcapi.CursorStatic}

	if _, err := c.Seek(odbcapi.FetchAbsolute, 3); err != nil {
		t.Fatalf("Seek(FetchAbsolute, 3) failed: %v", err)
	}
	if c.pos != 2 {
		t.Errorf("pos after FetchAbsolute(3) = %d, want 2", c.pos)
	}

	if _, err := c.Seek(odbcapi.FetchLast, 0); err != nil {
		t.Fatalf("Seek(FetchLast) failed: %v", err)
	}
	if c.pos != 4 {
		t.Errorf("pos after FetchLast = %d, want 4", c.pos)
	}
}

func TestSeekPastEndReportsAtEnd(t *testing.T) {
	c := &Cursor{rows: testRows(2), pos: 1, open: true, cursorType: odbcapi.CursorStatic}
	atEnd, err := c.Seek(odbcapi.FetchNext, 0)
	if err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if !atEnd {
		t.Error("expected atEnd=true when moving past the last row")
	}
}

func TestSeekAbsoluteNegativeCountsFromEnd(t *testing.T) {
	c := &Cursor{rows: testRows(5), pos: -1, open: true, cursorType: odbcapi.CursorStatic}
	if _, err := c.Seek(odbcapi.FetchAbsolute, -1); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if c.pos != 4 {
		t.Errorf("pos after FetchAbsolute(-1) = %d, want 4 (last row)", c.pos)
	}
}

func TestScatterWritesRowStatusAndAdvances(t *testing.T) {
	c := &Cursor{rows: testRows(3), pos: 0, open: true, cursorType: odbcapi.CursorStatic}
	ard := descriptor.New(odbcapi.AllocAuto)
	ard.Header.ArraySize = 2

	statuses := make([]uint16, 2)
	ard.Header.ArrayStatusPtr = uintptr(unsafe.Pointer(&statuses[0]))

	targets := []ScatterTarget{{ColumnOrdinal: 1, CType: odbcapi.CLong}}
	n, truncated, err := c.Scatter(ard, targets, func(row tinysql.Row, t ScatterTarget, rowOffset int64) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("Scatter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
	if truncated {
		t.Error("did not expect truncation")
	}
	if statuses[0] != uint16(odbcapi.RowSuccess) || statuses[1] != uint16(odbcapi.RowSuccess) {
		t.Errorf("row statuses = %v, want both RowSuccess", statuses)
	}
	if c.pos != 1 {
		t.Errorf("pos after scattering 2 rows from pos 0 = %d, want 1", c.pos)
	}
}

func TestScatterReportsNoRowPastEnd(t *testing.T) {
	c := &Cursor{rows: testRows(1), pos: 0, open: true, cursorType: odbcapi.CursorStatic}
	ard := descriptor.New(odbcapi.AllocAuto)
	ard.Header.ArraySize = 2
	statuses := make([]uint16, 2)
	ard.Header.ArrayStatusPtr = uintptr(unsafe.Pointer(&statuses[0]))

	targets := []ScatterTarget{{ColumnOrdinal: 1, CType: odbcapi.CLong}}
	n, _, err := c.Scatter(ard, targets, func(row tinysql.Row, t ScatterTarget, rowOffset int64) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("Scatter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("n = %d, want 1 (only one row available)", n)
	}
	if statuses[1] != uint16(odbcapi.RowNoRow) {
		t.Errorf("statuses[1] = %v, want RowNoRow", statuses[1])
	}
}

func TestScatterTruncationSetsRowStatus(t *testing.T) {
	c := &Cursor{rows: testRows(1), pos: 0, open: true, cursorType: odbcapi.CursorStatic}
	ard := descriptor.New(odbcapi.AllocAuto)
	ard.Header.ArraySize = 1
	statuses := make([]uint16, 1)
	ard.Header.ArrayStatusPtr = uintptr(unsafe.Pointer(&statuses[0]))

	targets := []ScatterTarget{{ColumnOrdinal: 1, CType: odbcapi.CChar}}
	_, truncated, err := c.Scatter(ard, targets, func(row tinysql.Row, t ScatterTarget, rowOffset int64) (bool, error) {
		return true, nil
	})
	if err != nil {
		t.Fatalf("Scatter failed: %v", err)
	}
	if !truncated {
		t.Error("expected Scatter to report truncation")
	}
	if statuses[0] != uint16(odbcapi.RowSuccessWithInfo) {
		t.Errorf("statuses[0] = %v, want RowSuccessWithInfo", statuses[0])
	}
}

func TestGetDataStateResetsOnColumnSwitch(t *testing.T) {
	c := &Cursor{rows: testRows(1), pos: 0, open: true}
	if off, ok := c.GetDataState(1); ok || off != 0 {
		t.Errorf("first call on column 1 = (%d,%v), want (0,false)", off, ok)
	}
	c.AdvanceGetData(1, 10)
	if off, ok := c.GetDataState(1); !ok || off != 10 {
		t.Errorf("resumed call on column 1 = (%d,%v), want (10,true)", off, ok)
	}
	if off, ok := c.GetDataState(2); ok || off != 0 {
		t.Errorf("switching to column 2 = (%d,%v), want (0,false)", off, ok)
	}
}

func TestResetGetDataClearsState(t *testing.T) {
	c := &Cursor{}
	c.AdvanceGetData(1, 5)
	c.ResetGetData()
	if off, ok := c.GetDataState(1); ok || off != 0 {
		t.Errorf("after ResetGetData, GetDataState = (%d,%v), want (0,false)", off, ok)
	}
}

func TestSetPositionMovesWithinLastRowset(t *testing.T) {
	c := &Cursor{rows: testRows(10), pos: 0, open: true, cursorType: odbcapi.CursorStatic}
	c.rowsetStart = 2 // simulate a prior Scatter that started at row index 2
	if err := c.SetPosition(3); err != nil {
		t.Fatalf("SetPosition(3) failed: %v", err)
	}
	if c.pos != 4 { // rowsetStart(2) + 3 - 1
		t.Errorf("pos = %d, want 4", c.pos)
	}
}

func TestSetPositionRejectsOutOfRange(t *testing.T) {
	c := &Cursor{rows: testRows(3), pos: 0, open: true, cursorType: odbcapi.CursorStatic}
	c.rowsetStart = 0
	if err := c.SetPosition(0); err == nil {
		t.Error("SetPosition(0) should fail, rows are 1-based")
	}
	if err := c.SetPosition(10); err == nil {
		t.Error("SetPosition(10) should fail, past the end of the rowset")
	}
}

func TestSetPositionResetsGetData(t *testing.T) {
	c := &Cursor{rows: testRows(5), pos: 0, open: true, cursorType: odbcapi.CursorStatic}
	c.AdvanceGetData(1, 7)
	if err := c.SetPosition(2); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if _, ok := c.GetDataState(1); ok {
		t.Error("SetPosition should reset GetData streaming state")
	}
}

func TestCurrentRowReportsFalseOutOfRange(t *testing.T) {
	c := &Cursor{rows: testRows(2), pos: -1}
	if _, ok := c.CurrentRow(); ok {
		t.Error("CurrentRow before first row should report false")
	}
	c.pos = 1
	if row, ok := c.CurrentRow(); !ok || row["n"] != 1 {
		t.Errorf("CurrentRow() = (%v,%v), want ({n:1},true)", row, ok)
	}
}
