package diag

import "testing"

func TestPushComposesMessage(t *testing.T) {
	var s Stack
	s.Push("mydsn", "FETCH", "boom", "HY000")
	rec, ok := s.Record(1)
	if !ok {
		t.Fatal("expected record 1 to exist")
	}
	want := "ODBC_mydsn->FETCH\nboom"
	if rec.Message != want {
		t.Errorf("Message = %q, want %q", rec.Message, want)
	}
	if rec.SQLState != "HY000" {
		t.Errorf("SQLState = %q, want HY000", rec.SQLState)
	}
}

func TestClearResetsStack(t *testing.T) {
	var s Stack
	s.Push("", "X", "y", "HY000")
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count() = %d after Clear, want 0", s.Count())
	}
	if _, ok := s.Record(1); ok {
		t.Error("Record(1) should report false after Clear")
	}
}

func TestRecordOutOfRange(t *testing.T) {
	var s Stack
	s.Push("", "X", "y", "HY000")
	if _, ok := s.Record(0); ok {
		t.Error("Record(0) should be out of range")
	}
	if _, ok := s.Record(2); ok {
		t.Error("Record(2) should be out of range with only one record")
	}
}

func TestWorstReturn(t *testing.T) {
	cases := []struct {
		name            string
		states          []string
		wantErr, wantWarn bool
	}{
		{"none", nil, false, false},
		{"warning only", []string{"01004"}, false, true},
		{"error", []string{"HY000"}, true, false},
		{"error beats warning", []string{"01004", "42S02"}, true, true},
	}
	for _, c := range cases {
		var s Stack
		for _, st := range c.states {
			s.Push("", "X", "msg", st)
		}
		gotErr, gotWarn := s.WorstReturn()
		if gotErr != c.wantErr || gotWarn != c.wantWarn {
			t.Errorf("%s: WorstReturn() = (%v,%v), want (%v,%v)", c.name, gotErr, gotWarn, c.wantErr, c.wantWarn)
		}
	}
}

func TestClassOriginISOVsODBC(t *testing.T) {
	cases := []struct {
		state string
		want  string
	}{
		{"01004", "ISO 9075"},
		{"HY000", "ODBC 3.0"},
		{"HYC00", "ODBC 3.0"},
		{"42S02", "ISO 9075"},
	}
	var s Stack
	for _, c := range cases {
		s.Push("", "X", "msg", c.state)
	}
	for i, c := range cases {
		got, ok := s.RecordField(i+1, "CLASS_ORIGIN")
		if !ok || got != c.want {
			t.Errorf("CLASS_ORIGIN for %q = %v, want %q", c.state, got, c.want)
		}
	}
}

func TestHeaderFieldRowCount(t *testing.T) {
	var s Stack
	s.SetRowCount(42)
	v, ok := s.HeaderField("ROW_COUNT")
	if !ok || v != int64(42) {
		t.Errorf("ROW_COUNT = %v, want 42", v)
	}
	n, ok := s.HeaderField("NUMBER")
	if !ok || n != int32(0) {
		t.Errorf("NUMBER = %v, want 0 on an empty stack", n)
	}
}

func TestRecordFieldUnknown(t *testing.T) {
	var s Stack
	s.Push("", "X", "y", "HY000")
	if _, ok := s.RecordField(1, "NOT_A_FIELD"); ok {
		t.Error("unknown field should report false")
	}
}
