package encoding

import "testing"

func TestUTF8ToUTF16LenientRoundTrip(t *testing.T) {
	cases := []string{"", "hello", "Здравейте", "日本語", "emoji 🎉 here"}
	for _, s := range cases {
		units, bad := UTF8ToUTF16Lenient(s)
		if bad != -1 {
			t.Errorf("UTF8ToUTF16Lenient(%q) reported bad offset %d for clean input", s, bad)
		}
		back, bad2 := UTF16ToUTF8Lenient(units)
		if bad2 != -1 {
			t.Errorf("UTF16ToUTF8Lenient round trip reported bad offset %d", bad2)
		}
		if back != s {
			t.Errorf("round trip: got %q, want %q", back, s)
		}
	}
}

func TestUTF8ToUTF16LenientInvalidByte(t *testing.T) {
	s := "ab\xffcd"
	units, bad := UTF8ToUTF16Lenient(s)
	if bad != 2 {
		t.Fatalf("bad offset = %d, want 2", bad)
	}
	if units[2] != 0xFFFD {
		t.Errorf("expected replacement char at index 2, got %x", units[2])
	}
}

func TestUTF16ToUTF8LenientLoneSurrogate(t *testing.T) {
	units := []uint16{'a', 0xD800, 'b'}
	s, bad := UTF16ToUTF8Lenient(units)
	if bad != 1 {
		t.Fatalf("bad offset = %d, want 1", bad)
	}
	want := "a�b"
	if s != want {
		t.Errorf("got %q, want %q", s, want)
	}
}

func TestUTF16ToUTF8LenientTruncatedPair(t *testing.T) {
	units := []uint16{0xD800} // high surrogate with nothing following
	s, bad := UTF16ToUTF8Lenient(units)
	if bad != 0 {
		t.Fatalf("bad offset = %d, want 0", bad)
	}
	if s != "�" {
		t.Errorf("got %q, want replacement char", s)
	}
}

func TestUTF16ToUTF8LenientValidPair(t *testing.T) {
	// U+1F600 GRINNING FACE as a surrogate pair.
	units, _ := UTF8ToUTF16Lenient("\U0001F600")
	if len(units) != 2 {
		t.Fatalf("expected a surrogate pair, got %d units", len(units))
	}
	s, bad := UTF16ToUTF8Lenient(units)
	if bad != -1 || s != "\U0001F600" {
		t.Errorf("got (%q, %d), want (%q, -1)", s, bad, "\U0001F600")
	}
}

func TestWriteNarrowNullBuffer(t *testing.T) {
	_, res := WriteNarrow(nil, "DuckDB")
	if res.Truncated {
		t.Error("nil buffer should never report truncation")
	}
	if res.FullLen != 6 {
		t.Errorf("FullLen = %d, want 6", res.FullLen)
	}
}

func TestWriteNarrowTruncation(t *testing.T) {
	buf := make([]byte, 4) // room for 3 chars + NUL
	n, res := WriteNarrow(buf, "DuckDB")
	if !res.Truncated {
		t.Error("expected truncation")
	}
	if res.FullLen != 6 {
		t.Errorf("FullLen = %d, want 6 (untruncated length always reported)", res.FullLen)
	}
	if n != 4 {
		t.Errorf("written = %d, want 4 (3 data bytes + NUL)", n)
	}
	if string(buf[:3]) != "Duc" || buf[3] != 0 {
		t.Errorf("buf = %q, want \"Duc\\x00\"", buf)
	}
	state, warn := res.TruncationState()
	if !warn || state != "01004" {
		t.Errorf("TruncationState() = (%q, %v), want (\"01004\", true)", state, warn)
	}
}

func TestWriteNarrowFits(t *testing.T) {
	buf := make([]byte, 10)
	n, res := WriteNarrow(buf, "hi")
	if res.Truncated {
		t.Error("should not be truncated")
	}
	if n != 3 || buf[2] != 0 {
		t.Errorf("n=%d buf=%v, want 3 bytes with NUL terminator", n, buf)
	}
}

func TestWriteWideTruncation(t *testing.T) {
	units, _ := UTF8ToUTF16Lenient("hello")
	buf := make([]uint16, 3) // room for 2 units + terminator
	n, res := WriteWide(buf, units)
	if !res.Truncated {
		t.Error("expected truncation")
	}
	if res.FullLen != 10 { // 5 units * 2 bytes
		t.Errorf("FullLen = %d, want 10", res.FullLen)
	}
	if n != 3 {
		t.Errorf("written = %d, want 3", n)
	}
}

func TestWriteWideFromStringFits(t *testing.T) {
	buf := make([]uint16, 10)
	n, res := WriteWideFromString(buf, "hi")
	if res.Truncated {
		t.Error("should not be truncated")
	}
	if n != 3 {
		t.Errorf("n = %d, want 3", n)
	}
}
