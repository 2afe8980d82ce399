package catalog

import "testing"

func TestPatternFilter(t *testing.T) {
	cases := []struct {
		field, pattern string
		metadataID     bool
		want           string
	}{
		{"TABLE_NAME", "", false, "COALESCE(TABLE_NAME,'') LIKE '%'"},
		{"TABLE_NAME", "Orders", true, "TABLE_NAME = 'ORDERS'"},
		{"TABLE_NAME", "ord%", false, "TABLE_NAME LIKE 'ord%' ESCAPE '\\'"},
	}
	for _, c := range cases {
		got := PatternFilter(c.field, c.pattern, c.metadataID)
		if got != c.want {
			t.Errorf("PatternFilter(%q,%q,%v) = %q, want %q", c.field, c.pattern, c.metadataID, got, c.want)
		}
	}
}

func TestUnquoteIdentifier(t *testing.T) {
	if got := UnquoteIdentifier(`"My   Table"`); got != "My Table" {
		t.Errorf("got %q", got)
	}
	if got := UnquoteIdentifier("plain"); got != "plain" {
		t.Errorf("got %q", got)
	}
}

func TestTranslateTableType(t *testing.T) {
	if got := TranslateTableType("table"); got != "BASE TABLE" {
		t.Errorf("got %q", got)
	}
	if got := TranslateTableType("VIEW"); got != "VIEW" {
		t.Errorf("got %q", got)
	}
	if got := TranslateTableType("SYSTEM TABLE"); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestLikeMatch(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"", "anything", true},
		{"abc", "abc", true},
		{"a%c", "abbbc", true},
		{"a_c", "abc", true},
		{"a_c", "abbc", false},
		{"%c", "abc", true},
		{"a%", "abc", true},
		{"x%", "abc", false},
	}
	for _, c := range cases {
		if got := likeMatch(c.pattern, c.name); got != c.want {
			t.Errorf("likeMatch(%q,%q) = %v, want %v", c.pattern, c.name, got, c.want)
		}
	}
}

func TestSupports3KnownOrdinals(t *testing.T) {
	if !Supports3(71) {
		t.Error("SQLBindParameter (71) should be supported")
	}
	if Supports3(9999) {
		t.Error("unknown ordinal should report unsupported")
	}
}

func TestSupports2MirrorsSupports3(t *testing.T) {
	arr := Supports2()
	if !arr[11] {
		t.Error("SQLExecDirect (11) should be supported in the legacy array")
	}
}
