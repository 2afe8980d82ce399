package connection

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConnectionStringBasic(t *testing.T) {
	res := ParseConnectionString("DATABASE=/tmp/x.db; AUTOCOMMIT=0")
	if res.Options["database"] != "/tmp/x.db" {
		t.Errorf("database = %q, want /tmp/x.db", res.Options["database"])
	}
	if res.Options["autocommit"] != "0" {
		t.Errorf("autocommit = %q, want 0", res.Options["autocommit"])
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
}

func TestParseConnectionStringIgnoredKeysDropped(t *testing.T) {
	res := ParseConnectionString("driver=foo.so;uid=me;pwd=secret;database=x")
	if _, ok := res.Options["driver"]; ok {
		t.Error("driver key should be silently dropped")
	}
	if _, ok := res.Options["pwd"]; ok {
		t.Error("pwd key should be silently dropped")
	}
	if res.Options["database"] != "x" {
		t.Errorf("database = %q, want x", res.Options["database"])
	}
}

func TestParseConnectionStringDSNOnlyKeyWarns(t *testing.T) {
	res := ParseConnectionString("session_init_sql_file=/tmp/init.sql")
	if len(res.Warnings) != 1 || !res.Warnings[0].DSNOnly {
		t.Fatalf("expected one DSN-only warning, got %v", res.Warnings)
	}
}

func TestParseConnectionStringUnknownKeySuggests(t *testing.T) {
	res := ParseConnectionString("databse=x")
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", res.Warnings)
	}
	if res.Warnings[0].Suggestion != "database" {
		t.Errorf("Suggestion = %q, want database", res.Warnings[0].Suggestion)
	}
}

func TestNormalizeValueRewritesBackslashesForPathKeys(t *testing.T) {
	res := ParseConnectionString(`allowed_paths=C:\data\db`)
	if res.Options["allowed_paths"] != "C:/data/db" {
		t.Errorf("allowed_paths = %q, want forward slashes", res.Options["allowed_paths"])
	}
}

func TestNormalizeValueLeavesOtherKeysAlone(t *testing.T) {
	res := ParseConnectionString(`database=C:\data\db`)
	if res.Options["database"] != `C:\data\db` {
		t.Errorf("database = %q, want unmodified", res.Options["database"])
	}
}

func TestDSNEntryResolvesFromUserIni(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "odbc.ini")
	if err := os.WriteFile(iniPath, []byte("[MyDSN]\ndatabase=/tmp/x.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ODBC_USER_INI", iniPath)
	t.Setenv("ODBC_SYSTEM_INI", "")

	opts, err := DSNEntry("mydsn")
	if err != nil {
		t.Fatalf("DSNEntry failed: %v", err)
	}
	if opts["database"] != "/tmp/x.db" {
		t.Errorf("database = %q, want /tmp/x.db", opts["database"])
	}
}

func TestDSNEntryNotFound(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "odbc.ini")
	if err := os.WriteFile(iniPath, []byte("[Other]\ndatabase=/tmp/y.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ODBC_USER_INI", iniPath)
	t.Setenv("ODBC_SYSTEM_INI", "")

	if _, err := DSNEntry("missing"); err == nil {
		t.Error("expected an error for an unregistered DSN")
	}
}

func TestLoadSessionInitSplitsOnMarker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "init.sql")
	content := "CREATE TABLE t(a INT);\n/* DUCKDB_CONNECTION_INIT_BELOW_MARKER */\nSET search_path = 'x';"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	script, err := LoadSessionInit(path, "")
	if err != nil {
		t.Fatalf("LoadSessionInit failed: %v", err)
	}
	if script.DBInitSQL != "CREATE TABLE t(a INT);\n" {
		t.Errorf("DBInitSQL = %q", script.DBInitSQL)
	}
	if script.ConnInitSQL != "\nSET search_path = 'x';" {
		t.Errorf("ConnInitSQL = %q", script.ConnInitSQL)
	}
}

func TestLoadSessionInitNoMarkerIsAllConnInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "init.sql")
	content := "SET x = 1;"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	script, err := LoadSessionInit(path, "")
	if err != nil {
		t.Fatalf("LoadSessionInit failed: %v", err)
	}
	if script.DBInitSQL != "" {
		t.Errorf("DBInitSQL = %q, want empty", script.DBInitSQL)
	}
	if script.ConnInitSQL != content {
		t.Errorf("ConnInitSQL = %q, want %q", script.ConnInitSQL, content)
	}
}

func TestLoadSessionInitVerifiesSHA256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "init.sql")
	content := []byte("SELECT 1;")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	if _, err := LoadSessionInit(path, hash); err != nil {
		t.Errorf("LoadSessionInit with matching hash failed: %v", err)
	}
	if _, err := LoadSessionInit(path, "deadbeef"); err == nil {
		t.Error("expected sha256 mismatch error")
	}
}

func TestLoadSessionInitRejectsOversizeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.sql")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(maxSessionInitSize + 1); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := LoadSessionInit(path, ""); err == nil {
		t.Error("expected an error for a file over the 1 MiB limit")
	}
}

func TestSplitStatementsRespectsStringLiterals(t *testing.T) {
	got := splitStatements(`INSERT INTO t VALUES ('a;b'); SELECT 1;`)
	want := []string{"INSERT INTO t VALUES ('a;b')", " SELECT 1"}
	if len(got) != len(want) {
		t.Fatalf("got %d statements, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d = %q, want %q", i, got[i], want[i])
		}
	}
}
