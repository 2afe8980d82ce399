package connection

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tinysql-odbc/driver/internal/tsengine"
)

// maxSessionInitSize is the session-init file's size ceiling.
const maxSessionInitSize = 1 << 20

// initMarker splits a session-init file into the once-at-engine-creation
// half and the once-per-connection half.
var initMarker = regexp.MustCompile(`/\*\s*DUCKDB_CONNECTION_INIT_BELOW_MARKER\s*\*/`)

// SessionInitScript is the parsed, hash-verified result of reading a
// session-init SQL file.
type SessionInitScript struct {
	RawText      string // the original file text, surfaced in the SUCCESS_WITH_INFO diagnostic
	DBInitSQL    string // runs once, at engine creation
	ConnInitSQL  string // runs on every connection
}

// LoadSessionInit reads path
// (rejecting anything over 1 MiB), verifies the optional SHA-256 hash
// (case-insensitive hex), and splits on the DuckDB-style marker comment.
// The file is decoded through x/text's unicode.BOMOverride so a leading
// UTF-8 BOM (common when the file was authored on Windows) never leaks into
// the SQL text handed to tinySQL's lexer — the one place in this driver
// that actually uses x/text's transform/encoding machinery, as promised in
// internal/encoding's package doc.
func LoadSessionInit(path, expectedSHA256Hex string) (*SessionInitScript, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("connection: session init file: %w", err)
	}
	if info.Size() > maxSessionInitSize {
		return nil, fmt.Errorf("connection: session init file %q exceeds 1 MiB limit", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("connection: session init file: %w", err)
	}

	if expectedSHA256Hex != "" {
		sum := sha256.Sum256(raw)
		got := hex.EncodeToString(sum[:])
		if !strings.EqualFold(got, expectedSHA256Hex) {
			return nil, fmt.Errorf("connection: session init file %q sha256 mismatch: got %s", path, got)
		}
	}

	text, err := decodeBOMAware(raw)
	if err != nil {
		return nil, fmt.Errorf("connection: session init file: %w", err)
	}

	loc := initMarker.FindStringIndex(text)
	script := &SessionInitScript{RawText: text}
	if loc == nil {
		script.ConnInitSQL = text
		return script, nil
	}
	script.DBInitSQL = text[:loc[0]]
	script.ConnInitSQL = text[loc[1]:]
	return script, nil
}

func decodeBOMAware(raw []byte) (string, error) {
	r := transform.NewReader(strings.NewReader(string(raw)), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// RunScript executes every semicolon-separated statement in script against
// conn via transient, unparameterized prepare/execute calls; any failure
// tears down the connection.
func RunScript(ctx context.Context, conn *tsengine.Conn, script string) error {
	for _, stmt := range splitStatements(script) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		prep, err := tsengine.Prepare(conn, stmt)
		if err != nil {
			return err
		}
		result, err := prep.Execute(ctx, stmt)
		if err != nil {
			return err
		}
		if result.HasError() {
			return fmt.Errorf("connection: session init statement failed: %s", result.ErrorMessage())
		}
	}
	return nil
}

// splitStatements is a lexical `;`-splitter that respects string literals
// and comments, the same scan internal/param uses for placeholder
// substitution (duplicated rather than shared to keep this package free of
// a dependency on internal/param, which itself depends on internal/handle
// and internal/descriptor that session-init has no business importing).
func splitStatements(sql string) []string {
	var stmts []string
	var cur strings.Builder
	inSingle, inDouble := false, false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case inSingle:
			cur.WriteByte(c)
			if c == '\'' {
				inSingle = false
			}
		case inDouble:
			cur.WriteByte(c)
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
			cur.WriteByte(c)
		case c == '"':
			inDouble = true
			cur.WriteByte(c)
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			j := strings.IndexByte(sql[i:], '\n')
			if j < 0 {
				j = len(sql) - i
			}
			cur.WriteString(sql[i : i+j])
			i += j - 1
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := len(sql)
			if j := strings.Index(sql[i+2:], "*/"); j >= 0 {
				end = i + j + 4
			}
			cur.WriteString(sql[i:end])
			i = end - 1
		case c == ';':
			stmts = append(stmts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		stmts = append(stmts, cur.String())
	}
	return stmts
}
