// Package connection implements connection
// string parsing, DSN resolution against a flat odbc.ini-style file (the
// unixODBC convention — this driver targets POSIX hosts rather than the
// Windows registry), the in-process engine instance cache, and session-init
// script execution.
package connection

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ignoredKeys are accepted but silently dropped.
var ignoredKeys = map[string]bool{
	"driver":             true,
	"trusted_connection": true,
	"uid":                true,
	"pwd":                true,
}

// dsnOnlyKeys must never appear directly in a connection string; they are
// DSN-only options.
var dsnOnlyKeys = map[string]bool{
	"session_init_sql_file":        true,
	"session_init_sql_file_sha256": true,
}

// knownKeys backs the "did you mean" suggestion for unrecognized options.
var knownKeys = []string{
	"database", "dsn", "allowed_paths", "allowed_directories",
	"autocommit", "readonly", "access_mode", "tenant",
}

// ParseError carries the SQLSTATE-01S09-worthy detail for an unrecognized
// or disallowed connection-string key.
type ParseError struct {
	Key        string
	Suggestion string
	DSNOnly    bool
}

func (e *ParseError) Error() string {
	if e.DSNOnly {
		return fmt.Sprintf("connection option %q is only valid in a DSN, not a connection string", e.Key)
	}
	if e.Suggestion != "" {
		return fmt.Sprintf("unrecognized connection option %q (did you mean %q?)", e.Key, e.Suggestion)
	}
	return fmt.Sprintf("unrecognized connection option %q", e.Key)
}

// ParseResult is the outcome of ParseConnectionString: the parsed options
// (unrecognized keys included; each of those also produces a warning) plus
// any non-fatal warnings the caller should push as SUCCESS_
// WITH_INFO diagnostics.
type ParseResult struct {
	Options  map[string]string
	Warnings []*ParseError
}

// ParseConnectionString implements "Parsing": split on `;`,
// then on the first `=`; trim whitespace; keys lower-cased; the fixed
// ignore list dropped; unknown keys reported as warnings, not errors
// (ODBC driver-manager tools routinely probe with speculative keys).
func ParseConnectionString(s string) ParseResult {
	res := ParseResult{Options: map[string]string{}}
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(k))
		val := strings.TrimSpace(v)
		if ignoredKeys[key] {
			continue
		}
		if dsnOnlyKeys[key] {
			res.Warnings = append(res.Warnings, &ParseError{Key: key, DSNOnly: true})
			continue
		}
		if !isKnownKey(key) {
			res.Warnings = append(res.Warnings, &ParseError{Key: key, Suggestion: suggest(key)})
		}
		res.Options[key] = normalizeValue(key, val)
	}
	return res
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// normalizeValue implements "Windows path normalization": only
// allowed_paths/allowed_directories get backslashes rewritten to forward
// slashes before reaching the engine.
func normalizeValue(key, val string) string {
	if key == "allowed_paths" || key == "allowed_directories" {
		return strings.ReplaceAll(val, `\`, "/")
	}
	return val
}

// suggest returns the closest knownKeys entry to key by Levenshtein
// distance, or "" if nothing is close enough to be a plausible typo.
func suggest(key string) string {
	best, bestDist := "", len(key)+4
	for _, k := range knownKeys {
		d := levenshtein(key, k)
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	if bestDist > 3 {
		return ""
	}
	return best
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// DSNEntry resolves a named DSN's key/value section from the unixODBC-style
// flat ini file named by ODBC_SYSTEM_INI / ODBC_USER_INI. ODBC_USER_INI is
// consulted first; ODBC_SYSTEM_INI is the fallback, mirroring unixODBC's own
// precedence.
func DSNEntry(dsnName string) (map[string]string, error) {
	for _, envVar := range []string{"ODBC_USER_INI", "ODBC_SYSTEM_INI"} {
		path := os.Getenv(envVar)
		if path == "" {
			continue
		}
		sections, err := parseIniFile(path)
		if err != nil {
			return nil, err
		}
		if section, ok := sections[strings.ToLower(dsnName)]; ok {
			return section, nil
		}
	}
	return nil, fmt.Errorf("connection: DSN %q not found", dsnName)
}

func parseIniFile(path string) (map[string]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("connection: reading ini file %q: %w", path, err)
	}
	defer f.Close()

	sections := map[string]map[string]string{}
	var current string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			sections[current] = map[string]string{}
			continue
		}
		if current == "" {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		sections[current][strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

// sortedKeys returns the keys of an Options map in sorted order, for
// deterministic iteration.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
