package schema

import (
	"strconv"
	"strings"
)

// MaxIdentifierLength is the shortest identifier limit among the
// supported engines (PostgreSQL truncates at 63 bytes).
const MaxIdentifierLength = 63

// NormalizeIdentifier turns a header name into a lower-case SQL
// identifier: characters outside [a-z0-9_] become '_', runs of '_' are
// collapsed, trailing '_' are dropped and a leading digit gets a '_'
// prefix. The result may be empty; callers pick a positional fallback.
// Applying it twice gives the same result as applying it once.
func NormalizeIdentifier(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !ok {
			if lastUnderscore {
				continue
			}
			b.WriteByte('_')
			lastUnderscore = true
			continue
		}
		b.WriteRune(r)
		lastUnderscore = false
	}

	out := b.String()
	if out != "" && out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	if len(out) > MaxIdentifierLength {
		out = out[:MaxIdentifierLength]
	}
	return strings.TrimRight(out, "_")
}

// UniqueIdentifiers normalizes every name and resolves collisions by
// appending _2, _3, ... in file order. Names that normalize to nothing
// become column_N, N being the 1-based position.
func UniqueIdentifiers(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))

	for i, name := range names {
		id := NormalizeIdentifier(name)
		if id == "" {
			id = "column_" + strconv.Itoa(i+1)
		}
		candidate := id
		for n := 2; used[candidate]; n++ {
			suffix := "_" + strconv.Itoa(n)
			base := id
			if len(base)+len(suffix) > MaxIdentifierLength {
				base = base[:MaxIdentifierLength-len(suffix)]
			}
			candidate = base + suffix
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

// QualifiedName normalizes a possibly schema-qualified table name
// ("staging.Orders") into its parts.
func QualifiedName(table string) []string {
	var parts []string
	for _, p := range strings.Split(table, ".") {
		if id := NormalizeIdentifier(p); id != "" {
			parts = append(parts, id)
		}
	}
	return parts
}
