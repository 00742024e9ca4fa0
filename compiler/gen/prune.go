package gen

import (
	"maps"
	"strings"
)

// ImportRule decides whether an import symbol that is never invoked is
// still kept.
type ImportRule int

// Import rules.
const (
	// RetainIfCalled keeps a symbol only when it is invoked.
	RetainIfCalled ImportRule = iota
	// RetainIfReferenced keeps a symbol when it appears anywhere after the
	// import list, with or without call syntax.
	RetainIfReferenced
)

// DefaultImportExceptions are the symbols kept without a call site.
// BaseEntity is only ever extended, never invoked.
var DefaultImportExceptions = map[string]ImportRule{
	"BaseEntity": RetainIfReferenced,
}

// ImportPruner removes unused symbols from the first import list of a
// rendered file. It is a textual heuristic: only the first {...} span is
// considered and a symbol counts as used when the remainder of the text
// contains it, at an identifier boundary, immediately followed by "(".
type ImportPruner struct {
	Exceptions map[string]ImportRule
}

// NewImportPruner returns a pruner with DefaultImportExceptions.
func NewImportPruner() *ImportPruner {
	return &ImportPruner{Exceptions: maps.Clone(DefaultImportExceptions)}
}

// PruneImports prunes text with DefaultImportExceptions.
func PruneImports(text string) string {
	return NewImportPruner().Prune(text)
}

// Prune returns text with the unused symbols of its first import list
// removed. Text without a brace pair is returned unchanged.
func (p *ImportPruner) Prune(text string) string {
	open := strings.Index(text, "{")
	if open < 0 {
		return text
	}
	closing := strings.Index(text[open:], "}")
	if closing < 0 {
		return text
	}
	closing += open
	rest := text[closing:]

	var kept []string
	for _, candidate := range strings.Split(text[open+1:closing], ",") {
		sym := strings.TrimSpace(candidate)
		if sym == "" {
			continue
		}
		if p.used(localName(sym), rest) {
			kept = append(kept, sym)
		}
	}
	list := "{}"
	if len(kept) > 0 {
		list = "{ " + strings.Join(kept, ", ") + " }"
	}
	return text[:open] + list + rest[1:]
}

func (p *ImportPruner) used(name, rest string) bool {
	if occurs(rest, name, true) {
		return true
	}
	return p.Exceptions[name] == RetainIfReferenced && occurs(rest, name, false)
}

// occurs reports whether name appears in text at an identifier boundary.
// With call set, the occurrence must be immediately followed by "(".
func occurs(text, name string, call bool) bool {
	if name == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(text[from:], name)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(name)
		from = start + 1
		if start > 0 && isIdentByte(text[start-1]) {
			continue
		}
		if call {
			if end < len(text) && text[end] == '(' {
				return true
			}
			continue
		}
		if end == len(text) || !isIdentByte(text[end]) {
			return true
		}
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

// localName returns the binding of an import specifier: B for "A as B".
func localName(sym string) string {
	if i := strings.LastIndex(sym, " as "); i >= 0 {
		return strings.TrimSpace(sym[i+4:])
	}
	return sym
}
