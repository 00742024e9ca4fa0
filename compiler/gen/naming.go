package gen

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Styles accepted per naming axis.
var (
	fileStyles     = []CaseStyle{CasePascal, CaseParam, CaseCamel, CaseNone}
	entityStyles   = []CaseStyle{CasePascal, CaseCamel, CaseNone}
	propertyStyles = []CaseStyle{CasePascal, CaseCamel, CaseSnake, CaseNone}
)

func checkStyle(option string, style CaseStyle, allowed []CaseStyle) error {
	if slices.Contains(allowed, style) {
		return nil
	}
	return NewConfigError(option, style, "unknown case style")
}

// Convert applies a casing style to name. The none style is the identity.
func Convert(name string, style CaseStyle) (string, error) {
	switch style {
	case CaseNone:
		return name, nil
	case CasePascal:
		return pascalCase(name), nil
	case CaseCamel:
		return camelCase(name), nil
	case CaseParam:
		return joinLower(splitWords(name), "-"), nil
	case CaseSnake:
		return joinLower(splitWords(name), "_"), nil
	default:
		return "", NewConfigError("CaseStyle", style, "unknown case style")
	}
}

// splitWords splits on lower/digit to upper and acronym to word
// boundaries. Any rune that is neither a letter, a digit nor a combining
// mark delimits words. Marks stay with the rune they follow, so a
// decomposed word such as "cafe\u0301" is never split.
func splitWords(s string) []string {
	rs := []rune(s)
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		if unicode.IsMark(r) {
			cur = append(cur, r)
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if prev, ok := lastBase(cur); ok && unicode.IsUpper(r) {
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && unicode.IsLower(nextBase(rs[i+1:])):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// lastBase returns the last rune of word that is not a combining mark.
func lastBase(word []rune) (rune, bool) {
	for i := len(word) - 1; i >= 0; i-- {
		if !unicode.IsMark(word[i]) {
			return word[i], true
		}
	}
	return 0, false
}

func nextBase(rest []rune) rune {
	for _, r := range rest {
		if !unicode.IsMark(r) {
			return r
		}
	}
	return 0
}

func joinLower(words []string, sep string) string {
	lower := cases.Lower(language.Und)
	return lower.String(strings.Join(words, sep))
}

func pascalCase(s string) string {
	var b strings.Builder
	for i, w := range splitWords(s) {
		b.WriteString(titleWord(w, i))
	}
	return b.String()
}

func camelCase(s string) string {
	lower := cases.Lower(language.Und)
	var b strings.Builder
	for i, w := range splitWords(s) {
		if i == 0 {
			b.WriteString(lower.String(w))
			continue
		}
		b.WriteString(titleWord(w, i))
	}
	return b.String()
}

// titleWord upper-cases the first letter of w and lower-cases the rest.
// A word starting with a digit is prefixed with an underscore unless it is
// the first word, so that word boundaries survive a second conversion.
func titleWord(w string, index int) string {
	first := []rune(w)[0]
	if unicode.IsDigit(first) {
		lw := cases.Lower(language.Und).String(w)
		if index > 0 {
			return "_" + lw
		}
		return lw
	}
	return cases.Title(language.Und).String(w)
}

// Namer converts logical names according to the styles of one run.
// Styles are validated once, so conversions cannot fail afterwards.
type Namer struct {
	file     CaseStyle
	entity   CaseStyle
	property CaseStyle
}

// NewNamer returns a Namer for the given axis styles.
func NewNamer(file, entity, property CaseStyle) (*Namer, error) {
	if err := checkStyle("CaseFile", file, fileStyles); err != nil {
		return nil, err
	}
	if err := checkStyle("CaseEntity", entity, entityStyles); err != nil {
		return nil, err
	}
	if err := checkStyle("CaseProperty", property, propertyStyles); err != nil {
		return nil, err
	}
	return &Namer{file: file, entity: entity, property: property}, nil
}

// FileName converts a logical file name.
func (n *Namer) FileName(s string) string {
	return mustConvert(s, n.file)
}

// EntityName converts a logical type name.
func (n *Namer) EntityName(s string) string {
	return mustConvert(s, n.entity)
}

// PropertyName converts a logical property name.
func (n *Namer) PropertyName(s string) string {
	return mustConvert(s, n.property)
}

// VariableName is the camel-cased name used for local variables and
// injected instances, independent of the configured styles.
func (n *Namer) VariableName(s string) string {
	return camelCase(s)
}

func mustConvert(s string, style CaseStyle) string {
	out, err := Convert(s, style)
	if err != nil {
		panic(err)
	}
	return out
}
