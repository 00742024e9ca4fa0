package gen

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Formatter canonicalizes rendered source text.
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, src []byte) ([]byte, error)

// Format calls f(ctx, src).
func (f FormatterFunc) Format(ctx context.Context, src []byte) ([]byte, error) {
	return f(ctx, src)
}

// NopFormatter returns its input unchanged.
type NopFormatter struct{}

// Format implements Formatter.
func (NopFormatter) Format(_ context.Context, src []byte) ([]byte, error) {
	return src, nil
}

// NewFormatter returns the formatter selected by cfg.Formatter.
func NewFormatter(cfg *Config) (Formatter, error) {
	switch cfg.Formatter {
	case FormatterBuiltin, "":
		return NewBuiltinFormatter(), nil
	case FormatterPrettier:
		return NewPrettierFormatter(cfg.PrettierPath)
	case FormatterNone:
		return NopFormatter{}, nil
	default:
		return nil, NewConfigError("Formatter", cfg.Formatter, "use builtin, prettier or none")
	}
}

// ============================================================================
// Prettier
// ============================================================================

// PrettierFormatter pipes source through the prettier CLI.
type PrettierFormatter struct {
	Path string
	Args []string
}

// NewPrettierFormatter resolves the prettier executable. A missing
// executable is a configuration error.
func NewPrettierFormatter(path string) (*PrettierFormatter, error) {
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, NewConfigError("PrettierPath", path, fmt.Sprintf("prettier not found: %v", err))
	}
	return &PrettierFormatter{
		Path: resolved,
		Args: []string{"--parser", "typescript", "--end-of-line", "auto"},
	}, nil
}

// Format implements Formatter.
func (p *PrettierFormatter) Format(ctx context.Context, src []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("prettier: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("prettier: %w", err)
	}
	return stdout.Bytes(), nil
}

// ============================================================================
// Builtin
// ============================================================================

// FormatError reports source the builtin formatter cannot make sense of.
type FormatError struct {
	Line    int
	Message string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("nestgen: format error at line %d: %s", e.Line, e.Message)
}

// BuiltinFormatter is a deterministic TypeScript re-indenter. It tracks
// brackets outside of strings, comments and template literals, indents
// each line by the innermost bracket still open, collapses runs of blanks
// inside code, trims trailing whitespace, collapses blank line runs and
// drops blank lines at the edges of blocks. The line terminator of the
// input is preserved and the output ends with one.
type BuiltinFormatter struct {
	Indent string
}

// NewBuiltinFormatter returns a formatter indenting with two spaces.
func NewBuiltinFormatter() *BuiltinFormatter {
	return &BuiltinFormatter{Indent: "  "}
}

// Format implements Formatter.
func (f *BuiltinFormatter) Format(ctx context.Context, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text := string(src)
	eol := "\n"
	if strings.Contains(text, "\r\n") {
		eol = "\r\n"
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	p := &tsPrinter{indent: f.Indent, modes: []scanMode{modeCode}}
	var (
		out     []string
		pending bool
	)
	for i, raw := range lines {
		line, verbatim, err := p.line(raw, i+1)
		if err != nil {
			return nil, err
		}
		if !verbatim && line == "" {
			if len(out) > 0 {
				pending = true
			}
			continue
		}
		if pending && !verbatim && !startsWithCloser(line) && !endsWithOpener(out[len(out)-1]) {
			out = append(out, "")
		}
		if pending && verbatim {
			out = append(out, "")
		}
		pending = false
		out = append(out, line)
	}
	if err := p.finish(len(lines)); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(out, eol) + eol), nil
}

type scanMode int

const (
	modeCode scanMode = iota
	modeBlockComment
	modeTemplate
	modeTemplateExpr
)

type bracket struct {
	ch    byte
	line  int
	open  int // indent level of the line that opened it
	level int // indent level of lines inside it
}

type tsPrinter struct {
	indent   string
	stack    []bracket
	modes    []scanMode
	exprBase []int
}

func (p *tsPrinter) mode() scanMode {
	return p.modes[len(p.modes)-1]
}

func (p *tsPrinter) level() int {
	if len(p.stack) == 0 {
		return 0
	}
	return p.stack[len(p.stack)-1].level
}

// line formats one physical line. Lines starting inside a template literal
// are returned verbatim.
func (p *tsPrinter) line(raw string, lineno int) (string, bool, error) {
	start := p.mode()
	level := p.level()
	content := raw
	if start != modeTemplate {
		content = strings.TrimSpace(raw)
	}
	if start == modeCode && content == "" {
		return "", false, nil
	}
	if start == modeCode && startsWithCloser(content) {
		if len(p.stack) == 0 {
			return "", false, &FormatError{Line: lineno, Message: fmt.Sprintf("unexpected %q", content[0])}
		}
		level = p.stack[len(p.stack)-1].open
	}

	low := len(p.stack)
	body, err := p.scan(content, lineno, &low)
	if err != nil {
		return "", false, err
	}
	for i := low; i < len(p.stack); i++ {
		p.stack[i].open = level
		p.stack[i].level = level
	}
	if len(p.stack) > low {
		p.stack[len(p.stack)-1].level = level + 1
	}
	if p.mode() != modeTemplate {
		body = strings.TrimRight(body, " \t")
	}

	switch {
	case start == modeTemplate:
		return body, true, nil
	case body == "":
		return "", false, nil
	case start == modeBlockComment:
		if strings.HasPrefix(body, "*") {
			return strings.Repeat(p.indent, level) + " " + body, false, nil
		}
		return strings.Repeat(p.indent, level) + body, false, nil
	default:
		return strings.Repeat(p.indent, level) + body, false, nil
	}
}

// scan walks one line, updating the mode and bracket stacks. Blank runs in
// code are collapsed to a single space. low tracks the smallest stack depth
// seen on the line.
func (p *tsPrinter) scan(s string, lineno int, low *int) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch p.mode() {
		case modeBlockComment:
			b.WriteByte(c)
			if c == '*' && i+1 < len(s) && s[i+1] == '/' {
				b.WriteByte('/')
				i++
				p.popMode()
			}
			continue
		case modeTemplate:
			b.WriteByte(c)
			switch {
			case c == '\\' && i+1 < len(s):
				b.WriteByte(s[i+1])
				i++
			case c == '`':
				p.popMode()
			case c == '$' && i+1 < len(s) && s[i+1] == '{':
				b.WriteByte('{')
				i++
				p.modes = append(p.modes, modeTemplateExpr)
				p.exprBase = append(p.exprBase, len(p.stack))
			}
			continue
		}

		// code or template expression
		switch c {
		case ' ', '\t':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
				b.WriteByte(' ')
			}
		case '/':
			if i+1 < len(s) && s[i+1] == '/' {
				b.WriteString(s[i:])
				return b.String(), nil
			}
			if i+1 < len(s) && s[i+1] == '*' {
				b.WriteString("/*")
				i++
				p.modes = append(p.modes, modeBlockComment)
				continue
			}
			b.WriteByte(c)
		case '"', '\'':
			end := stringEnd(s, i)
			if end < 0 {
				return "", &FormatError{Line: lineno, Message: "unterminated string literal"}
			}
			b.WriteString(s[i : end+1])
			i = end
		case '`':
			b.WriteByte(c)
			p.modes = append(p.modes, modeTemplate)
		case '(', '[', '{':
			b.WriteByte(c)
			p.stack = append(p.stack, bracket{ch: c, line: lineno})
		case ')', ']', '}':
			b.WriteByte(c)
			if c == '}' && p.mode() == modeTemplateExpr && len(p.stack) == p.exprBase[len(p.exprBase)-1] {
				p.exprBase = p.exprBase[:len(p.exprBase)-1]
				p.popMode()
				continue
			}
			if len(p.stack) == 0 || p.stack[len(p.stack)-1].ch != opener(c) {
				return "", &FormatError{Line: lineno, Message: fmt.Sprintf("unexpected %q", c)}
			}
			p.stack = p.stack[:len(p.stack)-1]
			if len(p.stack) < *low {
				*low = len(p.stack)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func (p *tsPrinter) popMode() {
	p.modes = p.modes[:len(p.modes)-1]
}

// finish reports constructs still open at the end of input.
func (p *tsPrinter) finish(lines int) error {
	switch p.mode() {
	case modeBlockComment:
		return &FormatError{Line: lines, Message: "unterminated comment"}
	case modeTemplate, modeTemplateExpr:
		return &FormatError{Line: lines, Message: "unterminated template literal"}
	}
	if n := len(p.stack); n > 0 {
		top := p.stack[n-1]
		return &FormatError{Line: top.line, Message: fmt.Sprintf("unclosed %q", top.ch)}
	}
	return nil
}

// stringEnd returns the index of the quote closing the string opened at
// s[start], or -1.
func stringEnd(s string, start int) int {
	quote := s[start]
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

func opener(c byte) byte {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}

func startsWithCloser(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.ContainsRune(")]}", rune(line[0]))
}

func endsWithOpener(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.ContainsRune("([{", rune(line[len(line)-1]))
}
