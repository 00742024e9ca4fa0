package gen

import (
	"regexp"
)

var lineBreaks = regexp.MustCompile(`\r\n|\n|\r`)

// ConvertEOL rewrites every line terminator of text to eol.
func ConvertEOL(text string, eol EOL) string {
	return lineBreaks.ReplaceAllLiteralString(text, eol.Sequence())
}

// applyEOL converts text only when the configured convention differs from
// the platform default.
func applyEOL(text string, configured EOL) string {
	if configured == PlatformEOL() {
		return text
	}
	return ConvertEOL(text, configured)
}
