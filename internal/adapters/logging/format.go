package logging

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/baseline/internal/ports"
)

// TimestampLayout is the timestamp prefix of every log line.
const TimestampLayout = "2006-01-02 15:04:05"

// lineBreaks escapes line breaks so one entry stays one line.
var lineBreaks = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`)

// formatMessage renders the message part of a line: a severity marker for
// warnings and errors, the message, then any fields. Line breaks in the
// message or field values are escaped.
func formatMessage(level ports.Level, msg string, fields []ports.Field) string {
	switch level {
	case ports.LevelWarn:
		msg = "WARNING: " + msg
	case ports.LevelError:
		msg = "ERROR: " + msg
	case ports.LevelDebug:
		msg = "DEBUG: " + msg
	}

	if rendered := ports.FormatFields(fields); rendered != "" {
		msg += " " + rendered
	}
	return lineBreaks.Replace(msg)
}

// formatLine renders a complete line: "YYYY-MM-DD HH:MM:SS - <message>".
func formatLine(t time.Time, level ports.Level, msg string, fields []ports.Field) string {
	return t.Format(TimestampLayout) + " - " + formatMessage(level, msg, fields)
}

// joinFields concatenates base and call-specific fields without aliasing.
func joinFields(base, extra []ports.Field) []ports.Field {
	all := make([]ports.Field, len(base)+len(extra))
	copy(all, base)
	copy(all[len(base):], extra)
	return all
}
