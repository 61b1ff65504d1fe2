package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile       = "file"
	KeyPath       = "path"
	KeyVariant    = "variant"
	KeyTarget     = "target"
	KeyCitations  = "citations"
	KeyConverted  = "converted"
	KeyMalformed  = "malformed"
	KeyOffset     = "offset"
	KeyLine       = "line"
	KeyCommand    = "command"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(name string) slog.Attr      { return slog.String(KeyFile, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Variant(v string) slog.Attr      { return slog.String(KeyVariant, v) }
func Target(v string) slog.Attr       { return slog.String(KeyTarget, v) }
func Citations(n int) slog.Attr       { return slog.Int(KeyCitations, n) }
func Converted(n int) slog.Attr       { return slog.Int(KeyConverted, n) }
func Malformed(n int) slog.Attr       { return slog.Int(KeyMalformed, n) }
func Offset(n int) slog.Attr          { return slog.Int(KeyOffset, n) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Command(name string) slog.Attr   { return slog.String(KeyCommand, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
