package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyAction     = "action"
	KeyPage       = "page"
	KeyLang       = "lang"
	KeyFigure     = "figure"
	KeyRule       = "rule"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyPages      = "pages"
	KeyLinguas    = "linguas"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Action(a string) slog.Attr       { return slog.String(KeyAction, a) }
func Page(id string) slog.Attr        { return slog.String(KeyPage, id) }
func Lang(code string) slog.Attr      { return slog.String(KeyLang, code) }
func Figure(src string) slog.Attr     { return slog.String(KeyFigure, src) }
func Rule(name string) slog.Attr      { return slog.String(KeyRule, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Linguas(n int) slog.Attr         { return slog.Int(KeyLinguas, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
