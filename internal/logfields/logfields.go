// Package logfields holds canonical slog field names shared across packages.
package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyComponent  = "component"
	KeyEntryPath  = "entry_path"
	KeyVariant    = "backend_variant"
	KeyGeneration = "backend_generation"
	KeyAttempt    = "attempt"
	KeyBytes      = "bytes"
	KeyCache      = "cache"
	KeyMode       = "mode"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"

	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyRequestID  = "request_id"
	KeyRemoteAddr = "remote_addr"
)

func BuildID(id string) slog.Attr { return slog.String(KeyBuildID, id) }
func Component(name string) slog.Attr { return slog.String(KeyComponent, name) }
func EntryPath(p string) slog.Attr { return slog.String(KeyEntryPath, p) }
func Variant(v string) slog.Attr { return slog.String(KeyVariant, v) }
func Generation(g uint64) slog.Attr { return slog.Uint64(KeyGeneration, g) }
func Attempt(n int) slog.Attr { return slog.Int(KeyAttempt, n) }
func Bytes(n int) slog.Attr { return slog.Int(KeyBytes, n) }
func Cache(state string) slog.Attr { return slog.String(KeyCache, state) }
func Mode(m string) slog.Attr { return slog.String(KeyMode, m) }
func Method(m string) slog.Attr { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }
func RemoteAddr(a string) slog.Attr { return slog.String(KeyRemoteAddr, a) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
