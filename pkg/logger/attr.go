package logger

import (
	"log/slog"
	"strconv"
)

// Error logs err under "error". A nil error yields an empty Attr, which slog
// drops, so callers need no nil check.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// RequestID records the request identifier. Nil yields an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// PageID records the content unit a style sheet belongs to.
func PageID(id int64) slog.Attr {
	return slog.Int64("page_id", id)
}

// Backend records the name of a storage backend.
func Backend(name string) slog.Attr {
	return slog.String("backend", name)
}

// Component records the emitting component.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Count records a number of items processed.
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Bytes records a payload size.
func Bytes(n int) slog.Attr {
	return slog.Int("bytes", n)
}

// Duration records an elapsed time.
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
