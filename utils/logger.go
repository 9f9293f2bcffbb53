package utils

import (
	"log/slog"
	"os"
	"sync"

	"github.com/mdobak/go-xerrors"
)

var (
	loggerOnce sync.Once
	logger     *slog.Logger
)

// GetLogger returns the shared structured logger. Error values wrapped with
// xerrors carry their stack trace into the log record.
func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			ReplaceAttr: replaceAttr,
		})
		logger = slog.New(handler)
	})
	return logger
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if err, ok := a.Value.Any().(error); ok {
		a.Value = fmtErr(err)
	}
	return a
}

type stackFrame struct {
	Func   string `json:"func"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}

// fmtErr flattens an error into a message plus any attached stack trace.
func fmtErr(err error) slog.Value {
	attrs := []slog.Attr{slog.String("msg", err.Error())}

	trace := xerrors.StackTrace(err)
	if len(trace) > 0 {
		frames := trace.Frames()
		s := make([]stackFrame, 0, len(frames))
		for _, f := range frames {
			s = append(s, stackFrame{
				Func:   f.Function,
				Source: f.File,
				Line:   f.Line,
			})
		}
		attrs = append(attrs, slog.Any("trace", s))
	}

	return slog.GroupValue(attrs...)
}
