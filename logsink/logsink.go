// Package logsink bridges the event bus and human-readable logging.
//
// A Logger posts LogEvents to an explicit channel handle; there is no
// process-wide logger pointer, every publisher carries its channel.
// Attach subscribes a rendering sink that writes each LogEvent through
// zerolog. Because log lines are ordinary events, they fan out to every
// attached sink and can be shipped across the wire like anything else.
package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/mvoss/evkit/event"
	"github.com/mvoss/evkit/events"
)

// Logger publishes log lines as LogEvents on a channel.
type Logger struct {
	ch *event.Channel
}

// New returns a Logger posting to ch.
func New(ch *event.Channel) *Logger {
	return &Logger{ch: ch}
}

func (l *Logger) Trace(msg string) { l.post(events.LevelTrace, msg) }
func (l *Logger) Info(msg string)  { l.post(events.LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.post(events.LevelWarn, msg) }
func (l *Logger) Debug(msg string) { l.post(events.LevelDebug, msg) }
func (l *Logger) Error(msg string) { l.post(events.LevelError, msg) }
func (l *Logger) Fatal(msg string) { l.post(events.LevelFatal, msg) }

// post publishes one line. Log call sites are not error-handling sites:
// a failed post (dead channel, allocation failure) is dropped.
func (l *Logger) post(lv events.Level, msg string) {
	if l == nil || l.ch == nil {
		return
	}
	_ = event.Post(l.ch, events.LogEvent{
		Level:   lv,
		Time:    time.Now().Unix(),
		Source:  callerSource(3),
		Message: msg,
	})
}

// callerSource renders "pid(file:line)" for the log call site.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return fmt.Sprintf("%d(?)", os.Getpid())
	}
	return fmt.Sprintf("%d(%s:%d)", os.Getpid(), filepath.Base(file), line)
}

// Attach subscribes a sink rendering every LogEvent on ch through zl.
// Returns the callback id so the owner can detach it on shutdown.
func Attach(ch *event.Channel, zl zerolog.Logger) event.CallbackID {
	return event.Subscribe(ch, events.DecodeLog, func(e events.LogEvent) {
		zl.WithLevel(zerologLevel(e.Level)).
			Time("at", time.Unix(e.Time, 0)).
			Str("from", e.Source).
			Msg(e.Message)
	})
}

func zerologLevel(lv events.Level) zerolog.Level {
	switch lv {
	case events.LevelTrace:
		return zerolog.TraceLevel
	case events.LevelInfo:
		return zerolog.InfoLevel
	case events.LevelWarn:
		return zerolog.WarnLevel
	case events.LevelDebug:
		return zerolog.DebugLevel
	case events.LevelError:
		return zerolog.ErrorLevel
	case events.LevelFatal:
		// Map to error: the sink must never exit the process on a
		// subscriber's behalf.
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

// Console returns a zerolog logger rendering to w in human-readable
// form, suitable for Attach.
func Console(w *os.File) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).With().Timestamp().Logger()
}

// OpenFile creates a timestamped log file under dir and returns a logger
// writing JSON lines to it, plus the file for the caller to close. Fails
// when dir does not exist or is not a directory.
func OpenFile(dir string) (zerolog.Logger, *os.File, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("logsink: log directory: %w", err)
	}
	if !info.IsDir() {
		return zerolog.Logger{}, nil, fmt.Errorf("logsink: %s is not a directory", dir)
	}
	name := filepath.Join(dir, time.Now().Format("2006-01-02-15-04-05")+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("logsink: open %s: %w", name, err)
	}
	return zerolog.New(f).With().Timestamp().Logger(), f, nil
}
