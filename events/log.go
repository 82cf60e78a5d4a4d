// Package events defines the concrete event types that ride the channel
// and their binary layouts. There is no self-describing schema: each
// type's layout is the fixed sequence of fields its Content writes, and
// its decoder mirrors that sequence field for field.
package events

import (
	"fmt"

	"github.com/mvoss/evkit/mem"
)

// LogEventID is the wire type id of LogEvent.
const LogEventID int32 = 1

// Level is a log severity, stored on the wire as an int32.
type Level int32

const (
	LevelUnknown Level = iota
	LevelTrace
	LevelInfo
	LevelWarn
	LevelDebug
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelDebug:
		return "DEBUG"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelUnknown:
		return "UNKNOWNLVL"
	default:
		return "NOSUCHLVL"
	}
}

// LogEvent carries one log line.
//
// Wire layout: level int32, unix-seconds int64, then source and message
// as length-prefixed strings. Both string fields use the length-prefixed
// encoding, not the bare C-string path.
type LogEvent struct {
	Level   Level
	Time    int64 // unix seconds
	Source  string
	Message string
}

func (LogEvent) EventID() int32 { return LogEventID }

// Content serializes the event into a fresh shared buffer. The caller
// owns the returned reference.
func (e LogEvent) Content() (*mem.SharedBuffer, error) {
	size := 4 + 8 + lenPrefixed(e.Source) + lenPrefixed(e.Message)
	b, err := mem.NewShared(size, nil)
	if err != nil {
		return nil, err
	}
	s := mem.NewStream(b)
	s.SetAutoExpand(true)
	if !s.AppendI32(int32(e.Level)) ||
		!s.AppendI64(e.Time) ||
		!s.AppendString(e.Source) ||
		!s.AppendString(e.Message) {
		b.Release()
		return nil, fmt.Errorf("events: encode log event: %w", mem.ErrMemoryFault)
	}
	return b, nil
}

// DecodeLog reconstructs a LogEvent from a serialized payload. The
// buffer is borrowed; string fields are copied out.
func DecodeLog(b *mem.SharedBuffer) (LogEvent, error) {
	s := mem.NewStream(b)
	lv, err := s.GetAsI32()
	if err != nil {
		return LogEvent{}, fmt.Errorf("events: log level: %w", err)
	}
	tm, err := s.GetAsI64()
	if err != nil {
		return LogEvent{}, fmt.Errorf("events: log timestamp: %w", err)
	}
	src := s.GetView()
	if len(src) == 0 {
		return LogEvent{}, fmt.Errorf("events: log source: %w", mem.ErrMemoryFault)
	}
	msg := s.GetView()
	if len(msg) == 0 {
		return LogEvent{}, fmt.Errorf("events: log message: %w", mem.ErrMemoryFault)
	}
	return LogEvent{
		Level:   Level(lv),
		Time:    tm,
		Source:  string(src),
		Message: string(msg),
	}, nil
}

// lenPrefixed is the encoded size of a length-prefixed string field.
func lenPrefixed(s string) int {
	return 8 + len(s)
}
