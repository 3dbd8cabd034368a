package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded zap JSON log line.
type Entry struct {
	Time    time.Time
	Level   zapcore.Level
	Logger  string
	Message string
	Fields  map[string]any
}

var reservedKeys = []string{"time", "ts", "level", "logger", "msg", "caller", "stacktrace"}

// Parse decodes a zap production JSON line. ok is false for anything else.
func Parse(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	msg, hasMsg := raw["msg"].(string)
	levelName, hasLevel := raw["level"].(string)
	if !hasMsg || !hasLevel {
		return Entry{}, false
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return Entry{}, false
	}

	e := Entry{Level: level, Message: msg, Fields: map[string]any{}}
	if ts, ok := raw["time"].(string); ok {
		if t, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			e.Time = t
		}
	}
	if name, ok := raw["logger"].(string); ok {
		e.Logger = name
	}
	for k, v := range raw {
		if !slices.Contains(reservedKeys, k) {
			e.Fields[k] = v
		}
	}
	return e, true
}

// Format renders e as "15:04:05 WARN  persist  message key=value".
func (e Entry) Format() string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Format("15:04:05"))
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "%-5s ", e.Level.CapitalString())
	if e.Logger != "" {
		b.WriteString(e.Logger)
		b.WriteString("  ")
	}
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}

// Tail reads the last maxLines of path and renders entries at or above min.
// Lines that are not zap JSON are passed through unchanged.
func Tail(path string, maxLines int, min zapcore.Level) ([]string, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, ok := Parse(line)
		if !ok {
			out = append(out, line)
			continue
		}
		if entry.Level < min {
			continue
		}
		out = append(out, entry.Format())
	}
	return out, nil
}
