package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fitza/batchtrace-go/internal/infrastructure/config"
)

var levelOrder = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// Logger writes leveled log lines to the configured destination.
// Implements the application layer's JobLogger interface.
type Logger struct {
	out      io.Writer
	minLevel int
	jsonMode bool
}

// New creates a logger from the logging configuration
func New(cfg *config.LoggingConfig) (*Logger, error) {
	var out io.Writer
	switch cfg.Output {
	case "stderr":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
	default:
		out = os.Stdout
	}

	minLevel, ok := levelOrder[strings.ToUpper(cfg.Level)]
	if !ok {
		minLevel = levelOrder["INFO"]
	}

	return &Logger{
		out:      out,
		minLevel: minLevel,
		jsonMode: cfg.Format == "json",
	}, nil
}

// Log writes one entry if its level passes the configured threshold
func (l *Logger) Log(level, message string, metadata map[string]interface{}) {
	rank, ok := levelOrder[strings.ToUpper(level)]
	if !ok {
		rank = levelOrder["INFO"]
	}
	if rank < l.minLevel {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)

	if l.jsonMode {
		entry := map[string]interface{}{
			"timestamp": now,
			"level":     strings.ToUpper(level),
			"message":   message,
		}
		for k, v := range metadata {
			entry[k] = v
		}
		raw, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.out, "%s %s %s\n", now, strings.ToUpper(level), message)
			return
		}
		fmt.Fprintln(l.out, string(raw))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %-5s %s", now, strings.ToUpper(level), message)

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, metadata[k])
	}
	fmt.Fprintln(l.out, sb.String())
}
