package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cuemby/oretrace/pkg/validate"
)

// LogEntry is one line of the alert log
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     validate.Level         `json:"level"`
	Rule      string                 `json:"rule"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
}

// LogNotifier appends alerts to a JSON-lines file
type LogNotifier struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewLogNotifier creates the parent directory of path if needed
func NewLogNotifier(path string) (*LogNotifier, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create alert log directory: %w", err)
	}
	return &LogNotifier{path: path, now: time.Now}, nil
}

func (n *LogNotifier) Name() string { return "log" }

// Path returns the alert log file path
func (n *LogNotifier) Path() string { return n.path }

// Send appends one JSON object for a
func (n *LogNotifier) Send(ctx context.Context, a validate.Alert) error {
	entry := LogEntry{
		Timestamp: n.now().UTC(),
		Level:     a.Level,
		Rule:      a.Rule,
		Message:   a.Message,
		Data:      a.Data,
	}
	if entry.Data == nil {
		entry.Data = map[string]interface{}{}
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	f, err := os.OpenFile(n.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open alert log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write alert log: %w", err)
	}
	return nil
}

// ReadAlerts returns the last limit entries of the log, or all of them when
// limit is not positive. Lines that do not decode are skipped.
func (n *LogNotifier) ReadAlerts(limit int) ([]LogEntry, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	f, err := os.Open(n.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEntry{}, nil
		}
		return nil, fmt.Errorf("failed to open alert log: %w", err)
	}
	defer f.Close()

	entries := []LogEntry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alert log: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
