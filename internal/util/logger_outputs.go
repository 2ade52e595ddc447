package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// WriterOutput writes one line per entry to any io.Writer.
type WriterOutput struct {
	writer io.Writer
	closer io.Closer
	format LogFormat
	mu     sync.Mutex
}

// NewConsoleOutput creates an output for a terminal stream such as os.Stderr.
func NewConsoleOutput(writer io.Writer, format LogFormat) Output {
	return &WriterOutput{writer: writer, format: format}
}

// NewFileOutput appends to path, creating it and its directory when missing.
func NewFileOutput(path string, format LogFormat) (Output, error) {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &WriterOutput{writer: file, closer: file, format: format}, nil
}

// Write writes a log entry
func (w *WriterOutput) Write(entry LogEntry) error {
	var line string
	if w.format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return err
		}
		line = string(data)
	} else {
		line = formatText(entry)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintln(w.writer, line)
	return err
}

// Close closes the underlying file, if any.
func (w *WriterOutput) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
