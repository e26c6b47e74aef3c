package adapters

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Logfile is the per-sync diagnostic sink. Messages logged before a
// cache entry exists accumulate in memory; Connect flushes them into
// the entry's log file in order and switches to direct writes. The
// buffer is unbounded, which is fine for short-lived sync sessions.
type Logfile struct {
	buffer *bytes.Buffer
	file   *os.File
	debug  bool
	mirror io.Writer
}

func NewLogfile(debug bool) *Logfile {
	return &Logfile{
		buffer: &bytes.Buffer{},
		debug:  debug,
		mirror: os.Stderr,
	}
}

// Connect opens the destination file, replays the buffered messages
// into it and discards the buffer. All later Log calls write directly.
func (l *Logfile) Connect(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open log file").
			WithCause(err)
	}
	if _, err := file.Write(l.buffer.Bytes()); err != nil {
		file.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to flush log buffer").
			WithCause(err)
	}
	l.file = file
	l.buffer = nil
	return nil
}

// Log appends one message line. When the debug flag is set the message
// is also mirrored to stderr with a fixed tag.
func (l *Logfile) Log(message string) {
	fmt.Fprintln(l.writer(), message)
	if l.debug {
		fmt.Fprintf(l.mirror, "RPK: %s\n", message)
	}
}

// Writer exposes the current destination for bulk output, such as
// captured installer output.
func (l *Logfile) Writer() io.Writer {
	return l.writer()
}

// Path returns the connected log file path, or empty before Connect.
func (l *Logfile) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close releases the connected file, if any.
func (l *Logfile) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logfile) writer() io.Writer {
	if l.buffer != nil {
		return l.buffer
	}
	return l.file
}
