package msgr

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"
)

/*
Logfile handling. The logfile is either a real writable stream, a
deferred in-memory cache drained into a real stream once one becomes
available, or absent. It receives a startup header block, every emitted
message whose informant permits logging (colors stripped), and a closing
line recording the exit status.

Open failures at startup degrade to "no logfile": they are printed once
to the error stream and the process keeps running.
*/

const _LOG_TIME_FORMAT = "Monday, 2 January 2006 at 3:04:05 PM"

// LogCache is a deferred logfile: it accumulates log writes in memory
// until a real stream becomes available, then drains into it.
type LogCache struct {
	buf bytes.Buffer
}

// NewLogCache creates an empty deferred logfile.
func NewLogCache() *LogCache { return new(LogCache) }

// Write implements io.Writer.
func (c *LogCache) Write(p []byte) (int, error) { return c.buf.Write(p) }

// String returns the cached log text.
func (c *LogCache) String() string { return c.buf.String() }

// Drain copies the cached text into w and empties the cache.
func (c *LogCache) Drain(w io.Writer) error {
	_, err := io.Copy(w, &c.buf)
	c.buf.Reset()
	return err
}

// defaultLogfilePath is .<prog>.log in the working directory (.log when
// the program name is unknown).
func (n *Informer) defaultLogfilePath() string {
	if n.progName != "" {
		return "." + n.progName + DEFAULT_LOG_SUFFIX
	}
	return DEFAULT_LOG_SUFFIX
}

// SetLogfile installs an open stream as the logfile. A previously
// deferred cache is drained into the new stream; a previously owned
// logfile is closed first. The startup header is written once per
// informer.
func (n *Informer) SetLogfile(logfile io.Writer) *Informer {
	n.sync.logMtx.Lock()
	previous := n.logfile
	cache, wasDeferred := previous.(*LogCache)
	if n.ownsLog {
		if closer, ok := previous.(io.Closer); ok {
			closer.Close()
		}
	}
	n.logfile = logfile
	n.ownsLog = false
	if wasDeferred && logfile != nil {
		if err := cache.Drain(logfile); err != nil {
			n.logfile = nil
			n.sync.logMtx.Unlock()
			n.reportInternal("cannot drain log cache: " + err.Error())
			return n
		}
	}
	header := !n.logHeader && logfile != nil
	if header {
		n.logHeader = true
	}
	n.sync.logMtx.Unlock()

	if header {
		n.writeLogHeader()
	}
	return n
}

// SetLogfilePath opens (creating or truncating) the given path as the
// logfile, renaming any previous logfile to <path>.prev first. On
// failure the error is reported once to the error stream and the
// informer degrades to no logfile.
func (n *Informer) SetLogfilePath(path string) *Informer {
	if _, err := os.Stat(path); err == nil {
		// single rotation step: keep the previous run's log around
		os.Rename(path, path+DEFAULT_PREV_SUFFIX)
	}
	logfile, err := os.Create(path)
	if err != nil {
		n.reportInternal(OsError(err))
		return n
	}
	n.SetLogfile(logfile)
	n.sync.logMtx.Lock()
	n.ownsLog = true
	n.sync.logMtx.Unlock()
	return n
}

// writeLogHeader writes the startup header block straight to this
// informer's logfile: optional version line, invocation line, open
// timestamp. Direct writes keep the header out of the emission pipeline,
// which belongs to the active informer and tracks the previous informant.
func (n *Informer) writeLogHeader() {
	if n.progName != "" && n.version != "" {
		n.writeLogfile(n.progName + " version: " + n.version + "\n")
	}
	if len(n.argv) > 0 {
		n.writeLogfile("invoked as: " + strings.Join(n.argv, " ") + "\n")
	}
	n.writeLogfile("log opened on " + time.Now().Format(_LOG_TIME_FORMAT) + "\n")
}

// writeLogfile appends already-rendered text to the logfile. A write
// failure is reported once and drops the logfile.
func (n *Informer) writeLogfile(text string) {
	n.sync.logMtx.Lock()
	logfile := n.logfile
	n.sync.logMtx.Unlock()
	if logfile == nil {
		return
	}
	if _, err := logfile.Write([]byte(text)); err != nil {
		n.sync.logMtx.Lock()
		n.logfile = nil
		n.sync.logMtx.Unlock()
		n.reportInternal("cannot write to logfile: " + err.Error())
	}
}

// FlushLogfile flushes the logfile if it supports flushing.
func (n *Informer) FlushLogfile() *Informer {
	n.sync.logMtx.Lock()
	defer n.sync.logMtx.Unlock()
	if n.logfile != nil {
		flushStream(n.logfile)
	}
	return n
}

// closeLogfile writes the closing lines and releases the handle. Called
// by the termination procedure; safe to call twice.
func (n *Informer) closeLogfile(closing string) {
	if closing != "" {
		n.writeLogfile(closing + "\n")
		n.writeLogfile("log closed " + time.Now().Format(_LOG_TIME_FORMAT) + ".\n")
	}
	n.sync.logMtx.Lock()
	defer n.sync.logMtx.Unlock()
	if n.logfile == nil {
		return
	}
	flushStream(n.logfile)
	if n.ownsLog {
		if closer, ok := n.logfile.(io.Closer); ok {
			closer.Close()
		}
	}
	n.logfile = nil
}
