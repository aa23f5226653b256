// A console messaging toolkit for command-line programs. Routes
// categorized messages (informants) to the terminal, a logfile and a
// desktop notifier with severity-based formatting, optional ANSI
// coloring, accumulated error counting and a structured termination
// protocol.
package msgr

import (
	"io"
	"os"
	"path/filepath"
	"sync"
)

/*
The informer is the active router. Exactly one informer is active at any
instant; constructing a new one suspends the previous and Disconnect
restores it (LIFO). The informer exclusively owns the logfile handle;
the output and error streams are borrowed and never closed.
*/

// InformerOptions configures a new informer. The zero value gives a
// plain stdout/stderr informer with no logfile. Unknown caller data
// belongs in Extra; there is no dynamic attribute fallback.
type InformerOptions struct {
	Mute    bool // suppress all output (still logged)
	Quiet   bool // suppress normal output (still logged)
	Verbose bool // show comments
	Narrate bool // show narration

	Logfile     io.Writer // open logfile stream (caller-managed)
	LogfilePath string    // path to open as the logfile (informer-managed)
	LogfileAuto bool      // use the default path .<prog>.log
	DeferLog    bool      // cache log writes in memory until a real logfile arrives

	ProgName *string  // program name; nil derives it from argv[0], "" hides it
	Argv     []string // invocation arguments (logged); nil means os.Args
	Version  string   // program version (logged)

	TerminationCallback func() // invoked once at termination
	Colorscheme         Scheme // SCHEME_NONE disables coloring
	Flush               bool   // flush the stream after every write
	HangingIndent       *bool  // hang continuation indents; nil means true

	Stdout io.Writer // default output stream; nil means os.Stdout
	Stderr io.Writer // default error stream; nil means os.Stderr

	NotifyIfHeadless bool     // notify when the chosen std stream is not a TTY
	Notifier         []string // notifier command argv prefix; nil means {DEFAULT_NOTIFIER}
	ErrorStatus      int      // exit status for unexpected errors; 0 means DEFAULT_ERROR_STATUS

	StreamPolicy StreamPolicy   // terminal stream selection; nil means error stream for terminating informants
	Extra        map[string]any // caller-defined passthrough metadata
}

var (
	activeMtx sync.Mutex
	active    *Informer
)

// NewInformer constructs an informer and activates it, suspending the
// previously active one (restored by Disconnect).
func NewInformer(opts InformerOptions) *Informer {
	n := new(Informer)
	n.mute = opts.Mute
	n.quiet = opts.Quiet
	// quiet wins over verbose and narrate
	if !opts.Quiet {
		n.verbose = opts.Verbose
		n.narrate = opts.Narrate
	}

	n.stdout = opts.Stdout
	if n.stdout == nil {
		n.stdout = os.Stdout
	}
	n.stderr = opts.Stderr
	if n.stderr == nil {
		n.stderr = os.Stderr
	}
	n.states = map[io.Writer]*streamState{}

	n.argv = opts.Argv
	if n.argv == nil {
		n.argv = os.Args
	}
	if opts.ProgName != nil {
		n.progName = *opts.ProgName
		n.showProg = n.progName != ""
	} else {
		if len(n.argv) > 0 && n.argv[0] != "" {
			n.progName = filepath.Base(n.argv[0])
		}
		n.showProg = n.progName != ""
	}
	n.version = opts.Version

	n.scheme = normScheme(opts.Colorscheme)
	n.flush = opts.Flush
	n.hangingIndent = opts.HangingIndent == nil || *opts.HangingIndent

	n.notifyHeadless = opts.NotifyIfHeadless
	n.notifier = opts.Notifier
	if n.notifier == nil {
		n.notifier = []string{DEFAULT_NOTIFIER}
	}
	n.notifyExec = runNotifier

	n.termination = opts.TerminationCallback
	n.errorStatus = opts.ErrorStatus
	if n.errorStatus == 0 {
		n.errorStatus = DEFAULT_ERROR_STATUS
	}
	n.policy = opts.StreamPolicy
	if n.policy == nil {
		n.policy = defaultStreamPolicy
	}
	n.exitFn = os.Exit
	n.extra = opts.Extra

	// activate first, then attach the logfile
	activeMtx.Lock()
	n.restore = active
	active = n
	activeMtx.Unlock()

	switch {
	case opts.Logfile != nil:
		n.SetLogfile(opts.Logfile)
	case opts.LogfilePath != "":
		n.SetLogfilePath(opts.LogfilePath)
	case opts.LogfileAuto:
		n.SetLogfilePath(n.defaultLogfilePath())
	case opts.DeferLog:
		n.SetLogfile(NewLogCache())
	}
	return n
}

// defaultStreamPolicy sends terminating informants to the error stream
// and everything else to the output stream.
func defaultStreamPolicy(a *Informant, stdout, stderr io.Writer) io.Writer {
	if a.spec.Exit.enabled {
		return stderr
	}
	return stdout
}

// ActiveInformer returns the informer currently performing emission.
// There is always one: a default stdout/stderr informer with no logfile
// is installed at package initialization.
func ActiveInformer() *Informer {
	activeMtx.Lock()
	defer activeMtx.Unlock()
	if active == nil {
		active = newDefaultInformer()
	}
	return active
}

// newDefaultInformer builds the fallback informer used before any
// explicit NewInformer call. Constructed directly to avoid recursing
// through the activation stack.
func newDefaultInformer() *Informer {
	n := new(Informer)
	n.stdout = os.Stdout
	n.stderr = os.Stderr
	n.states = map[io.Writer]*streamState{}
	n.argv = os.Args
	if len(n.argv) > 0 && n.argv[0] != "" {
		n.progName = filepath.Base(n.argv[0])
		n.showProg = true
	}
	n.notifier = []string{DEFAULT_NOTIFIER}
	n.notifyExec = runNotifier
	n.errorStatus = DEFAULT_ERROR_STATUS
	n.policy = defaultStreamPolicy
	n.exitFn = os.Exit
	return n
}

// Disconnect deactivates the informer and restores the previously active
// one. The logfile is flushed but left open so late emissions through
// this informer still log; ownership cleanup happens at termination.
func (n *Informer) Disconnect() {
	n.FlushLogfile()
	activeMtx.Lock()
	defer activeMtx.Unlock()
	if active == n {
		active = n.restore
	}
}

/////////////////////////////////////////////////////////////////////////////////////////
// Accessors and setters. Setters return the informer for chaining.

// Mute reports whether all output is suppressed.
func (n *Informer) Mute() bool { return n.mute }

// Quiet reports whether normal output is suppressed.
func (n *Informer) Quiet() bool { return n.quiet }

// Verbose reports whether comments are shown.
func (n *Informer) Verbose() bool { return n.verbose }

// Narrating reports whether narration is shown.
func (n *Informer) Narrating() bool { return n.narrate }

// ProgName returns the program name used in headers and log lines.
func (n *Informer) ProgName() string { return n.progName }

// Extra returns the caller-defined passthrough value stored under key.
func (n *Informer) Extra(key string) any { return n.extra[key] }

// SuppressOutput toggles muting of all terminal output.
func (n *Informer) SuppressOutput(mute bool) *Informer {
	n.mute = mute
	return n
}

// SetQuiet toggles suppression of normal output.
func (n *Informer) SetQuiet(quiet bool) *Informer {
	n.quiet = quiet
	return n
}

// SetColorscheme changes the color scheme applied to TTY destinations.
func (n *Informer) SetColorscheme(scheme Scheme) *Informer {
	n.scheme = normScheme(scheme)
	return n
}

// SetStreamPolicy replaces the stream-selection policy.
func (n *Informer) SetStreamPolicy(policy StreamPolicy) *Informer {
	if policy != nil {
		n.policy = policy
	}
	return n
}

// SetNotifier replaces the notifier command argv prefix.
func (n *Informer) SetNotifier(argv ...string) *Informer {
	if len(argv) > 0 {
		n.notifier = argv
	}
	return n
}

// SetExitFunc replaces the process-exit function. Passing nil puts the
// informer in resolve-only mode: termination computes and returns the
// exit status without exiting (used by tests).
func (n *Informer) SetExitFunc(exit func(int)) *Informer {
	n.exitFn = exit
	return n
}

// ErrorsAccrued returns the number of errors counted so far, optionally
// resetting the counter.
func (n *Informer) ErrorsAccrued(reset bool) int {
	n.sync.stateMtx.Lock()
	defer n.sync.stateMtx.Unlock()
	count := n.errors
	if reset {
		n.errors = 0
	}
	return count
}

/////////////////////////////////////////////////////////////////////////////////////////
// Per-stream bookkeeping.

// state returns (creating on first use) the bookkeeping record for a
// stream. Caller must hold stateMtx.
func (n *Informer) state(stream io.Writer) *streamState {
	st := n.states[stream]
	if st == nil {
		st = &streamState{}
		n.states[stream] = st
	}
	return st
}

// reportInternal writes an internal fault to the error stream. Internal
// faults never panic the informer.
func (n *Informer) reportInternal(text string) {
	if n.stderr != nil {
		n.stderr.Write([]byte(n.progName + ": " + text + "\n"))
	}
}
