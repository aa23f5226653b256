package msgr

import (
	"io"
	"sync"
)

/*
Defines the core data structures used by the messenger:
  - Gate: a routing predicate that is either a constant or computed from
    the informer state
  - Exit: an informant's termination directive
  - InformantSpec / Informant: one message category's routing and
    formatting policy (immutable after construction)
  - EmitOptions: per-call keyword options accepted by informant emission
  - streamState: per-stream bookkeeping used for line-start tracking,
    progress interruption and broken-pipe disabling
  - Informer: the central state object that owns streams, the logfile,
    the error counter and the culprit tuple, and performs all emission
*/

// Gate decides whether an informant routes to a particular destination.
// It is either a constant boolean or a function of the current informer,
// evaluated uniformly at emission time.
type Gate struct {
	fn  func(*Informer) bool
	val bool
}

// GateBool makes a constant gate.
func GateBool(val bool) Gate { return Gate{val: val} }

// GateFunc makes a gate computed from the informer state at emission time.
func GateFunc(fn func(*Informer) bool) Gate { return Gate{fn: fn} }

// open evaluates the gate against the given informer.
func (g Gate) open(n *Informer) bool {
	if g.fn != nil {
		return g.fn(n)
	}
	return g.val
}

// Exit is an informant's termination directive.
type Exit struct {
	enabled  bool
	computed bool // status derived from accrued errors rather than fixed
	status   int
}

// ExitOff leaves the process running (the zero value).
func ExitOff() Exit { return Exit{} }

// ExitComputed terminates with the configured error status if any error
// accrued, 0 otherwise.
func ExitComputed() Exit { return Exit{enabled: true, computed: true} }

// ExitStatus terminates with the given status verbatim.
func ExitStatus(status int) Exit { return Exit{enabled: true, status: status} }

// InformantSpec describes one message category. It is consumed by
// NewInformant; the resulting Informant is immutable (derive variations
// with Clone).
type InformantSpec struct {
	Severity       string    // header label; empty produces label-less messages
	IsError        bool      // message counts towards the informer error total
	Log            Gate      // send to the logfile
	Output         Gate      // send to the terminal stream
	Notify         Gate      // send to the desktop notifier
	Exit           Exit      // termination directive processed after emission
	IsContinuation bool      // message extends the previous informant's message
	MessageColor   ColorName // color of the message body
	HeaderColor    ColorName // color of the header
	Stream         io.Writer // explicit destination; nil lets the stream policy decide
}

// Informant is a named message category with fixed routing and formatting
// policy. All emission funnels through the active informer.
type Informant struct {
	spec InformantSpec
}

// EmitOptions are the per-call keyword options of the informant call
// contract. The zero value means "all defaults".
type EmitOptions struct {
	Sep       string         // argument separator; empty means DEFAULT_SEP
	Template  string         // single format template; overrides Sep
	Templates []string       // candidate templates tried in order (first satisfiable wins)
	Kwargs    map[string]any // named arguments for templates
	Protect   []string       // kwarg keys immune to the falsy cull during template fallback
	Wrap      bool           // reflow the assembled body
	WrapWidth int            // wrap column; 0 means DEFAULT_WRAP_WIDTH
	Culprit   []any          // overrides the informer's current culprit tuple
	Codicil   []string       // supplementary lines appended to the body
	Urgency   Urgency        // notifier urgency override
	Stream    io.Writer      // pins the terminal destination
	End       *string        // line terminator; nil means "\n"
	Flush     *bool          // flush the stream after writing; nil means informer default
	Continue  bool           // treat this emission as a continuation
}

// streamState is the per-stream bookkeeping record.
type streamState struct {
	midLine     bool   // last write did not end with a newline
	interrupted bool   // a message was written while a progress bar was active
	barPrefix   string // text an active progress bar has drawn so far
	disabled    bool   // writes failed with a broken pipe; stream is off
}

// StreamPolicy selects the terminal stream used by an emission that pins
// no explicit stream. It receives the resolved informant and the
// informer's two default streams.
type StreamPolicy func(a *Informant, stdout, stderr io.Writer) io.Writer

// Informer is the central state holder: it owns the output streams map
// bookkeeping, the logfile handle, the error counter and the culprit
// tuple, and performs every emission.
type Informer struct {
	sync struct {
		stateMtx sync.Mutex // guards counters, culprit, previous and stream states
		logMtx   sync.Mutex // guards the logfile handle
	}
	mute    bool
	quiet   bool
	verbose bool
	narrate bool

	stdout io.Writer
	stderr io.Writer
	states map[io.Writer]*streamState

	logfile   io.Writer // nil, a real stream, or a *LogCache placeholder
	ownsLog   bool      // informer opened the logfile and must close it
	logHeader bool      // header block was already written

	errors   int        // accrued error count (monotonic, reset only on request)
	culprit  []any      // current culprit tuple (scoped, see culprit.go)
	previous *Informant // last non-continuation informant (continuation resolution)

	progName      string
	showProg      bool
	argv          []string
	version       string
	scheme        Scheme
	flush         bool
	hangingIndent bool

	notifyHeadless bool     // also notify when the chosen std stream is not a TTY
	notifier       []string // notifier command argv prefix
	notifyExec     func(argv []string) error

	policy      StreamPolicy
	termination func()    // callback invoked at termination
	errorStatus int       // status used for unexpected errors
	exitFn      func(int) // nil means "resolve the status but do not exit"

	restore *Informer // informer to reactivate on Disconnect
	extra   map[string]any
}
