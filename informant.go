package msgr

import "io"

/*
Informants. An informant is a named message category with a fixed
routing and formatting policy (severity label, error accounting, gates
for logfile/output/notifier, termination directive, colors, optional
pinned stream). Informants are created once at process start and are
immutable thereafter; derive variations with Clone.

All emission funnels through the active informer. Like the rest of the
package, informants have both error-returning emitters (suffixed with
_with_err) and convenience wrappers that surface write failures on the
informer's error stream.
*/

// NewInformant constructs an immutable informant from its spec.
func NewInformant(spec InformantSpec) *Informant {
	return &Informant{spec: spec}
}

// Clone derives a new informant from an existing one; mod receives a
// copy of the spec to adjust.
func (a *Informant) Clone(mod func(*InformantSpec)) *Informant {
	spec := a.spec
	if mod != nil {
		mod(&spec)
	}
	return &Informant{spec: spec}
}

// Severity returns the informant's header label ("" for label-less
// categories).
func (a *Informant) Severity() string { return a.spec.Severity }

// IsError reports whether emissions count towards the error total.
func (a *Informant) IsError() bool { return a.spec.IsError }

// IsContinuation reports whether the informant extends the previous
// message instead of starting its own.
func (a *Informant) IsContinuation() bool { return a.spec.IsContinuation }

// Emit_with_err sends a message through the active informer and returns
// any stream write error (a broken pipe disables the stream and is still
// returned so a hierarchical caller can detect it). Assembly failures
// (unsatisfiable template set, malformed template) panic: they indicate
// a programming error in the calling code.
func (a *Informant) Emit_with_err(opts *EmitOptions, args ...any) error {
	return ActiveInformer().emit(a, opts, args)
}

// Emit sends a message with default options. Write errors are reported
// on the informer's error stream instead of being returned.
func (a *Informant) Emit(args ...any) {
	a.EmitOpts(nil, args...)
}

// EmitOpts sends a message with explicit options. Write errors are
// reported on the informer's error stream instead of being returned.
func (a *Informant) EmitOpts(opts *EmitOptions, args ...any) {
	n := ActiveInformer()
	if err := n.emit(a, opts, args); err != nil {
		n.reportInternal("write failed: " + err.Error())
	}
}

/////////////////////////////////////////////////////////////////////////////////////////
// Standard informants. The table mirrors the conventional category set:
// silent logging, gated commentary/narration, plain output, notification,
// debug, warnings, errors and the two terminating categories.

var (
	// Log goes only to the logfile.
	Log = NewInformant(InformantSpec{
		Output: GateBool(false),
		Log:    GateBool(true),
	})

	// Comment is shown only in verbose mode (always logged).
	Comment = NewInformant(InformantSpec{
		Output:       GateFunc(func(n *Informer) bool { return n.Verbose() && !n.Mute() }),
		Log:          GateBool(true),
		MessageColor: COLOR_CYAN,
	})

	// Codicil continues the previous message, indented under its header.
	Codicil = NewInformant(InformantSpec{
		IsContinuation: true,
	})

	// Narrate is shown only when narration is enabled (always logged).
	Narrate = NewInformant(InformantSpec{
		Output:       GateFunc(func(n *Informer) bool { return n.Narrating() && !n.Mute() }),
		Log:          GateBool(true),
		MessageColor: COLOR_BLUE,
	})

	// Display is normal output, suppressed by quiet and mute.
	Display = NewInformant(InformantSpec{
		Output: GateFunc(func(n *Informer) bool { return !n.Quiet() && !n.Mute() }),
		Log:    GateBool(true),
	})

	// Output is essential output, suppressed only by mute.
	Output = NewInformant(InformantSpec{
		Output: GateFunc(func(n *Informer) bool { return !n.Mute() }),
		Log:    GateBool(true),
	})

	// Notify additionally raises a desktop notification.
	Notify = NewInformant(InformantSpec{
		Output: GateFunc(func(n *Informer) bool { return !n.Quiet() && !n.Mute() }),
		Notify: GateBool(true),
		Log:    GateBool(true),
	})

	// Debug is developer output; it ignores mute and quiet.
	Debug = NewInformant(InformantSpec{
		Severity:    "DEBUG",
		Output:      GateBool(true),
		Log:         GateBool(true),
		HeaderColor: COLOR_MAGENTA,
	})

	// Warn reports a suspicious condition without counting an error.
	Warn = NewInformant(InformantSpec{
		Severity:    "warning",
		Output:      GateFunc(func(n *Informer) bool { return !n.Quiet() && !n.Mute() }),
		Log:         GateBool(true),
		HeaderColor: COLOR_YELLOW,
	})

	// Error reports and counts an error; the process keeps running.
	Error = NewInformant(InformantSpec{
		Severity:    "error",
		IsError:     true,
		Output:      GateFunc(func(n *Informer) bool { return !n.Mute() }),
		Log:         GateBool(true),
		HeaderColor: COLOR_RED,
	})

	// Fatal reports an error and terminates with the error status.
	Fatal = NewInformant(InformantSpec{
		Severity:    "error",
		IsError:     true,
		Output:      GateFunc(func(n *Informer) bool { return !n.Mute() }),
		Log:         GateBool(true),
		HeaderColor: COLOR_RED,
		Exit:        ExitStatus(DEFAULT_ERROR_STATUS),
	})

	// Panic reports an internal invariant violation and terminates. It
	// always produces output regardless of mute settings.
	Panic = NewInformant(InformantSpec{
		Severity:    "internal error (please report)",
		IsError:     true,
		Output:      GateBool(true),
		Log:         GateBool(true),
		HeaderColor: COLOR_RED,
		Exit:        ExitStatus(STATUS_PANIC),
	})
)

/////////////////////////////////////////////////////////////////////////////////////////
// io.Writer adapter
//
// An informant can be wrapped as an io.Writer so it works with
// fmt.Fprintf and other formatting helpers:
//
//	fmt.Fprintf(msgr.Warn.Writer(), "disk low: %d%%", percent)
//
// Each Write becomes one emission; a trailing newline is taken as the
// line terminator rather than message content.

type informantWriter struct {
	informant *Informant
}

// Writer wraps the informant as an io.Writer.
func (a *Informant) Writer() io.Writer {
	return &informantWriter{informant: a}
}

// Write implements io.Writer. It forwards the payload as one emission.
// On success it returns n=len(p); on failure 0 and the write error.
func (w *informantWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	text := string(p)
	opts := &EmitOptions{}
	if text[len(text)-1] == '\n' {
		text = text[:len(text)-1]
	} else {
		empty := ""
		opts.End = &empty
	}
	err = w.informant.Emit_with_err(opts, text)
	if err == nil {
		n = len(p)
	}
	return
}
