package msgr

import "strings"

/*
Structured fault. A Fault carries the same argument/keyword vocabulary
as an informant call, so raised errors can later be reported or
escalated to termination through the informer. It satisfies the error
interface and propagates like any Go error; calling code converts it
into an emission with Report or Terminate.
*/

// Fault is an error with informant-shaped payload. Well-known optional
// fields are explicit; anything else goes in Extra.
type Fault struct {
	Args      []any
	Sep       string         // argument separator; empty means DEFAULT_SEP
	Template  string         // format template used by Message
	Kwargs    map[string]any // named template arguments
	Culprit   []any
	Codicil   []string
	Informant *Informant     // category override for Report
	Extra     map[string]any // caller-defined passthrough fields
}

// NewFault creates a fault from positional message arguments.
func NewFault(args ...any) *Fault {
	return &Fault{Args: args}
}

// WithCulprit attaches culprit components (nil entries are removed) and
// returns the same fault, so a caught fault can be augmented and
// re-raised unchanged in type.
func (f *Fault) WithCulprit(culprit ...any) *Fault {
	f.Culprit = append(f.Culprit, cullNil(culprit)...)
	return f
}

// WithCodicil attaches supplementary lines and returns the same fault.
func (f *Fault) WithCodicil(codicil ...string) *Fault {
	for _, c := range codicil {
		if c != "" {
			f.Codicil = append(f.Codicil, c)
		}
	}
	return f
}

// Message renders the fault's message: template interpolation when a
// template is available, otherwise the arguments joined with the
// separator.
func (f *Fault) Message() string {
	if f.Template != "" {
		text, err := expandTemplate(f.Template, f.Args, f.Kwargs)
		if err == nil {
			return text
		}
	}
	sep := f.Sep
	if sep == "" {
		sep = DEFAULT_SEP
	}
	return joinArgs(sep, f.Args)
}

// CulpritText returns the joined culprit ("" when there is none).
func (f *Fault) CulpritText() string {
	return joinArgs(DEFAULT_CULPRIT_SEP, cullNil(f.Culprit))
}

// Error implements the error interface: "culprit: message" with the
// culprit omitted when absent.
func (f *Fault) Error() string {
	message := f.Message()
	if culprit := f.CulpritText(); culprit != "" {
		return culprit + ": " + message
	}
	return message
}

// MessageWithContext renders the message prefixed by the culprit and
// followed by the indented codicils.
func (f *Fault) MessageWithContext() string {
	text := f.Error()
	if len(f.Codicil) > 0 {
		text += "\n" + Indent(strings.Join(f.Codicil, "\n"), DEFAULT_INDENT, 0, 1)
	}
	return text
}

// options builds the emission options a fault carries.
func (f *Fault) options() *EmitOptions {
	return &EmitOptions{
		Sep:      f.Sep,
		Template: f.Template,
		Kwargs:   f.Kwargs,
		Culprit:  f.Culprit,
		Codicil:  f.Codicil,
	}
}

// Report forwards the fault to a non-terminating error emission (or the
// fault's informant override).
func (f *Fault) Report() {
	informant := f.Informant
	if informant == nil {
		informant = Error
	}
	informant.EmitOpts(f.options(), f.Args...)
}

// Terminate forwards the fault to a terminating error emission.
func (f *Fault) Terminate() {
	Fatal.EmitOpts(f.options(), f.Args...)
}
