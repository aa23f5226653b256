package msgr

import (
	"fmt"
	"strconv"
)

/*
Termination procedure. Two terminal actions: normal completion (Done,
always status 0) and status-driven termination (Terminate). Both run the
registered termination callback, write the closing log lines and close
the logfile. When the informer is in resolve-only mode (SetExitFunc(nil))
they return the resolved status without exiting, so the protocol is
testable.
*/

// progLabel is the name used in closing log lines.
func (n *Informer) progLabel() string {
	if n.progName != "" {
		return n.progName
	}
	return "program"
}

// Done records normal completion: termination callback, closing log
// line, logfile close, exit status 0.
func (n *Informer) Done() int {
	if n.termination != nil {
		n.termination()
	}
	n.closeLogfile(n.progLabel() + " terminates normally.")
	if n.exitFn != nil {
		n.exitFn(STATUS_OK)
	}
	return STATUS_OK
}

// Terminate resolves the requested status and terminates:
//   - nil: the configured error status if any error accrued, else 0
//   - bool true: the configured error status (false resolves like nil)
//   - string: printed to the error stream and logged as a final message,
//     status forced to the configured error status
//   - int in [0,128): used verbatim; anything else panics
func (n *Informer) Terminate(status any) int {
	resolved := 0
	closing := ""
	switch s := status.(type) {
	case nil:
		if n.ErrorsAccrued(false) > 0 {
			resolved = n.errorStatus
		}
		closing = n.progLabel() + " terminates with status " + strconv.Itoa(resolved) + "."
	case bool:
		if s {
			resolved = n.errorStatus
		} else if n.ErrorsAccrued(false) > 0 {
			resolved = n.errorStatus
		}
		closing = n.progLabel() + " terminates with status " + strconv.Itoa(resolved) + "."
	case string:
		resolved = n.errorStatus
		n.writeStream(n.stderr, s, "\n", emptyOpts)
		n.writeLogfile(s + "\n")
		closing = n.progLabel() + " terminates with status '" + s + "'."
	case int:
		if s < 0 || s >= _STATUS_LIMIT_for_checks_only {
			panic(fmt.Sprintf("%s: %d", _ERROR_MESSAGE_BAD_STATUS, s))
		}
		resolved = s
		closing = n.progLabel() + " terminates with status " + strconv.Itoa(resolved) + "."
	default:
		panic(fmt.Sprintf("%s: %v", _ERROR_MESSAGE_BAD_STATUS, status))
	}
	if n.termination != nil {
		n.termination()
	}
	n.closeLogfile(closing)
	if n.exitFn != nil {
		n.exitFn(resolved)
	}
	return resolved
}

// TerminateIfErrors terminates with the configured error status if at
// least one error accrued; otherwise it is a no-op returning nil.
func (n *Informer) TerminateIfErrors() *int {
	if n.ErrorsAccrued(false) == 0 {
		return nil
	}
	resolved := n.Terminate(n.errorStatus)
	return &resolved
}

/////////////////////////////////////////////////////////////////////////////////////////
// Direct access through the active informer.

// Done terminates the active informer normally.
func Done() int { return ActiveInformer().Done() }

// Terminate terminates the active informer with the given status.
func Terminate(status any) int { return ActiveInformer().Terminate(status) }

// TerminateIfErrors terminates the active informer if errors accrued.
func TerminateIfErrors() *int { return ActiveInformer().TerminateIfErrors() }

// ErrorsAccrued returns the active informer's error count, optionally
// resetting it.
func ErrorsAccrued(reset bool) int { return ActiveInformer().ErrorsAccrued(reset) }
