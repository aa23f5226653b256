package msgr

import (
	"errors"
	"io"
	"strings"
	"syscall"
)

/*
The emission protocol every informant invocation executes:

 1. continuation resolution (substitute the previous informant)
 2. error accounting (once, for non-continuation error informants)
 3. output gating (log / output / notify, each a Gate)
 4. assembly (body, culprit, header)
 5. layout decision (single-line vs multi-line)
 6. codicil attachment
 7. destination writes (terminal, logfile, notifier)
 8. termination
 9. previous-informant memory update

Routing and formatting decisions never fail for ordinary conditions
(missing culprit, empty message, zero destinations). Assembly failures
panic: they are programming errors in the calling code. A broken pipe
disables the affected stream and is returned to the caller once.
*/

var emptyOpts = &EmitOptions{}

func (n *Informer) emit(a *Informant, opts *EmitOptions, args []any) error {
	if opts == nil {
		opts = emptyOpts
	}

	// 1: continuation resolution
	continuing := a.spec.IsContinuation || opts.Continue
	if continuing {
		n.sync.stateMtx.Lock()
		a = n.previous
		n.sync.stateMtx.Unlock()
		if a == nil {
			panic(_ERROR_MESSAGE_NO_PREVIOUS)
		}
	} else if a.spec.IsError {
		// 2: error accounting, exactly once per emission
		n.sync.stateMtx.Lock()
		n.errors++
		n.sync.stateMtx.Unlock()
	}

	// 3: output gating
	toOutput := a.spec.Output.open(n)
	toLog := a.spec.Log.open(n)
	toNotify := a.spec.Notify.open(n)

	var werr error
	if toOutput || toLog || toNotify {
		werr = n.dispatch(a, opts, args, continuing, toOutput, toLog, toNotify)
	}

	// 8: termination (processed even when nothing was emitted)
	if a.spec.Exit.enabled {
		if a.spec.Exit.computed {
			n.Terminate(nil)
		} else {
			n.Terminate(a.spec.Exit.status)
		}
	}

	// 9: memory update for future continuation resolution
	n.sync.stateMtx.Lock()
	n.previous = a
	n.sync.stateMtx.Unlock()
	return werr
}

// dispatch performs steps 4-7 for an emission whose gates passed.
func (n *Informer) dispatch(a *Informant, opts *EmitOptions, args []any, continuing, toOutput, toLog, toNotify bool) error {
	// 4: assembly
	body, err := assemble(args, opts)
	if err != nil {
		panic(err)
	}
	culprit := n.renderCulprit(opts.Culprit)
	header := n.renderHeader(a)

	// 5: layout decision
	var multiline bool
	if continuing {
		multiline = header != ""
	} else {
		multiline = (header != "" || culprit != "") &&
			(strings.Contains(body, "\n") || len(header)+len(culprit)+len(body) > DEFAULT_LINE_WIDTH)
	}

	// 6: codicil attachment
	if len(opts.Codicil) > 0 {
		codicil := strings.Join(opts.Codicil, "\n")
		if header != "" {
			codicil = Indent(codicil, DEFAULT_INDENT, 0, 1)
		}
		body = body + "\n" + codicil
	}

	end := "\n"
	if opts.End != nil {
		end = *opts.End
	}

	// 7: destination writes
	stream := opts.Stream
	if stream == nil {
		stream = a.spec.Stream
	}
	if stream == nil {
		stream = n.policy(a, n.stdout, n.stderr)
	}

	var werr error
	if toOutput {
		scheme := SCHEME_NONE
		if IsTTY(stream) {
			scheme = n.scheme
		}
		text := n.layout(a, header, culprit, body, multiline, continuing, scheme)
		werr = n.writeStream(stream, text, end, opts)
	}

	if toLog {
		text := n.layout(a, header, culprit, body, multiline, continuing, SCHEME_NONE)
		n.writeLogfile(StripColors(text) + end)
	}

	// notify override: a severity-bearing message aimed at one of our own
	// std streams that turned out to be headless is also sent to the
	// notifier when so configured (preserved as specified; precedence
	// pending product-owner confirmation).
	if !toNotify && n.notifyHeadless && a.spec.Severity != "" &&
		(stream == n.stdout || stream == n.stderr) && !IsTTY(stream) {
		toNotify = true
	}
	if toNotify {
		n.sendNotification(a, opts.Urgency, header, culprit, body)
	}
	return werr
}

// renderCulprit joins the culprit components (the per-call override or
// the informer's current tuple) with the culprit separator, dropping nil
// entries.
func (n *Informer) renderCulprit(override []any) string {
	culprit := override
	if len(culprit) == 0 {
		n.sync.stateMtx.Lock()
		culprit = n.culprit
		n.sync.stateMtx.Unlock()
	}
	return joinArgs(DEFAULT_CULPRIT_SEP, cullNil(culprit))
}

// renderHeader combines the program name and the severity label. An
// informant without a severity gets no header at all.
func (n *Informer) renderHeader(a *Informant) string {
	if a.spec.Severity == "" {
		return ""
	}
	if n.showProg && n.progName != "" {
		return n.progName + " " + a.spec.Severity + ": "
	}
	return a.spec.Severity + ": "
}

// layout renders the final text for one destination. The header and the
// body are colorized independently; SCHEME_NONE yields the plain text
// whose bytes the logfile receives.
func (n *Informer) layout(a *Informant, header, culprit, body string, multiline, continuing bool, scheme Scheme) string {
	headerColor := NewColor(a.spec.HeaderColor, scheme)
	messageColor := NewColor(a.spec.MessageColor, scheme)

	cbody := body
	if culprit != "" {
		cbody = culprit + ": " + body
	}
	first, stops := 0, 1
	if n.hangingIndent {
		first, stops = -1, 2
	}
	switch {
	case continuing && header != "":
		// the inherited header is suppressed and replaced by indentation
		return messageColor.PaintScheme(Indent(cbody, DEFAULT_INDENT, first, stops), scheme)
	case multiline:
		return headerColor.PaintScheme(strings.TrimRight(header, " "), scheme) + "\n" +
			messageColor.PaintScheme(Indent(cbody, DEFAULT_INDENT, first, stops), scheme)
	default:
		return headerColor.PaintScheme(header, scheme) + messageColor.PaintScheme(cbody, scheme)
	}
}

// writeStream performs the terminal write with per-stream bookkeeping:
// a separating newline when the stream is mid-line (an active progress
// bar), interruption flagging, line-start tracking and one-shot
// broken-pipe disabling. A panicking writer disables the stream too.
func (n *Informer) writeStream(stream io.Writer, text, end string, opts *EmitOptions) (err error) {
	n.sync.stateMtx.Lock()
	st := n.state(stream)
	if st.disabled {
		// stream failed before; treated as unavailable
		n.sync.stateMtx.Unlock()
		return nil
	}
	full := text + end
	if st.midLine {
		full = "\n" + full
	}
	if st.barPrefix != "" {
		st.interrupted = true
	}
	st.midLine = !strings.HasSuffix(full, "\n")
	n.sync.stateMtx.Unlock()

	defer func() {
		if r := recover(); r != nil {
			n.sync.stateMtx.Lock()
			st.disabled = true
			n.sync.stateMtx.Unlock()
			err = errors.New("panic writing to stream" + panicDesc(r))
		}
	}()
	if _, err := stream.Write([]byte(full)); err != nil {
		if isBrokenPipe(err) {
			n.sync.stateMtx.Lock()
			st.disabled = true
			n.sync.stateMtx.Unlock()
		}
		return err
	}
	flush := n.flush
	if opts.Flush != nil {
		flush = *opts.Flush
	}
	if flush {
		flushStream(stream)
	}
	return nil
}

// isBrokenPipe recognizes the write failures that permanently disable a
// stream.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

// flushStream flushes stream if it supports flushing or syncing.
func flushStream(stream io.Writer) {
	switch f := stream.(type) {
	case interface{ Flush() error }:
		f.Flush()
	case interface{ Sync() error }:
		f.Sync()
	}
}
