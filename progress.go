package msgr

import (
	"errors"
	"io"
	"math"
	"os"
	"strconv"

	"golang.org/x/term"
)

/*
Progress indicator. A single-line, incrementally redrawn status bar.
Values map into discrete columns by linear (or log10) interpolation
between the start and stop bounds; drawing never rewinds. Every tenth
column surfaces a countdown digit (9..1); the final 0 is deferred to
explicit completion so the bar never shows 100% before it is finished.

The bar coordinates with the informer's per-stream interruption state:
when an unrelated message writes to the same stream the bar re-emits its
already-drawn prefix before continuing, so it appears to resume cleanly.
*/

const (
	DEFAULT_PROGRESS_WIDTH = 70  // columns when the stream width is unknown
	DEFAULT_PROGRESS_FILL  = '.' // fill character of the unmarked bar
)

// Marker is a named fill style. Markers must be registered in increasing
// severity order: when several markers queue up between visible column
// advances, the one registered last wins. The engine cannot verify this
// ordering; it is a caller contract.
type Marker struct {
	Fill  rune
	Color ColorName
}

// Progress draws the status bar on one stream of its informer.
type Progress struct {
	informer *Informer
	stream   io.Writer
	start    float64
	stop     float64
	logScale bool

	width    int    // total columns (multiple of 10)
	drawn    int    // columns already drawn (never rewound)
	rendered string // bytes drawn so far, re-emitted to resume after interruption

	markerNames []string
	markers     map[string]Marker
	pending     int // highest-priority marker queued since the last visible advance

	started  bool
	finished bool
}

// NewProgress creates a linear progress indicator on the active
// informer's output stream. Reversed bounds (start > stop) count down.
func NewProgress(start, stop float64) *Progress {
	return ActiveInformer().NewProgress(start, stop)
}

// NewProgressCount creates an indicator for count sequential steps.
func NewProgressCount(count int) *Progress {
	return NewProgress(0, float64(count))
}

// NewProgress creates a linear progress indicator on this informer's
// output stream.
func (n *Informer) NewProgress(start, stop float64) *Progress {
	p := &Progress{
		informer: n,
		stream:   n.stdout,
		start:    start,
		stop:     stop,
		markers:  map[string]Marker{},
		pending:  -1,
	}
	p.width = autoWidth(p.stream)
	return p
}

// NewLogProgress creates a log10-scaled indicator. Both bounds must be
// positive and nonzero.
func (n *Informer) NewLogProgress(start, stop float64) (*Progress, error) {
	if start <= 0 || stop <= 0 {
		return nil, errors.New(_ERROR_MESSAGE_LOG_BOUNDS)
	}
	p := n.NewProgress(math.Log10(start), math.Log10(stop))
	p.logScale = true
	return p, nil
}

// autoWidth sizes the bar from the terminal, falling back to the
// default. The result is truncated to a multiple of 10.
func autoWidth(stream io.Writer) int {
	width := DEFAULT_PROGRESS_WIDTH
	if f, ok := stream.(*os.File); ok && IsTTY(f) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 10 {
			width = w - 1
		}
	}
	width -= width % 10
	if width < 10 {
		width = 10
	}
	return width
}

// SetStream redirects the bar to another stream (before the first draw).
func (p *Progress) SetStream(stream io.Writer) *Progress {
	if !p.started && stream != nil {
		p.stream = stream
		p.width = autoWidth(stream)
	}
	return p
}

// SetWidth overrides the bar width (truncated to a multiple of 10).
func (p *Progress) SetWidth(width int) *Progress {
	if !p.started && width >= 10 {
		p.width = width - width%10
	}
	return p
}

// AddMarker registers a named fill style. Registration order is priority
// order: register markers from least to most severe.
func (p *Progress) AddMarker(name string, fill rune, color ColorName) *Progress {
	if _, exists := p.markers[name]; !exists {
		p.markerNames = append(p.markerNames, name)
	}
	p.markers[name] = Marker{Fill: fill, Color: color}
	return p
}

// markerIndex returns the priority of a named marker (-1 when unknown).
func (p *Progress) markerIndex(name string) int {
	for i, known := range p.markerNames {
		if known == name {
			return i
		}
	}
	return -1
}

// column maps a value into a column position, clamped to the bar.
func (p *Progress) column(value float64) int {
	if p.logScale {
		if value <= 0 {
			return 0
		}
		value = math.Log10(value)
	}
	span := p.stop - p.start
	if span == 0 {
		return p.width
	}
	frac := (value - p.start) / span
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return int(frac * float64(p.width))
}

// Draw advances the bar to the given value, optionally tagging a named
// marker for the newly drawn span. Draws that produce no visible column
// advance only queue their marker; a later advance renders the highest
// priority marker queued since the last one. No-op once finished.
func (p *Progress) Draw(value float64, marker ...string) {
	if p.finished {
		return
	}
	p.started = true
	if len(marker) > 0 {
		if idx := p.markerIndex(marker[0]); idx > p.pending {
			p.pending = idx
		}
	}
	// the final column carries the deferred "0"; only Done draws it
	target := min(p.column(value), p.width-1)
	if target <= p.drawn {
		return
	}
	p.emit(p.span(target))
	p.drawn = target
	p.pending = -1
}

// span renders the columns (p.drawn, to] with the pending marker style.
func (p *Progress) span(to int) string {
	fill := string(DEFAULT_PROGRESS_FILL)
	paint := NewColor(COLOR_NONE, SCHEME_NONE)
	if p.pending >= 0 {
		m := p.markers[p.markerNames[p.pending]]
		fill = string(m.Fill)
		if IsTTY(p.stream) {
			paint = NewColor(m.Color, p.informer.scheme)
		}
	}
	step := p.width / 10
	text := ""
	for c := p.drawn + 1; c <= to; c++ {
		if c%step == 0 {
			text += strconv.Itoa(10 - c/step)
		} else {
			text += fill
		}
	}
	return paint.Paint(text)
}

// emit writes bar bytes with the informer's per-stream bookkeeping,
// resuming from the already-drawn prefix after an interruption. A stream
// disabled by an earlier broken pipe receives nothing.
func (p *Progress) emit(text string) {
	n := p.informer
	n.sync.stateMtx.Lock()
	st := n.state(p.stream)
	if st.disabled {
		n.sync.stateMtx.Unlock()
		return
	}
	out := text
	if st.interrupted {
		out = p.rendered + text
		st.interrupted = false
	}
	p.rendered += text
	st.barPrefix = p.rendered
	st.midLine = true
	n.sync.stateMtx.Unlock()
	p.stream.Write([]byte(out))
}

// Done completes the bar: the remaining width is drawn, the terminal "0"
// appended and the line closed. No-op once finished.
func (p *Progress) Done() {
	if p.finished {
		return
	}
	p.emit(p.span(p.width-1) + "0\n")
	p.drawn = p.width
	p.finish()
}

// Abandon marks the bar finished without completing it. Use with defer
// to guarantee finalize-or-abandon; Abandon after Done is a no-op.
func (p *Progress) Abandon() {
	if p.finished {
		return
	}
	p.finish()
}

// finish clears the bar's claim on the stream. A half-drawn abandoned
// bar leaves the stream mid-line; the next message inserts the line
// break itself.
func (p *Progress) finish() {
	p.finished = true
	n := p.informer
	n.sync.stateMtx.Lock()
	st := n.state(p.stream)
	st.barPrefix = ""
	st.interrupted = false
	if p.drawn == p.width {
		st.midLine = false
	}
	n.sync.stateMtx.Unlock()
}

// ProgressEach drives a bar over a slice, drawing after each element and
// completing the bar when the loop finishes. A panic inside fn abandons
// the bar.
func ProgressEach[T any](items []T, fn func(T)) {
	p := NewProgressCount(len(items))
	defer p.Abandon()
	for i, item := range items {
		fn(item)
		p.Draw(float64(i + 1))
	}
	p.Done()
}
