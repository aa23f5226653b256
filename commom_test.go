package msgr

import (
	"syscall"
	"testing"
)

/*
Shared test doubles: an accumulating writer, writers that fail with a
broken pipe or a generic error, and a helper that builds an isolated
informer wired to doubles (deactivated automatically at test cleanup).
*/

type FakeWriter struct {
	buffer []byte
}

func (f *FakeWriter) Write(b []byte) (int, error) {
	f.buffer = append(f.buffer, b...)
	return len(b), nil
}
func (f *FakeWriter) String() string { return string(f.buffer) }
func (f *FakeWriter) Clear()         { f.buffer = f.buffer[:0] }

type BrokenPipeWriter struct {
	writes int
}

func (b *BrokenPipeWriter) Write(p []byte) (int, error) {
	b.writes++
	return 0, syscall.EPIPE
}

type ErrorWriter struct{}

func (e *ErrorWriter) Write(b []byte) (int, error) { return 0, syscall.EIO }

type PanicWriter struct{}

func (p *PanicWriter) Write(b []byte) (int, error) { panic("writer exploded") }

// testRig bundles an informer with its stream and logfile doubles.
type testRig struct {
	informer *Informer
	out      *FakeWriter
	err      *FakeWriter
	log      *FakeWriter
}

func strptr(s string) *string { return &s }

// newTestRig activates an informer named "app" on fake streams with a
// fake logfile and no process exit; mod (optional) adjusts the options
// before construction.
func newTestRig(t *testing.T, mod func(*InformerOptions)) *testRig {
	t.Helper()
	rig := &testRig{out: &FakeWriter{}, err: &FakeWriter{}, log: &FakeWriter{}}
	opts := InformerOptions{
		ProgName: strptr("app"),
		Argv:     []string{"app"},
		Stdout:   rig.out,
		Stderr:   rig.err,
		Logfile:  rig.log,
	}
	if mod != nil {
		mod(&opts)
	}
	rig.informer = NewInformer(opts).SetExitFunc(nil)
	rig.log.Clear() // drop the startup header; tests assert message bytes
	t.Cleanup(rig.informer.Disconnect)
	return rig
}
