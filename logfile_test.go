package msgr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Logfile_StartupHeader(t *testing.T) {
	log := &FakeWriter{}
	n := NewInformer(InformerOptions{
		ProgName: strptr("app"),
		Argv:     []string{"app", "--flag", "value"},
		Version:  "1.2.3",
		Stdout:   &FakeWriter{},
		Stderr:   &FakeWriter{},
		Logfile:  log,
	}).SetExitFunc(nil)
	t.Cleanup(n.Disconnect)

	lines := strings.Split(log.String(), "\n")
	assert.Equal(t, "app version: 1.2.3", lines[0])
	assert.Equal(t, "invoked as: app --flag value", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "log opened on "))
}

func Test_Logfile_HeaderSkipsMissingVersion(t *testing.T) {
	log := &FakeWriter{}
	n := NewInformer(InformerOptions{
		ProgName: strptr("app"),
		Argv:     []string{"app"},
		Stdout:   &FakeWriter{},
		Stderr:   &FakeWriter{},
		Logfile:  log,
	}).SetExitFunc(nil)
	t.Cleanup(n.Disconnect)

	assert.True(t, strings.HasPrefix(log.String(), "invoked as: app\n"))
}

func Test_Logfile_HeaderGoesToTheOwningInformer(t *testing.T) {
	suspended := NewInformer(InformerOptions{
		ProgName: strptr("outer"),
		Argv:     []string{"outer"},
		Stdout:   &FakeWriter{},
		Stderr:   &FakeWriter{},
	}).SetExitFunc(nil)
	t.Cleanup(suspended.Disconnect)

	rig := newTestRig(t, nil) // activates a second informer on top

	late := &FakeWriter{}
	suspended.SetLogfile(late)
	assert.Contains(t, late.String(), "invoked as: outer\n")
	assert.Equal(t, "", rig.log.String(), "the active informer's logfile stays untouched")
}

func Test_Logfile_Deferred(t *testing.T) {
	rig := newTestRig(t, func(o *InformerOptions) {
		o.Logfile = nil
		o.DeferLog = true
	})
	Display.Emit("buffered while deferred")

	real := &FakeWriter{}
	rig.informer.SetLogfile(real)
	drained := real.String()
	assert.Contains(t, drained, "invoked as: app\n")
	assert.Contains(t, drained, "buffered while deferred\n")
	assert.Equal(t, 1, strings.Count(drained, "invoked as:"), "header is written once per informer")

	Display.Emit("after the real logfile arrived")
	assert.Contains(t, real.String(), "after the real logfile arrived\n")
}

func Test_Logfile_WriteFailureDegrades(t *testing.T) {
	rig := newTestRig(t, nil)
	// swap in a failing logfile after construction so the header succeeds
	rig.informer.SetLogfile(&ErrorWriter{})
	Display.Emit("doomed entry")
	assert.Contains(t, rig.err.String(), "app: cannot write to logfile:")

	rig.err.Clear()
	Display.Emit("next entry")
	assert.Equal(t, "", rig.err.String(), "the logfile is dropped after the first failure")
	assert.Equal(t, "next entry\n", strings.TrimPrefix(rig.out.String(), "doomed entry\n"),
		"terminal output is unaffected")
}

func Test_Logfile_DefaultPath(t *testing.T) {
	rig := newTestRig(t, nil)
	assert.Equal(t, ".app"+DEFAULT_LOG_SUFFIX, rig.informer.defaultLogfilePath())
}

func Test_Logfile_CloseIsIdempotent(t *testing.T) {
	rig := newTestRig(t, nil)
	rig.informer.Done()
	closed := rig.log.String()
	rig.informer.Done()
	assert.Equal(t, closed, rig.log.String(), "a second Done writes nothing more")
}

func Test_LogCache(t *testing.T) {
	cache := NewLogCache()
	cache.Write([]byte("one\n"))
	cache.Write([]byte("two\n"))
	assert.Equal(t, "one\ntwo\n", cache.String())

	sink := &FakeWriter{}
	assert.NoError(t, cache.Drain(sink))
	assert.Equal(t, "one\ntwo\n", sink.String())
	assert.Equal(t, "", cache.String(), "drained cache is empty")
}
