package msgr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Terminate_StatusResolution(t *testing.T) {
	t.Run("nil_without_errors", func(t *testing.T) {
		rig := newTestRig(t, nil)
		assert.Equal(t, 0, rig.informer.Terminate(nil))
	})
	t.Run("nil_with_errors", func(t *testing.T) {
		rig := newTestRig(t, nil)
		Error.Emit("boom")
		assert.Equal(t, DEFAULT_ERROR_STATUS, rig.informer.Terminate(nil))
	})
	t.Run("true_forces_error_status", func(t *testing.T) {
		rig := newTestRig(t, nil)
		assert.Equal(t, DEFAULT_ERROR_STATUS, rig.informer.Terminate(true))
	})
	t.Run("false_resolves_like_nil", func(t *testing.T) {
		rig := newTestRig(t, nil)
		assert.Equal(t, 0, rig.informer.Terminate(false))
	})
	t.Run("int_used_verbatim", func(t *testing.T) {
		rig := newTestRig(t, nil)
		assert.Equal(t, 5, rig.informer.Terminate(5))
	})
	t.Run("configured_error_status", func(t *testing.T) {
		rig := newTestRig(t, func(o *InformerOptions) { o.ErrorStatus = 7 })
		Error.Emit("boom")
		assert.Equal(t, 7, rig.informer.Terminate(nil))
	})
	t.Run("out_of_range_panics", func(t *testing.T) {
		rig := newTestRig(t, nil)
		assert.Panics(t, func() { rig.informer.Terminate(200) })
		assert.Panics(t, func() { rig.informer.Terminate(-1) })
	})
	t.Run("unknown_type_panics", func(t *testing.T) {
		rig := newTestRig(t, nil)
		assert.Panics(t, func() { rig.informer.Terminate(3.5) })
	})
}

func Test_Terminate_StringStatus(t *testing.T) {
	rig := newTestRig(t, nil)
	status := rig.informer.Terminate("cannot proceed")
	assert.Equal(t, DEFAULT_ERROR_STATUS, status)
	assert.Equal(t, "cannot proceed\n", rig.err.String())
	assert.Contains(t, rig.log.String(), "cannot proceed\n")
	assert.Contains(t, rig.log.String(), "app terminates with status 'cannot proceed'.")
}

func Test_Terminate_ClosingLogLines(t *testing.T) {
	rig := newTestRig(t, nil)
	Error.Emit("boom")
	rig.informer.Terminate(nil)
	log := rig.log.String()
	assert.Contains(t, log, "app terminates with status 1.")
	assert.Contains(t, log, "log closed ")
	assert.True(t, strings.HasSuffix(log, ".\n"))
}

func Test_Terminate_Callback(t *testing.T) {
	calls := 0
	rig := newTestRig(t, func(o *InformerOptions) {
		o.TerminationCallback = func() { calls++ }
	})
	rig.informer.Terminate(0)
	assert.Equal(t, 1, calls)
}

func Test_Terminate_ExitFunc(t *testing.T) {
	rig := newTestRig(t, nil)
	exited := -1
	rig.informer.SetExitFunc(func(status int) { exited = status })
	rig.informer.Terminate(4)
	assert.Equal(t, 4, exited)
}

func Test_Done(t *testing.T) {
	rig := newTestRig(t, nil)
	assert.Equal(t, STATUS_OK, rig.informer.Done())
	assert.Contains(t, rig.log.String(), "app terminates normally.")
	assert.Contains(t, rig.log.String(), "log closed ")
}

func Test_TerminateIfErrors(t *testing.T) {
	t.Run("clean_run_is_a_no_op", func(t *testing.T) {
		rig := newTestRig(t, nil)
		assert.Nil(t, rig.informer.TerminateIfErrors())
		assert.Equal(t, "", rig.log.String(), "no closing lines on the no-op path")
	})
	t.Run("errors_trigger_termination", func(t *testing.T) {
		rig := newTestRig(t, nil)
		Error.Emit("boom")
		status := rig.informer.TerminateIfErrors()
		require.NotNil(t, status)
		assert.Equal(t, DEFAULT_ERROR_STATUS, *status)
	})
}

func Test_Terminate_FatalInformant(t *testing.T) {
	rig := newTestRig(t, nil)
	Fatal.Emit("unrecoverable")
	assert.Equal(t, "app error: unrecoverable\n", rig.err.String())
	assert.Contains(t, rig.log.String(), "app terminates with status 1.")
}
