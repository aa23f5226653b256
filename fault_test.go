package msgr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Fault_Message(t *testing.T) {
	t.Run("joined_args", func(t *testing.T) {
		f := NewFault("cannot open", "config")
		assert.Equal(t, "cannot open config", f.Message())
	})
	t.Run("custom_sep", func(t *testing.T) {
		f := &Fault{Args: []any{"a", "b"}, Sep: "-"}
		assert.Equal(t, "a-b", f.Message())
	})
	t.Run("template", func(t *testing.T) {
		f := &Fault{
			Template: "{0} is not a valid {kind}",
			Args:     []any{"x"},
			Kwargs:   map[string]any{"kind": "color"},
		}
		assert.Equal(t, "x is not a valid color", f.Message())
	})
	t.Run("broken_template_falls_back_to_join", func(t *testing.T) {
		f := &Fault{Template: "{missing}", Args: []any{"raw", "text"}}
		assert.Equal(t, "raw text", f.Message())
	})
}

func Test_Fault_Error(t *testing.T) {
	f := NewFault("no such table").WithCulprit("accounts.db", nil, "users")
	assert.Equal(t, "accounts.db, users: no such table", f.Error())
	assert.Equal(t, "accounts.db, users", f.CulpritText())

	bare := NewFault("standalone")
	assert.Equal(t, "standalone", bare.Error())
	assert.Equal(t, "", bare.CulpritText())

	zero := NewFault("bad entry").WithCulprit("rec.db", 0)
	assert.Equal(t, "rec.db, 0: bad entry", zero.Error(), "a zero-valued component is kept")
}

func Test_Fault_IsAnError(t *testing.T) {
	var err error = NewFault("wrapped").WithCulprit("f.txt")
	var fault *Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, []any{"f.txt"}, fault.Culprit)
}

func Test_Fault_MessageWithContext(t *testing.T) {
	f := NewFault("parse failed").
		WithCulprit("cfg.toml").
		WithCodicil("line 7: unexpected ']'", "")
	assert.Equal(t, "cfg.toml: parse failed\n    line 7: unexpected ']'", f.MessageWithContext())
	assert.Len(t, f.Codicil, 1, "empty codicils are dropped")
}

func Test_Fault_Report(t *testing.T) {
	t.Run("default_category", func(t *testing.T) {
		rig := newTestRig(t, nil)
		NewFault("lost connection").WithCulprit("db").Report()
		assert.Equal(t, "app error: db: lost connection\n", rig.out.String())
		assert.Equal(t, 1, rig.informer.ErrorsAccrued(false))
	})
	t.Run("informant_override", func(t *testing.T) {
		rig := newTestRig(t, nil)
		f := NewFault("soft problem")
		f.Informant = Warn
		f.Report()
		assert.Equal(t, "app warning: soft problem\n", rig.out.String())
		assert.Equal(t, 0, rig.informer.ErrorsAccrued(false))
	})
	t.Run("codicil_carried_through", func(t *testing.T) {
		rig := newTestRig(t, nil)
		NewFault("bad value").WithCodicil("expected a number").Report()
		assert.Equal(t, "app error: bad value\n    expected a number\n", rig.out.String())
	})
}

func Test_Fault_Terminate(t *testing.T) {
	rig := newTestRig(t, nil)
	NewFault("fatal condition").WithCulprit("stage 2").Terminate()
	assert.Equal(t, "app error: stage 2: fatal condition\n", rig.err.String())
	assert.Contains(t, rig.log.String(), "app terminates with status 1.")
}

func Test_Fault_Extra(t *testing.T) {
	f := NewFault("tagged")
	f.Extra = map[string]any{"retryable": true}
	assert.Equal(t, true, f.Extra["retryable"])
}
