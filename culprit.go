package msgr

/*
Culprit context stack. A culprit is the contextual label (file name,
record number, identifier) attached to messages to identify their
source. Scoped overrides either replace the informer's current culprit
tuple (set-mode) or append to it (add-mode); the returned restore
function puts the prior tuple back verbatim and is safe under panic when
deferred:

	defer n.SetCulprit(filename)()
	...
	defer n.AddCulprit(recordNumber)()
*/

// cullNil drops nil culprit components. Zero values stay: a record
// number 0 is a legitimate culprit.
func cullNil(items []any) []any {
	kept := make([]any, 0, len(items))
	for _, item := range items {
		if item != nil {
			kept = append(kept, item)
		}
	}
	return kept
}

// SetCulprit replaces the current culprit tuple and returns a function
// restoring the prior one. Restore with defer so the prior tuple comes
// back on every exit path, normal or panicking.
func (n *Informer) SetCulprit(culprit ...any) (restore func()) {
	n.sync.stateMtx.Lock()
	prior := n.culprit
	n.culprit = culprit
	n.sync.stateMtx.Unlock()
	return func() {
		n.sync.stateMtx.Lock()
		n.culprit = prior
		n.sync.stateMtx.Unlock()
	}
}

// AddCulprit appends to the current culprit tuple and returns a function
// restoring the prior one.
func (n *Informer) AddCulprit(culprit ...any) (restore func()) {
	n.sync.stateMtx.Lock()
	prior := n.culprit
	joined := make([]any, 0, len(prior)+len(culprit))
	joined = append(joined, prior...)
	joined = append(joined, culprit...)
	n.culprit = joined
	n.sync.stateMtx.Unlock()
	return func() {
		n.sync.stateMtx.Lock()
		n.culprit = prior
		n.sync.stateMtx.Unlock()
	}
}

// Culprit returns the current culprit tuple, optionally extended with an
// ad hoc suffix. The stored tuple is never mutated; the result is always
// a tuple, even for a single value.
func (n *Informer) Culprit(suffix ...any) []any {
	n.sync.stateMtx.Lock()
	current := n.culprit
	n.sync.stateMtx.Unlock()
	result := make([]any, 0, len(current)+len(suffix))
	result = append(result, current...)
	result = append(result, suffix...)
	return result
}
