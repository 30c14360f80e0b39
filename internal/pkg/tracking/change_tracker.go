// Package tracking provides dirty-field tracking for domain aggregates so
// repositories persist only the columns a transition actually touched.
package tracking

// ChangeTracker records which aggregate fields have been modified.
type ChangeTracker struct {
	dirty map[string]bool
}

// NewChangeTracker creates an empty tracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[string]bool)}
}

// MarkDirty flags a field as modified.
func (ct *ChangeTracker) MarkDirty(field string) {
	ct.dirty[field] = true
}

// Dirty reports whether a field was modified.
func (ct *ChangeTracker) Dirty(field string) bool {
	return ct.dirty[field]
}

// HasChanges reports whether anything was modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirty) > 0
}

// Clear resets the tracker.
func (ct *ChangeTracker) Clear() {
	ct.dirty = make(map[string]bool)
}
