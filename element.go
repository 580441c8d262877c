package fieldmodel

// ChangeHandler is invoked synchronously after an effective mutation of
// sender. Handlers must not mutate sender again.
type ChangeHandler func(sender Tracker)

// Tracker is anything that embeds an Element: records, lists and reference
// tables owned by records.
type Tracker interface {
	RequestedVersion() uint32
	IsDirty() bool
	ChangeHandler() ChangeHandler
	SetChangeHandler(h ChangeHandler)
	element() *Element
}

// Record is a field-bearing entity whose visible fields depend on its
// requested version. Implement it by embedding Element and adding
// a RecordType method.
type Record interface {
	Tracker
	RecordType() *RecordType
}

// Element holds the change-tracking state of a record or a collection.
// The zero value is a clean element with requested version 0 and no handler.
type Element struct {
	version uint32
	dirty   bool
	handler ChangeHandler
}

func (e *Element) Init(version uint32, h ChangeHandler) {
	e.version = version
	e.handler = h
}

func (e *Element) RequestedVersion() uint32         { return e.version }
func (e *Element) IsDirty() bool                    { return e.dirty }
func (e *Element) ChangeHandler() ChangeHandler     { return e.handler }
func (e *Element) SetChangeHandler(h ChangeHandler) { e.handler = h }
func (e *Element) element() *Element                { return e }

// Changed marks t dirty and notifies its handler. Call it from setters after
// the new value has been stored, and only if the value actually changed.
func Changed(t Tracker) {
	e := t.element()
	e.dirty = true
	if h := e.handler; h != nil {
		h(t)
	}
}

// HandlerFor returns a handler that propagates a child's change into owner.
func HandlerFor(owner Tracker) ChangeHandler {
	return func(Tracker) {
		Changed(owner)
	}
}

// SetIfChanged stores v into *ptr and notifies t when v differs from the
// current value. Reports whether anything changed.
func SetIfChanged[T comparable](t Tracker, ptr *T, v T) bool {
	if *ptr == v {
		return false
	}
	*ptr = v
	Changed(t)
	return true
}

// reset returns a freshly built element to the clean state and attaches h.
func (e *Element) reset(h ChangeHandler) {
	e.dirty = false
	e.handler = h
}
