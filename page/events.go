package page

// EventKind identifies what changed in a Document.
type EventKind string

const (
	EventText    EventKind = "text"    // Element text replaced
	EventContent EventKind = "content" // Markup replaced (ID empty for the whole document)
	EventAttr    EventKind = "attr"    // Attribute set or removed
)

// Event describes one mutation of a Document.
type Event struct {
	Kind  EventKind `json:"kind"`
	ID    string    `json:"id,omitempty"`
	Name  string    `json:"name,omitempty"`
	Value string    `json:"value,omitempty"`
}

// Subscribe registers fn for every subsequent mutation and returns a
// function that unregisters it. fn runs on the mutating goroutine without
// the document lock held; it must not block.
func (d *Document) Subscribe(fn func(Event)) func() {
	d.mu.Lock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.observers, id)
		d.mu.Unlock()
	}
}

func (d *Document) publish(ev Event) {
	d.mu.Lock()
	fns := make([]func(Event), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
