package dom

import "golang.org/x/net/html"

const Click = "click"

type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node

	stopped bool
}

// StopPropagation keeps the event from reaching ancestors of the node whose
// listeners are currently running. Remaining listeners on that node still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// Listener wraps a handler so it has an identity. Removal matches on the
// *Listener, never on the function value.
type Listener struct {
	fn func(*Event)
}

func NewListener(fn func(*Event)) *Listener {
	return &Listener{fn: fn}
}

// AddEventListener registers l for typ on n. Adding the same listener twice
// is a no-op.
func (d *Document) AddEventListener(n *html.Node, typ string, l *Listener) {
	if n == nil || l == nil {
		return
	}
	if d.listeners == nil {
		d.listeners = make(map[*html.Node]map[string][]*Listener)
	}
	byType := d.listeners[n]
	if byType == nil {
		byType = make(map[string][]*Listener)
		d.listeners[n] = byType
	}
	for _, existing := range byType[typ] {
		if existing == l {
			return
		}
	}
	byType[typ] = append(byType[typ], l)
}

// RemoveEventListener detaches l. It reports whether l was registered.
func (d *Document) RemoveEventListener(n *html.Node, typ string, l *Listener) bool {
	byType := d.listeners[n]
	if byType == nil {
		return false
	}
	ls := byType[typ]
	for i, existing := range ls {
		if existing != l {
			continue
		}
		byType[typ] = append(ls[:i:i], ls[i+1:]...)
		if len(byType[typ]) == 0 {
			delete(byType, typ)
		}
		if len(byType) == 0 {
			delete(d.listeners, n)
		}
		return true
	}
	return false
}

func (d *Document) ListenerCount(n *html.Node, typ string) int {
	return len(d.listeners[n][typ])
}

// TotalListeners counts registrations across the whole document.
func (d *Document) TotalListeners() int {
	total := 0
	for _, byType := range d.listeners {
		for _, ls := range byType {
			total += len(ls)
		}
	}
	return total
}

// Dispatch fires an event at target and bubbles it through the ancestors.
func (d *Document) Dispatch(target *html.Node, typ string) *Event {
	ev := &Event{Type: typ, Target: target}
	for n := target; n != nil; n = n.Parent {
		ls := d.listeners[n][typ]
		if len(ls) == 0 {
			continue
		}
		ev.CurrentTarget = n
		snapshot := append([]*Listener(nil), ls...)
		for _, l := range snapshot {
			l.fn(ev)
		}
		if ev.stopped {
			break
		}
	}
	ev.CurrentTarget = nil
	return ev
}

func (d *Document) Click(target *html.Node) *Event {
	return d.Dispatch(target, Click)
}
