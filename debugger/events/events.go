// This file is part of Zxbus.
//
// Zxbus is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zxbus is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zxbus.  If not, see <https://www.gnu.org/licenses/>.

// Package events is the debugger's view of notable hardware events. Hardware
// registers the events it can raise and fires them when they happen. The
// debugger (or a test) subscribes to be told about them.
//
// The memory expansions, for example, register "page" and "unpage" events so
// that a breakpoint can be placed on the expansion's memory being mapped in.
package events

import "fmt"

// ID of a registered event.
type ID int

// Event describes a registered event. The Type is usually the name of the
// hardware raising the event.
type Event struct {
	ID     ID
	Type   string
	Detail string
}

func (e Event) String() string {
	return fmt.Sprintf("%s/%s", e.Type, e.Detail)
}

// Events is a registry of events and subscriptions. The zero value is not
// usable. Use NewEvents().
type Events struct {
	events []Event
	counts []int
	subs   []func(Event)
}

// NewEvents is the preferred method of initialisation for the Events type.
func NewEvents() *Events {
	return &Events{}
}

// Register a new event. Registering the same type/detail pair more than once
// returns the original ID.
func (ev *Events) Register(typ string, detail string) ID {
	if id, ok := ev.Lookup(typ, detail); ok {
		return id
	}
	id := ID(len(ev.events))
	ev.events = append(ev.events, Event{ID: id, Type: typ, Detail: detail})
	ev.counts = append(ev.counts, 0)
	return id
}

// Lookup the ID of a registered event.
func (ev *Events) Lookup(typ string, detail string) (ID, bool) {
	for _, e := range ev.events {
		if e.Type == typ && e.Detail == detail {
			return e.ID, true
		}
	}
	return -1, false
}

// Fire the event. Subscribers are called in the order they subscribed. Firing
// an unregistered ID will cause a panic.
func (ev *Events) Fire(id ID) {
	if id < 0 || int(id) >= len(ev.events) {
		panic(fmt.Sprintf("events: unregistered event (%d)", id))
	}
	ev.counts[id]++
	for _, f := range ev.subs {
		f(ev.events[id])
	}
}

// Subscribe to all events.
func (ev *Events) Subscribe(f func(Event)) {
	ev.subs = append(ev.subs, f)
}

// Count returns the number of times the event has been fired.
func (ev *Events) Count(id ID) int {
	if id < 0 || int(id) >= len(ev.counts) {
		return 0
	}
	return ev.counts[id]
}

// List all registered events.
func (ev *Events) List() []Event {
	l := make([]Event, len(ev.events))
	copy(l, ev.events)
	return l
}
