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

package periph

import (
	"fmt"
)

type peripheral struct {
	typ      Type
	desc     Descriptor
	presence Presence
	active   bool
}

// a port rule in the dispatch lists
type dispatch struct {
	typ  Type
	rule PortRule
}

// Registry of peripherals.
type Registry struct {
	periphs []*peripheral

	// dispatch lists. rebuilt whenever the activity of a peripheral changes
	readers []dispatch
	writers []dispatch

	floatingBus func() uint8
}

// NewRegistry is the preferred method of initialisation for the Registry type.
func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) String() string {
	s := ""
	for _, p := range r.periphs {
		s = fmt.Sprintf("%s%s: %s", s, p.typ, p.presence)
		if p.active {
			s = fmt.Sprintf("%s [active]", s)
		}
		s = fmt.Sprintf("%s\n", s)
	}
	return s
}

func (r *Registry) lookup(t Type) *peripheral {
	for _, p := range r.periphs {
		if p.typ == t {
			return p
		}
	}
	panic(fmt.Sprintf("periph: unregistered peripheral (%s)", t))
}

// Register a peripheral. A new peripheral is never present and inactive.
// Registering the same Type twice will cause a panic.
func (r *Registry) Register(t Type, d Descriptor) {
	if t < 0 || t >= numTypes {
		panic(fmt.Sprintf("periph: illegal peripheral type (%d)", int(t)))
	}
	if r.Registered(t) {
		panic(fmt.Sprintf("periph: peripheral registered twice (%s)", t))
	}
	r.periphs = append(r.periphs, &peripheral{
		typ:      t,
		desc:     d,
		presence: Never,
	})
}

// Registered returns true if the peripheral Type has been registered.
func (r *Registry) Registered(t Type) bool {
	for _, p := range r.periphs {
		if p.typ == t {
			return true
		}
	}
	return false
}

// Clear all peripherals from the registry.
func (r *Registry) Clear() {
	r.periphs = r.periphs[:0]
	r.rebuild()
}

// SetPresence of the peripheral in the current machine. The active state is
// not changed until the next call to Update() or Activate(), with the
// exception of Never, which deactivates the peripheral immediately.
func (r *Registry) SetPresence(t Type, presence Presence) {
	p := r.lookup(t)
	p.presence = presence
	if presence == Never && p.active {
		p.active = false
		r.rebuild()
	}
}

// Presence of the peripheral in the current machine.
func (r *Registry) Presence(t Type) Presence {
	return r.lookup(t).presence
}

// Activate or deactivate a peripheral. Returns true if the active state of
// the peripheral has changed. A peripheral can never be activated if its
// presence is Never.
//
// The activation callback is called when the peripheral changes from inactive
// to active.
func (r *Registry) Activate(t Type, active bool) bool {
	p := r.lookup(t)
	if p.presence == Never {
		return false
	}
	if p.active == active {
		return false
	}

	p.active = active
	r.rebuild()

	if active && p.desc.Activate != nil {
		p.desc.Activate()
	}

	return true
}

// IsActive returns true if the peripheral is active.
func (r *Registry) IsActive(t Type) bool {
	p := r.lookup(t)
	return p.active && p.presence != Never
}

// Active returns the list of active peripherals in registration order.
func (r *Registry) Active() []Type {
	var l []Type
	for _, p := range r.periphs {
		if p.active && p.presence != Never {
			l = append(l, p.typ)
		}
	}
	return l
}

// DisableOptional deactivates every optional peripheral. Activation
// callbacks are not called.
func (r *Registry) DisableOptional() {
	for _, p := range r.periphs {
		if p.presence == Optional {
			p.active = false
		}
	}
	r.rebuild()
}

// Update the active state of every peripheral from its presence and
// configuration flag. Returns true if a peripheral that requires a hard reset
// has changed state.
func (r *Registry) Update() (needsHardReset bool) {
	var activated []*peripheral

	for _, p := range r.periphs {
		var active bool
		switch p.presence {
		case Never:
			active = false
		case Optional:
			active = p.desc.Option != nil && p.desc.Option.Value()
		case Always:
			active = true
		}

		if p.active == active {
			continue // for loop
		}

		p.active = active
		if p.desc.HardReset {
			needsHardReset = true
		}
		if active {
			activated = append(activated, p)
		}
	}

	r.rebuild()

	// activation callbacks are called once the dispatch lists are complete
	for _, p := range activated {
		if p.desc.Activate != nil {
			p.desc.Activate()
		}
	}

	return needsHardReset
}

// SetFloatingBus sets the function that returns the value of data lines that
// are not driven by any peripheral. A nil function means that undriven lines
// read as 0xff.
func (r *Registry) SetFloatingBus(f func() uint8) {
	r.floatingBus = f
}

func (r *Registry) rebuild() {
	r.readers = r.readers[:0]
	r.writers = r.writers[:0]
	for _, p := range r.periphs {
		if !p.active || p.presence == Never {
			continue // for loop
		}
		for _, rule := range p.desc.Ports {
			if rule.Read != nil {
				r.readers = append(r.readers, dispatch{typ: p.typ, rule: rule})
			}
			if rule.Write != nil {
				r.writers = append(r.writers, dispatch{typ: p.typ, rule: rule})
			}
		}
	}
}

// Read the port. The data from every responding peripheral is combined with
// a bitwise AND.
func (r *Registry) Read(port uint16) uint8 {
	value := uint8(0xff)
	attached := uint8(0x00)

	for _, d := range r.readers {
		if d.rule.Matches(port) {
			v, a := d.rule.Read(port)
			value &= v
			attached |= a
		}
	}

	if attached != 0xff {
		floating := uint8(0xff)
		if r.floatingBus != nil {
			floating = r.floatingBus()
		}
		value &= attached | floating
	}

	return value
}

// Write the data to every peripheral responding to the port.
func (r *Registry) Write(port uint16, data uint8) {
	for _, d := range r.writers {
		if d.rule.Matches(port) {
			d.rule.Write(port, data)
		}
	}
}
