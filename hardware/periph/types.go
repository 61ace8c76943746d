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

	"github.com/zxbus/zxbus/prefs"
)

// Type of peripheral.
type Type int

// List of valid Type values.
const (
	ULA Type = iota
	Paging128
	AY
	Kempston
	IF2
	DivIDE
	DivMMC

	numTypes
)

var typeNames = [numTypes]string{
	"ULA",
	"128K paging",
	"AY",
	"Kempston",
	"Interface 2",
	"DivIDE",
	"DivMMC",
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("unknown peripheral (%d)", int(t))
	}
	return typeNames[t]
}

// Presence of a peripheral in the current machine.
type Presence int

// List of valid Presence values.
const (
	Never Presence = iota
	Optional
	Always
)

func (p Presence) String() string {
	switch p {
	case Never:
		return "never"
	case Optional:
		return "optional"
	case Always:
		return "always"
	}
	return "unknown"
}

// ReadFunc is called when a port read matches a PortRule. The attached value
// indicates which bits of data are driven by the peripheral. Bits that no
// responder drives take the value of the floating bus.
type ReadFunc func(port uint16) (data uint8, attached uint8)

// WriteFunc is called when a port write matches a PortRule.
type WriteFunc func(port uint16, data uint8)

// PortRule describes the range of ports a peripheral responds to. Either of
// Read or Write can be nil.
type PortRule struct {
	Mask  uint16
	Value uint16
	Read  ReadFunc
	Write WriteFunc
}

// Matches returns true if the port address is decoded by the rule.
func (r PortRule) Matches(port uint16) bool {
	return port&r.Mask == r.Value
}

func (r PortRule) String() string {
	return fmt.Sprintf("mask %04x value %04x", r.Mask, r.Value)
}

// Descriptor of a peripheral.
type Descriptor struct {
	// configuration flag deciding whether an optional peripheral is active.
	// borrowed from the preferences. may be nil
	Option *prefs.Bool

	// ports the peripheral responds to. a peripheral with no port rules can
	// still be registered (eg. a peripheral that only maps memory)
	Ports []PortRule

	// whether a change to the active state of the peripheral requires a hard
	// reset of the machine
	HardReset bool

	// called when the peripheral becomes active. may be nil
	Activate func()
}
