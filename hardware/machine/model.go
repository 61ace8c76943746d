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

package machine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zxbus/zxbus/hardware/periph"
)

// Model of machine.
type Model int

// List of valid Model values.
const (
	Model48K Model = iota
	Model128K
)

// ErrUnsupportedModel is returned by ParseModel() for an unrecognised model.
var ErrUnsupportedModel = errors.New("unsupported machine model")

func (m Model) String() string {
	switch m {
	case Model48K:
		return "48k"
	case Model128K:
		return "128k"
	}
	return "unknown"
}

// ParseModel converts a model name to a Model. The "k" suffix is optional
// and the comparison is not case sensitive.
func ParseModel(s string) (Model, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "k") {
	case "48":
		return Model48K, nil
	case "128":
		return Model128K, nil
	}
	return Model48K, fmt.Errorf("machine: %w (%s)", ErrUnsupportedModel, s)
}

// the layout of memory for each model
type layout struct {
	romBanks int
	ramBanks int

	// the RAM banks that are contended
	contended []int

	// the presence of each peripheral type
	presence map[periph.Type]periph.Presence
}

var layouts = map[Model]layout{
	Model48K: {
		romBanks:  1,
		ramBanks:  3,
		contended: []int{0},
		presence: map[periph.Type]periph.Presence{
			periph.ULA:       periph.Always,
			periph.Paging128: periph.Never,
			periph.AY:        periph.Optional,
			periph.Kempston:  periph.Optional,
			periph.IF2:       periph.Optional,
			periph.DivIDE:    periph.Optional,
			periph.DivMMC:    periph.Optional,
		},
	},
	Model128K: {
		romBanks:  2,
		ramBanks:  8,
		contended: []int{1, 3, 5, 7},
		presence: map[periph.Type]periph.Presence{
			periph.ULA:       periph.Always,
			periph.Paging128: periph.Always,
			periph.AY:        periph.Always,
			periph.Kempston:  periph.Optional,
			periph.IF2:       periph.Optional,
			periph.DivIDE:    periph.Optional,
			periph.DivMMC:    periph.Optional,
		},
	},
}
