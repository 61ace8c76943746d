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

package bankswitch

// latch is a bit that, once set, stays set until it is explicitly cleared.
// only the hard reset of the controller calls clear()
type latch struct {
	set bool
}

func (l *latch) latch(v bool) {
	l.set = l.set || v
}

func (l *latch) clear() {
	l.set = false
}

// bit returns the value of the latch in the bit position of the mask
func (l latch) bit(mask uint8) uint8 {
	if l.set {
		return mask
	}
	return 0
}
