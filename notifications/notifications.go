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

package notifications

// Notice describes events that somehow change the presentation of the
// emulation. These notifications can be used to present additional information
// to the user
type Notice string

// List of defined notifications.
const (
	// a peripheral has been disabled because it could not be activated
	NotifyPeripheralDisabled Notice = "NotifyPeripheralDisabled"

	// the peripheral configuration has changed in a way that requires a
	// hard reset of the machine
	NotifyHardResetRequired Notice = "NotifyHardResetRequired"

	// a snapshot has been loaded or saved
	NotifySnapshotLoaded Notice = "NotifySnapshotLoaded"
	NotifySnapshotSaved  Notice = "NotifySnapshotSaved"
)

// Notify is used for direct communication between the hardware and the
// emulation package. The args are specific to the notice.
type Notify interface {
	Notify(notice Notice, args ...any) error
}
