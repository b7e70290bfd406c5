// This file is part of Multicore.
//
// Multicore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Multicore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Multicore.  If not, see <https://www.gnu.org/licenses/>.

// Package bus declares interfaces for the different kinds of access to
// emulated memory: CPUBus for CPU reads and writes, ChipBus for
// register-mapped chips, and InputDeviceBus for peripherals.
//
// The DebugBus is for the exclusive use of debuggers and exposes a Peek() and
// Poke() function.
package bus
