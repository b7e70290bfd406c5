// This file is part of Multicore.
//
// Multicore is free software: you can redistribute it and/or modify
// it under the terms of the gnu general public license as published by
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

package cartridgeloader

// FileExtensions is the full list of file extensions recognised by the
// cartridgeloader package, across every supported console.
var FileExtensions = [...]string{
	".NES",
	".SMS", ".GG", ".SG",
	".MD", ".GEN", ".SMD", ".BIN",
	".SFC", ".SMC",
	".GB", ".GBC",
	".CUE", ".ISO", ".CDI", // Sega CD disc images
}

// consoleExtensions maps a file extension to the console.Kind it implies.
// ".BIN" is ambiguous between Genesis and plain NES/SMS dumps, so it falls
// back to AUTO and is resolved by content inspection in the cartridge
// package rather than here.
var consoleExtensions = map[string]string{
	".NES": "NES",
	".SMS": "SMS", ".GG": "SMS", ".SG": "SMS",
	".MD": "GENESIS", ".GEN": "GENESIS", ".SMD": "GENESIS",
	".SFC": "SNES", ".SMC": "SNES",
	".GB": "GAMEBOY", ".GBC": "GAMEBOY",
	".CUE": "SEGACD", ".ISO": "SEGACD", ".CDI": "SEGACD",
}
