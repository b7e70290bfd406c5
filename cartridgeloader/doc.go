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

// Package cartridgeloader is used to load cartridge/disc data so that it
// can be handed to a console's cartridge package.
//
// # File Extensions
//
// The file extension of a file implies which console's loader should take
// the data, unless the caller forces a Mapping explicitly:
//
//	NES				".NES"
//	Sega Master System / Game Gear	".SMS", ".GG", ".SG"
//	Genesis / Mega Drive		".MD", ".GEN", ".SMD"
//	SNES				".SFC", ".SMC"
//	Game Boy / Game Boy Color	".GB", ".GBC"
//	Sega CD disc image		".CUE", ".ISO", ".CDI"
//
// ".BIN" is ambiguous across consoles and resolves to AUTO; the caller's
// cartridge package performs its own content fingerprint in that case.
//
// File extensions are case insensitive.
//
// # Hashes
//
// Creating a cartridge loader with NewLoaderFromData() also creates a SHA1 and
// MD5 hash of the data. A loader created with NewLoaderFromFilename() has its
// hashes created when Open() reads the file. In both cases the hash is taken
// over all of the data. Streamed loaders (Sega CD disc images) are not
// hashed.
package cartridgeloader
