package emuerr

// Load-time error templates: these always reach the caller as a tagged
// value, never as a panic. Each is a format string consumed by Errorf;
// the verbs match the values the loader actually has on hand.
const (
	// CartridgeFormat indicates the ROM image is not a recognised container
	// for its console (bad magic, truncated file, inconsistent header).
	CartridgeFormat = "cartridge format error: %s"

	// UnsupportedMapper indicates a recognised header names a mapper number
	// this core does not implement.
	UnsupportedMapper = "unsupported mapper: %d"

	// InvalidRomSize indicates the declared PRG/CHR sizes don't agree with
	// the file's actual length, or aren't a supported power-of-two bank size.
	InvalidRomSize = "invalid ROM size: %s"

	// MultiplePrgRamTypes indicates a NES 2.0 header names both battery and
	// non-battery PRG-RAM in a way this core can't unambiguously resolve.
	MultiplePrgRamTypes = "cartridge declares multiple incompatible PRG-RAM types"

	// UnsupportedTimingMode indicates a NES 2.0 header byte 12 names a
	// timing mode (PAL/Dendy/etc.) this core does not model.
	UnsupportedTimingMode = "unsupported timing mode byte: 0x%02x"

	// Internal marks a defect in an internal invariant that bounded
	// tables / exhaustive matches should make unreachable. Reaching this
	// path is a programming error, not a recoverable fault.
	Internal = "internal inconsistency: %s"
)
