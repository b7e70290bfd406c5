package prefs

// Region names a console's video timing standard. Used for Config's
// ForcedRegion field and for cartridge auto-detection.
type Region int

const (
	// RegionAuto lets the cartridge/header decide the region.
	RegionAuto Region = iota
	RegionNTSC
	RegionPAL
	RegionDendy
)

func (r Region) String() string {
	switch r {
	case RegionNTSC:
		return "NTSC"
	case RegionPAL:
		return "PAL"
	case RegionDendy:
		return "Dendy"
	default:
		return "Auto"
	}
}

// Config is the enumerated per-console configuration. Every
// field is a plain Go type; RegisterDisk wires the fields that make sense
// to persist into a Disk so a frontend can save/restore them, but Config
// itself has no dependency on the Disk machinery and can be constructed
// and used standalone (e.g. by tests).
type Config struct {
	// EnforceSpriteLimits toggles the per-line sprite count/pixel caps.
	// Disabling it is a common "remove flicker" frontend option; the core
	// still computes the cap internally so it can be toggled without a
	// reset.
	EnforceSpriteLimits bool

	// EmulateNonLinearDAC selects the Genesis VDP's non-linear color DAC
	// table over the simpler linear conversion.
	EmulateNonLinearDAC bool

	// Deinterlace requests that the SNES PPU fold 448/478-line interlaced
	// frames down to their single-field height rather than presenting
	// both fields.
	Deinterlace bool

	// ForcedRegion overrides cartridge/header region auto-detection.
	// RegionAuto (the zero value) performs auto-detection.
	ForcedRegion Region

	// EnableRAMCartridge (Sega CD only) controls whether the optional
	// battery-backed RAM cartridge peripheral is present on the sub-bus.
	EnableRAMCartridge bool
}

// DefaultConfig returns the Config a freshly loaded System should start
// with absent any persisted preferences.
func DefaultConfig() Config {
	return Config{
		EnforceSpriteLimits: true,
		EmulateNonLinearDAC: true,
		Deinterlace:         false,
		ForcedRegion:        RegionAuto,
		EnableRAMCartridge:  true,
	}
}

// RegisterDisk wires c's fields into d under the given key prefix so that
// multiple consoles' Config values can share one preferences file without
// key collisions (e.g. prefix "genesis." vs "nes.").
func (c *Config) RegisterDisk(d *Disk, prefix string) error {
	enforceSprites := boolFromPtr(&c.EnforceSpriteLimits)
	if err := d.Add(prefix+"enforce_sprite_limits", enforceSprites); err != nil {
		return err
	}

	nonLinearDAC := boolFromPtr(&c.EmulateNonLinearDAC)
	if err := d.Add(prefix+"emulate_non_linear_dac", nonLinearDAC); err != nil {
		return err
	}

	deinterlace := boolFromPtr(&c.Deinterlace)
	if err := d.Add(prefix+"deinterlace", deinterlace); err != nil {
		return err
	}

	ramCart := boolFromPtr(&c.EnableRAMCartridge)
	return d.Add(prefix+"enable_ram_cartridge", ramCart)
}

// boolFromPtr adapts a plain *bool field into the Preference interface via
// a Generic, so Config doesn't need to store prefs.Bool fields directly
// (which would complicate zero-value construction in tests).
func boolFromPtr(b *bool) *Generic {
	return NewGeneric(
		func(v Value) error {
			var bv Bool
			if err := bv.Set(v); err != nil {
				return err
			}
			*b = bv.Get()
			return nil
		},
		func() Value {
			return *b
		},
	)
}
