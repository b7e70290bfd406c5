package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/silicontrace/multicore/prefs"
	"github.com/silicontrace/multicore/test"
)

func TestConfigDefaults(t *testing.T) {
	c := prefs.DefaultConfig()
	test.ExpectEquality(t, c.EnforceSpriteLimits, true)
	test.ExpectEquality(t, c.ForcedRegion, prefs.RegionAuto)
}

func TestConfigRoundTrip(t *testing.T) {
	fn := filepath.Join(os.TempDir(), "multicore_config_test")
	defer os.Remove(fn)

	d, err := prefs.NewDisk(fn)
	test.ExpectSuccess(t, err)

	c := prefs.DefaultConfig()
	c.EnforceSpriteLimits = false
	c.Deinterlace = true

	err = c.RegisterDisk(d, "genesis.")
	test.ExpectSuccess(t, err)

	err = d.Save()
	test.ExpectSuccess(t, err)

	loaded := prefs.Config{}
	d2, err := prefs.NewDisk(fn)
	test.ExpectSuccess(t, err)
	err = loaded.RegisterDisk(d2, "genesis.")
	test.ExpectSuccess(t, err)
	err = d2.Load()
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, loaded.EnforceSpriteLimits, false)
	test.ExpectEquality(t, loaded.Deinterlace, true)
}

func TestRegionString(t *testing.T) {
	test.ExpectEquality(t, prefs.RegionNTSC.String(), "NTSC")
	test.ExpectEquality(t, prefs.RegionPAL.String(), "PAL")
	test.ExpectEquality(t, prefs.RegionDendy.String(), "Dendy")
	test.ExpectEquality(t, prefs.RegionAuto.String(), "Auto")
}
