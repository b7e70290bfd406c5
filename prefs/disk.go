package prefs

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// WarningBoilerPlate is written as the first line of every saved prefs
// file, matching the teacher's convention of telling a curious user not to
// hand-edit the file (values are freeform and not validated on load beyond
// each Preference's own Set()).
const WarningBoilerPlate = "# this file is automatically generated - edit with care"

// Disk is a named collection of Preference values backed by a single file
// on disk. Unlike a single flat key/value file being owned by one Disk
// instance, several Disk instances may point at the same filename (the
// teacher's convention of separate subsystems registering their own prefs
// against a shared file) — Save() merges its keys into whatever is already
// on disk rather than truncating the whole file.
type Disk struct {
	filename string
	prefs    map[string]Preference
}

// NewDisk creates a Disk bound to filename. The file need not exist yet.
func NewDisk(filename string) (*Disk, error) {
	return &Disk{
		filename: filename,
		prefs:    make(map[string]Preference),
	}, nil
}

// Add registers a Preference under key.
func (d *Disk) Add(key string, p Preference) error {
	if _, ok := d.prefs[key]; ok {
		return fmt.Errorf("prefs: key already registered: %s", key)
	}
	d.prefs[key] = p
	return nil
}

// Save writes every registered key, merged with any keys already present
// in the file that this Disk instance did not register itself (so that
// multiple Disk instances sharing one file don't clobber each other).
func (d *Disk) Save() error {
	existing := readKeyValues(d.filename)

	for _, k := range sortedKeys(d.prefs) {
		existing[k] = d.prefs[k].String()
	}

	keys := make([]string, 0, len(existing))
	for k := range existing {
		keys = append(keys, k)
	}
	sortStrings(keys)

	f, err := os.Create(d.filename)
	if err != nil {
		return fmt.Errorf("prefs: cannot create file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s :: %s\n", k, existing[k])
	}
	return w.Flush()
}

// Load reads the file and calls Set() on every registered key found in it.
// Keys present in the file but not registered with this Disk are ignored.
func (d *Disk) Load() error {
	existing := readKeyValues(d.filename)
	for k, p := range d.prefs {
		if v, ok := existing[k]; ok {
			if err := p.Set(v); err != nil {
				return fmt.Errorf("prefs: loading %s: %w", k, err)
			}
		}
	}
	return nil
}

func readKeyValues(filename string) map[string]string {
	out := make(map[string]string)

	f, err := os.Open(filename)
	if err != nil {
		return out
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "::", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		out[key] = val
	}
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
