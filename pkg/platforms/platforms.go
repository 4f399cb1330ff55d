// Package platforms defines the static catalog of OS families and the
// platform identifiers the vendor download API understands. The catalog is
// embedded at build time and carries no behavior beyond lookups.
package platforms

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cursorup/pkg/errors"
)

//go:embed platforms.yaml
var catalogYAML []byte

// SystemSuffix marks platform identifiers whose installer is the
// system-level (privileged) variant of a user installer.
const SystemSuffix = "-system"

// InstallerKind distinguishes privilege variants of the same OS/arch.
type InstallerKind string

// Installer kinds. The empty kind means the platform has a single flavor.
const (
	KindUser   InstallerKind = "user"
	KindSystem InstallerKind = "system"
)

// Platform is one OS/architecture/installer-kind combination.
type Platform struct {
	ID    string        `yaml:"id"`
	Label string        `yaml:"label"`
	Arch  string        `yaml:"arch"`
	Kind  InstallerKind `yaml:"kind"`
}

// Family groups the platforms of one operating system under a display name.
type Family struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Platforms []Platform `yaml:"platforms"`
}

// Catalog is the full platform table, ordered the way the rendered
// document orders its columns.
type Catalog struct {
	Families []Family `yaml:"families"`
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, errors.WrapParse("yaml", "platforms.yaml", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.fillLabels()
	return &c, nil
}

// validate checks structural invariants: at least one family, non-empty
// identifiers, and platform IDs unique across the whole catalog.
func (c *Catalog) validate() error {
	if len(c.Families) == 0 {
		return errors.NewValidationError("families", nil, "catalog has no OS families")
	}

	seen := make(map[string]struct{})
	for _, f := range c.Families {
		if f.ID == "" || f.Name == "" {
			return errors.NewValidationError("family", f.ID, "family requires id and name")
		}
		if len(f.Platforms) == 0 {
			return errors.NewValidationError("platforms", f.ID, fmt.Sprintf("family %s has no platforms", f.ID))
		}
		for _, p := range f.Platforms {
			if p.ID == "" {
				return errors.NewValidationError("platform", nil, fmt.Sprintf("family %s has a platform without id", f.ID))
			}
			if _, dup := seen[p.ID]; dup {
				return errors.NewValidationError("platform", p.ID, "duplicate platform identifier")
			}
			seen[p.ID] = struct{}{}
		}
	}
	return nil
}

// fillLabels derives display labels for platforms that don't declare one.
func (c *Catalog) fillLabels() {
	title := cases.Title(language.English)
	for fi := range c.Families {
		for pi := range c.Families[fi].Platforms {
			p := &c.Families[fi].Platforms[pi]
			if p.Label == "" {
				p.Label = title.String(strings.ReplaceAll(p.ID, "-", " "))
			}
		}
	}
}

// Family returns the family with the given ID.
func (c *Catalog) Family(id string) (Family, bool) {
	for _, f := range c.Families {
		if f.ID == id {
			return f, true
		}
	}
	return Family{}, false
}

// FamilyOf returns the family containing the given platform identifier.
func (c *Catalog) FamilyOf(platformID string) (Family, bool) {
	for _, f := range c.Families {
		for _, p := range f.Platforms {
			if p.ID == platformID {
				return f, true
			}
		}
	}
	return Family{}, false
}

// Platform returns the platform with the given identifier.
func (c *Catalog) Platform(id string) (Platform, bool) {
	for _, f := range c.Families {
		for _, p := range f.Platforms {
			if p.ID == id {
				return p, true
			}
		}
	}
	return Platform{}, false
}

// All returns every platform in catalog order.
func (c *Catalog) All() []Platform {
	var out []Platform
	for _, f := range c.Families {
		out = append(out, f.Platforms...)
	}
	return out
}

// Slot is one row position of a family column in the latest-version card:
// the candidate platforms for an architecture, preferred first.
type Slot struct {
	Arch       string
	Candidates []Platform
}

// Slots groups a family's platforms by architecture, ordering candidates
// system variant before user variant so the card prefers privileged
// installers when both resolved.
func (f Family) Slots() []Slot {
	var slots []Slot
	index := make(map[string]int)

	for _, p := range f.Platforms {
		i, ok := index[p.Arch]
		if !ok {
			index[p.Arch] = len(slots)
			slots = append(slots, Slot{Arch: p.Arch})
			i = len(slots) - 1
		}
		slots[i].Candidates = append(slots[i].Candidates, p)
	}

	for i := range slots {
		ordered := make([]Platform, 0, len(slots[i].Candidates))
		for _, p := range slots[i].Candidates {
			if p.Kind == KindSystem {
				ordered = append(ordered, p)
			}
		}
		for _, p := range slots[i].Candidates {
			if p.Kind != KindSystem {
				ordered = append(ordered, p)
			}
		}
		slots[i].Candidates = ordered
	}

	return slots
}

// IsSystemVariant reports whether the identifier names a derived
// system-installer variant.
func IsSystemVariant(id string) bool {
	return strings.HasSuffix(id, SystemSuffix)
}

// QueryID returns the identifier to send to the download API. System
// variants are never fetched directly; their URL is derived from the user
// variant's response.
func QueryID(id string) string {
	return strings.TrimSuffix(id, SystemSuffix)
}
