// Package catalog holds the built-in catalog of planetary systems that
// transim can simulate. Systems are registered at init time (see the
// systems subpackage) and looked up by name.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Star describes the host star of a system.
type Star struct {
	Name string

	// SpectralType is the spectral classification, e.g. "K2V".
	SpectralType string

	// Teff is the effective temperature in Kelvin.
	Teff float64

	// JMag is the apparent J-band magnitude.
	JMag float64

	// LimbDark1, LimbDark2 are the quadratic limb-darkening coefficients
	// appropriate for the near-infrared bandpass.
	LimbDark1 float64
	LimbDark2 float64
}

// Planet holds the orbital and transit parameters of one planet.
// All values are immutable catalog data; times are in days, angles in degrees.
type Planet struct {
	// Letter is the planet designation ("b", "c", ...).
	Letter string

	// Period is the orbital period in days.
	Period float64

	// T0 is the mid-transit epoch in days (BJD minus the catalog offset).
	T0 float64

	// RadiusRatio is Rp/Rs.
	RadiusRatio float64

	// SemiMajorAxis is a/Rs.
	SemiMajorAxis float64

	// Inclination is the orbital inclination in degrees.
	Inclination float64

	// Eccentricity and Periastron (argument of periastron, degrees) are
	// carried for the duration correction; orbits are treated as circular
	// when computing the light curve.
	Eccentricity float64
	Periastron   float64
}

// System is one catalog entry: a host star and its ordered planets.
type System struct {
	Name    string
	Star    Star
	Planets []Planet
}

// Planet returns the planet with the given letter.
func (s System) Planet(letter string) (Planet, bool) {
	for _, p := range s.Planets {
		if p.Letter == letter {
			return p, true
		}
	}
	return Planet{}, false
}

// Letters returns the planet designations in catalog order.
func (s System) Letters() []string {
	out := make([]string, 0, len(s.Planets))
	for _, p := range s.Planets {
		out = append(out, p.Letter)
	}
	return out
}

var (
	mu       sync.RWMutex
	registry = make(map[string]System)
)

// Register adds a system to the catalog. Registering the same name twice
// panics; the catalog is assembled once at init time.
func Register(s System) {
	mu.Lock()
	defer mu.Unlock()
	key := strings.ToLower(s.Name)
	if _, ok := registry[key]; ok {
		panic(fmt.Sprintf("catalog: system %q registered twice", s.Name))
	}
	registry[key] = s
}

// List returns all registered systems sorted by name.
func List() []System {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]System, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve looks up a system by name (case-insensitive).
func Resolve(name string) (System, error) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		known := make([]string, 0, len(registry))
		for _, v := range registry {
			known = append(known, v.Name)
		}
		sort.Strings(known)
		return System{}, fmt.Errorf("unknown system %q (known: %s)", name, strings.Join(known, ", "))
	}
	return s, nil
}
