// Package systems registers the built-in planetary systems. It is imported
// for its side effects from the main package.
package systems

import "transim/internal/catalog"

// Kepler-62 parameters follow Borucki et al. (2013). Epochs are
// BJD - 2454900; a/Rs values are derived from the published semi-major
// axes and the 0.64 Rsun stellar radius.
func init() {
	catalog.Register(catalog.System{
		Name: "Kepler-62",
		Star: catalog.Star{
			Name:         "Kepler-62",
			SpectralType: "K2V",
			Teff:         4925,
			JMag:         12.26,
			LimbDark1:    0.29,
			LimbDark2:    0.26,
		},
		Planets: []catalog.Planet{
			{Letter: "b", Period: 5.714932, T0: 103.9189, RadiusRatio: 0.0188, SemiMajorAxis: 18.6, Inclination: 89.2},
			{Letter: "c", Period: 12.4417, T0: 67.651, RadiusRatio: 0.0077, SemiMajorAxis: 31.2, Inclination: 89.7},
			{Letter: "d", Period: 18.16406, T0: 113.8117, RadiusRatio: 0.0279, SemiMajorAxis: 40.3, Inclination: 89.7},
			{Letter: "e", Period: 122.3874, T0: 83.404, RadiusRatio: 0.0231, SemiMajorAxis: 143.5, Inclination: 89.98},
			{Letter: "f", Period: 267.291, T0: 522.710, RadiusRatio: 0.0202, SemiMajorAxis: 241.2, Inclination: 89.90},
		},
	})
}
