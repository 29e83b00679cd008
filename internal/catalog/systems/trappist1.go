package systems

import "transim/internal/catalog"

// TRAPPIST-1 parameters follow Gillon et al. (2017). Epochs are
// BJD - 2450000.
func init() {
	catalog.Register(catalog.System{
		Name: "TRAPPIST-1",
		Star: catalog.Star{
			Name:         "TRAPPIST-1",
			SpectralType: "M8V",
			Teff:         2559,
			JMag:         11.35,
			LimbDark1:    0.17,
			LimbDark2:    0.14,
		},
		Planets: []catalog.Planet{
			{Letter: "b", Period: 1.51087081, T0: 7322.51736, RadiusRatio: 0.0850, SemiMajorAxis: 20.50, Inclination: 89.65},
			{Letter: "c", Period: 2.4218233, T0: 7282.80728, RadiusRatio: 0.0829, SemiMajorAxis: 28.08, Inclination: 89.67},
			{Letter: "d", Period: 4.049610, T0: 7670.14165, RadiusRatio: 0.0604, SemiMajorAxis: 39.55, Inclination: 89.75},
			{Letter: "e", Period: 6.099615, T0: 7660.37859, RadiusRatio: 0.0709, SemiMajorAxis: 51.97, Inclination: 89.86},
			{Letter: "f", Period: 9.206690, T0: 7671.39767, RadiusRatio: 0.0770, SemiMajorAxis: 68.40, Inclination: 89.68},
			{Letter: "g", Period: 12.35294, T0: 7665.34937, RadiusRatio: 0.0860, SemiMajorAxis: 83.20, Inclination: 89.71},
			{Letter: "h", Period: 18.767, T0: 7662.55463, RadiusRatio: 0.0580, SemiMajorAxis: 109.0, Inclination: 89.80},
		},
	})
}
