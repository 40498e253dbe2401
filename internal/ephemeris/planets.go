package ephemeris

import "math"

// orbitalElements are J2000 Keplerian mean elements with linear rates per
// Julian century, after the JPL approximate-position tables (Standish 1992).
// Angles in degrees, semi-major axis in AU.
type orbitalElements struct {
	a, aDot   float64 // semi-major axis
	e, eDot   float64 // eccentricity
	i, iDot   float64 // inclination
	l, lDot   float64 // mean longitude
	pi, piDot float64 // longitude of perihelion
	om, omDot float64 // longitude of ascending node
}

// earthElements is the Earth–Moon barycenter, used to reduce heliocentric
// planet vectors to geocentric ecliptic coordinates.
var earthElements = orbitalElements{
	a: 1.00000261, aDot: 0.00000562,
	e: 0.01671123, eDot: -0.00004392,
	i: -0.00001531, iDot: -0.01294668,
	l: 100.46457166, lDot: 35999.37244981,
	pi: 102.93768193, piDot: 0.32327364,
	om: 0.0, omDot: 0.0,
}

var planetElements = map[Body]orbitalElements{
	Mercury: {
		a: 0.38709927, aDot: 0.00000037,
		e: 0.20563593, eDot: 0.00001906,
		i: 7.00497902, iDot: -0.00594749,
		l: 252.25032350, lDot: 149472.67411175,
		pi: 77.45779628, piDot: 0.16047689,
		om: 48.33076593, omDot: -0.12534081,
	},
	Venus: {
		a: 0.72333566, aDot: 0.00000390,
		e: 0.00677672, eDot: -0.00004107,
		i: 3.39467605, iDot: -0.00078890,
		l: 181.97909950, lDot: 58517.81538729,
		pi: 131.60246718, piDot: 0.00268329,
		om: 76.67984255, omDot: -0.27769418,
	},
	Mars: {
		a: 1.52371034, aDot: 0.00001847,
		e: 0.09339410, eDot: 0.00007882,
		i: 1.84969142, iDot: -0.00813131,
		l: -4.55343205, lDot: 19140.30268499,
		pi: -23.94362959, piDot: 0.44441088,
		om: 49.55953891, omDot: -0.29257343,
	},
	Jupiter: {
		a: 5.20288700, aDot: -0.00011607,
		e: 0.04838624, eDot: -0.00013253,
		i: 1.30439695, iDot: -0.00183714,
		l: 34.39644051, lDot: 3034.74612775,
		pi: 14.72847983, piDot: 0.21252668,
		om: 100.47390909, omDot: 0.20469106,
	},
	Saturn: {
		a: 9.53667594, aDot: -0.00125060,
		e: 0.05386179, eDot: -0.00050991,
		i: 2.48599187, iDot: 0.00193609,
		l: 49.95424423, lDot: 1222.49362201,
		pi: 92.59887831, piDot: -0.41897216,
		om: 113.66242448, omDot: -0.28867794,
	},
	Uranus: {
		a: 19.18916464, aDot: -0.00196176,
		e: 0.04725744, eDot: -0.00004397,
		i: 0.77263783, iDot: -0.00242939,
		l: 313.23810451, lDot: 428.48202785,
		pi: 170.95427630, piDot: 0.40805281,
		om: 74.01692503, omDot: 0.04240589,
	},
	Neptune: {
		a: 30.06992276, aDot: 0.00026291,
		e: 0.00859048, eDot: 0.00005105,
		i: 1.77004347, iDot: 0.00035372,
		l: -55.12002969, lDot: 218.45945325,
		pi: 44.96476227, piDot: -0.32241464,
		om: 131.78422574, omDot: -0.00508664,
	},
	Pluto: {
		a: 39.48211675, aDot: -0.00031596,
		e: 0.24882730, eDot: 0.00005170,
		i: 17.14001206, iDot: 0.00004818,
		l: 238.92903833, lDot: 145.20780515,
		pi: 224.06891629, piDot: -0.04062942,
		om: 110.30393684, omDot: -0.01183482,
	},
}

// vec3 is a heliocentric ecliptic position in AU.
type vec3 struct{ x, y, z float64 }

// heliocentricXYZ evaluates the mean elements at T centuries since J2000,
// solves Kepler's equation, and rotates the orbital-plane position into
// heliocentric ecliptic coordinates.
func heliocentricXYZ(el orbitalElements, T float64) vec3 {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	i := (el.i + el.iDot*T) * degToRad
	l := el.l + el.lDot*T
	pi := el.pi + el.piDot*T
	om := (el.om + el.omDot*T) * degToRad

	// Argument of perihelion and mean anomaly.
	w := (pi - (el.om + el.omDot*T)) * degToRad
	m := normalizeDeg(l-pi) * degToRad

	ea := solveKepler(m, e)

	// Position in the orbital plane, perihelion along +x.
	xp := a * (math.Cos(ea) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ea)

	cosW, sinW := math.Cos(w), math.Sin(w)
	cosOm, sinOm := math.Cos(om), math.Sin(om)
	cosI, sinI := math.Cos(i), math.Sin(i)

	return vec3{
		x: (cosW*cosOm-sinW*sinOm*cosI)*xp + (-sinW*cosOm-cosW*sinOm*cosI)*yp,
		y: (cosW*sinOm+sinW*cosOm*cosI)*xp + (-sinW*sinOm+cosW*cosOm*cosI)*yp,
		z: sinW*sinI*xp + cosW*sinI*yp,
	}
}

// solveKepler finds the eccentric anomaly for mean anomaly m (radians) and
// eccentricity e by Newton iteration. Converges in a handful of steps for
// every planetary eccentricity, Pluto included.
func solveKepler(m, e float64) float64 {
	ea := m
	if e > 0.8 {
		ea = math.Pi
	}
	for iter := 0; iter < 20; iter++ {
		delta := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return ea
}

// geocentricEcliptic reduces a heliocentric planet vector against the Earth
// vector and converts to ecliptic longitude/latitude in degrees.
func geocentricEcliptic(planet, earth vec3) eclState {
	x := planet.x - earth.x
	y := planet.y - earth.y
	z := planet.z - earth.z

	lon := math.Atan2(y, x) / degToRad
	lat := math.Atan2(z, math.Hypot(x, y)) / degToRad
	return eclState{lon: lon, lat: lat}
}
