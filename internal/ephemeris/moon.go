package ephemeris

import "math"

// lunarPosition returns the Moon's tropical longitude and ecliptic latitude
// in degrees for T Julian centuries since J2000. The series keeps the
// dominant periodic terms of the lunar theory (Meeus ch. 47), which bounds
// the longitude error around a few arcminutes — comfortably inside a
// nakshatra quarter.
func lunarPosition(T float64) (lon, lat float64) {
	// Mean arguments, degrees.
	Lp := 218.3164477 + 481267.88123421*T - 0.0015786*T*T // mean longitude
	D := 297.8501921 + 445267.1114034*T - 0.0018819*T*T   // mean elongation
	M := 357.5291092 + 35999.0502909*T                    // Sun mean anomaly
	Mp := 134.9633964 + 477198.8675055*T + 0.0087414*T*T  // Moon mean anomaly
	F := 93.2720950 + 483202.0175233*T - 0.0036539*T*T    // argument of latitude

	d, m, mp, f := D*degToRad, M*degToRad, Mp*degToRad, F*degToRad

	lon = Lp +
		6.288774*math.Sin(mp) +
		1.274027*math.Sin(2*d-mp) +
		0.658314*math.Sin(2*d) +
		0.213618*math.Sin(2*mp) -
		0.185116*math.Sin(m) -
		0.114332*math.Sin(2*f) +
		0.058793*math.Sin(2*d-2*mp) +
		0.057066*math.Sin(2*d-m-mp) +
		0.053322*math.Sin(2*d+mp) +
		0.045758*math.Sin(2*d-m) -
		0.040923*math.Sin(m-mp) -
		0.034720*math.Sin(d) -
		0.030383*math.Sin(m+mp)

	lat = 5.128122*math.Sin(f) +
		0.280602*math.Sin(mp+f) +
		0.277693*math.Sin(mp-f) +
		0.173237*math.Sin(2*d-f) +
		0.055413*math.Sin(2*d-mp+f) +
		0.046271*math.Sin(2*d-mp-f)

	return lon, lat
}

// meanLunarNode returns the mean longitude of the Moon's ascending node
// (Rahu) in degrees. The node regresses through the zodiac, so the linear
// term is negative and the derived speed is retrograde by construction.
func meanLunarNode(T float64) float64 {
	return 125.0445479 - 1934.1362891*T + 0.0020754*T*T + T*T*T/467441.0
}
