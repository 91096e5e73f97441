// Package geo provides the two geodetic routines the inspector needs:
// source-receiver distance/backazimuth on the WGS-84 ellipsoid and a
// forward UTM projection for map coordinates.
package geo

import "math"

// WGS-84 ellipsoid.
const (
	semiMajor  = 6378137.0
	flattening = 1.0 / 298.257223563
)

// DistAzimuth computes the geodesic between two points on WGS-84 using
// Vincenty's inverse formula. It returns the distance in kilometers and the
// backazimuth in degrees: the direction from point 2 back toward point 1,
// in [0, 360).
//
// For the nearly-antipodal cases where Vincenty fails to converge, a
// spherical great-circle fallback is used.
func DistAzimuth(lat1, lon1, lat2, lon2 float64) (distKM, baz float64) {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	b := semiMajor * (1 - flattening)
	u1 := math.Atan((1 - flattening) * math.Tan(phi1))
	u2 := math.Atan((1 - flattening) * math.Tan(phi2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := dlon
	var sinSigma, cosSigma, sigma, sinAlpha, cos2Alpha, cos2SigmaM float64
	converged := false
	for i := 0; i < 200; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Sqrt(math.Pow(cosU2*sinLambda, 2) +
			math.Pow(cosU1*sinU2-sinU1*cosU2*cosLambda, 2))
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		if sinSigma == 0 {
			// Coincident points.
			return 0, 0
		}
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cos2Alpha = 1 - sinAlpha*sinAlpha
		if cos2Alpha == 0 {
			// Both points on the equator.
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cos2Alpha
		}
		c := flattening / 16 * cos2Alpha * (4 + flattening*(4-3*cos2Alpha))
		lambdaPrev := lambda
		lambda = dlon + (1-c)*flattening*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-lambdaPrev) < 1e-12 {
			converged = true
			break
		}
	}

	if !converged {
		return greatCircle(phi1, phi2, dlon)
	}

	uSq := cos2Alpha * (semiMajor*semiMajor - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
		(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
	dist := b * bigA * (sigma - deltaSigma)

	sinLambda, cosLambda := math.Sincos(lambda)
	// Reverse azimuth at point 2, flipped to point back toward point 1.
	alpha2 := math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda)
	baz = math.Mod(alpha2*180/math.Pi+180, 360)
	if baz < 0 {
		baz += 360
	}
	return dist / 1000, baz
}

// greatCircle is the spherical fallback, using the WGS-84 mean radius.
func greatCircle(phi1, phi2, dlon float64) (distKM, baz float64) {
	const meanRadius = 6371008.8

	sinHalfLat := math.Sin((phi2 - phi1) / 2)
	sinHalfLon := math.Sin(dlon / 2)
	a := sinHalfLat*sinHalfLat + math.Cos(phi1)*math.Cos(phi2)*sinHalfLon*sinHalfLon
	dist := 2 * meanRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	// Azimuth from point 2 toward point 1.
	y := math.Sin(-dlon) * math.Cos(phi1)
	x := math.Cos(phi2)*math.Sin(phi1) - math.Sin(phi2)*math.Cos(phi1)*math.Cos(dlon)
	baz = math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
	return dist / 1000, baz
}

// UTM projects geographic coordinates onto a Universal Transverse Mercator
// zone and returns easting and northing in meters. A negative zone selects
// the southern hemisphere (10,000 km false northing), matching the common
// convention for zones south of the equator.
func UTM(lon, lat float64, zone int) (x, y float64) {
	const k0 = 0.9996
	const falseEasting = 500000.0

	south := zone < 0
	if south {
		zone = -zone
	}
	lonOrigin := float64(zone)*6 - 183

	e2 := flattening * (2 - flattening)
	ep2 := e2 / (1 - e2)

	phi := lat * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)
	tanPhi := sinPhi / cosPhi

	n := semiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * (lon - lonOrigin) * math.Pi / 180

	// Meridional arc length.
	m := semiMajor * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	x = k0*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + falseEasting
	y = k0 * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))
	if south {
		y += 10000000.0
	}
	return x, y
}
