package geo

import (
	"math"
	"testing"
)

func TestDistAzimuthMeridian(t *testing.T) {
	// 10 degrees of latitude along the prime meridian is a 1105.85 km
	// meridional arc on the WGS-84 ellipsoid.
	dist, baz := DistAzimuth(0, 0, 10, 0)
	if math.Abs(dist-1105.85) > 2.0 {
		t.Errorf("expected ~1105.85 km, got %.2f", dist)
	}
	// Receiver is due north of the source, so it looks back due south.
	if math.Abs(baz-180.0) > 0.1 {
		t.Errorf("expected backazimuth ~180, got %.2f", baz)
	}
}

func TestDistAzimuthEquator(t *testing.T) {
	dist, baz := DistAzimuth(0, 0, 0, 10)
	if math.Abs(dist-1113.19) > 2.0 {
		t.Errorf("expected ~1113.19 km, got %.2f", dist)
	}
	if math.Abs(baz-270.0) > 0.1 {
		t.Errorf("expected backazimuth ~270, got %.2f", baz)
	}
}

func TestDistAzimuthSymmetry(t *testing.T) {
	d1, _ := DistAzimuth(-39.95, 176.30, -40.68, 176.25)
	d2, _ := DistAzimuth(-40.68, 176.25, -39.95, 176.30)
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("distance not symmetric: %.9f vs %.9f", d1, d2)
	}
	// Roughly 81 km between these two New Zealand sites.
	if d1 < 75 || d1 > 90 {
		t.Errorf("distance %.2f km outside plausible range", d1)
	}
}

func TestDistAzimuthCoincident(t *testing.T) {
	dist, _ := DistAzimuth(-40.0, 176.0, -40.0, 176.0)
	if dist != 0 {
		t.Errorf("expected zero distance, got %f", dist)
	}
}

func TestUTMCentralMeridian(t *testing.T) {
	// The central meridian of zone 60 is 177E; points on it map to the
	// false easting, and the equator maps to zero northing.
	x, y := UTM(177.0, 0.0, 60)
	if math.Abs(x-500000.0) > 0.01 {
		t.Errorf("expected easting 500000, got %.2f", x)
	}
	if math.Abs(y) > 0.01 {
		t.Errorf("expected northing 0, got %.2f", y)
	}
}

func TestUTMSouthernHemisphere(t *testing.T) {
	// A negative zone applies the 10,000,000 m false northing.
	_, north := UTM(177.0, 0.0, 60)
	_, south := UTM(177.0, 0.0, -60)
	if math.Abs(south-north-1e7) > 0.01 {
		t.Errorf("expected southern false northing offset, got %.2f vs %.2f", south, north)
	}

	// Northings in the south stay below the false northing value.
	_, y := UTM(176.0, -40.0, -60)
	if y >= 1e7 || y <= 0 {
		t.Errorf("southern northing %.2f out of range", y)
	}
}

func TestUTMEastingIncreasesEastward(t *testing.T) {
	x1, _ := UTM(176.0, -40.0, -60)
	x2, _ := UTM(176.5, -40.0, -60)
	if x2 <= x1 {
		t.Errorf("easting should increase eastward: %.2f then %.2f", x1, x2)
	}
	// West of the central meridian the easting sits below 500 km.
	if x1 >= 500000 {
		t.Errorf("easting %.2f should be west of the central meridian", x1)
	}
}
