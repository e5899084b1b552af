package adapter

import (
	"net/url"
	"strconv"
	"sync"
)

// preferredDistances holds the radius values, in meters, that the catalog
// service indexes efficiently. Any configured distance is clamped to the
// nearest member before being sent.
var preferredDistances = []int{
	100, 150, 200, 250, 300, 350, 400, 450, 500, 600, 700, 800, 900,
	1000, 1500, 2000, 2500, 3000, 3500, 4000, 4500, 5000, 5500, 6000,
	6500, 7000, 7500, 8000, 8500, 9000, 9500, 10000, 15000, 20000,
	25000, 30000, 35000, 40000, 45000, 50000, 100000, 150000, 200000,
	250000, 300000, 350000, 400000, 450000, 500000, 600000, 700000,
}

// clampToPreferredDistance returns the member of preferredDistances nearest
// to meters. Ties resolve to the smaller member.
func clampToPreferredDistance(meters int) int {
	best := preferredDistances[0]
	bestDiff := abs(meters - best)

	for _, d := range preferredDistances[1:] {
		if diff := abs(meters - d); diff < bestDiff {
			best = d
			bestDiff = diff
		}
	}

	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Geolocation is the location context attached to every outgoing request
// while set. Distance is only transmitted together with a location.
type Geolocation struct {
	Latitude  float64
	Longitude float64

	// Distance is the search radius in meters. Zero means unset.
	Distance int

	// FromSensor marks the location as coming from the device's sensor; it
	// is metadata for the service.
	FromSensor bool
}

// geoState guards the currently configured location for concurrent request
// workers.
type geoState struct {
	mu  sync.RWMutex
	loc *Geolocation
}

func (g *geoState) set(loc *Geolocation) {
	g.mu.Lock()
	g.loc = loc
	g.mu.Unlock()
}

func (g *geoState) setDistance(meters int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loc != nil {
		g.loc.Distance = meters
	}
}

// get copies the configured location out under the lock, so concurrent
// setDistance writes never race with readers of the returned value.
func (g *geoState) get() (Geolocation, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.loc == nil {
		return Geolocation{}, false
	}
	return *g.loc, true
}

// queryParams renders the configured location as request query parameters.
// Returns nil when no location is set.
func (g *geoState) queryParams() url.Values {
	loc, ok := g.get()
	if !ok {
		return nil
	}

	params := url.Values{}
	params.Set("r_lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	params.Set("r_lng", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	if loc.FromSensor {
		params.Set("r_sensor", "true")
	} else {
		params.Set("r_sensor", "false")
	}
	if loc.Distance > 0 {
		params.Set("r_radius", strconv.Itoa(clampToPreferredDistance(loc.Distance)))
	}

	return params
}
