package util

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

func NewID() string {
	return uuid.NewString()
}

// NewReference builds a human-readable breakdown reference such as
// DEP_20250117_142310_042.
func NewReference(now time.Time) string {
	return fmt.Sprintf("DEP_%s_%s_%03d",
		now.Format("20060102"),
		now.Format("150405"),
		now.Nanosecond()/1000000%1000,
	)
}

func toRadians(degree float64) float64 {
	return degree * math.Pi / 180
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	// earth radius in km
	const R = 6371

	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	deltaPhi := toRadians(lat2 - lat1)
	deltaLambda := toRadians(lon2 - lon1)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}
