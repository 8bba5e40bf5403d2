package heightmap

import "time"

// TimeSeed derives a coordinate offset from the millisecond-of-second of t,
// giving values in [0, 999].
func TimeSeed(t time.Time) float64 {
	return float64(t.Nanosecond() / int(time.Millisecond))
}
