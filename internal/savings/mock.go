// Package savings holds the savings history shown on the home screen. The
// history is mocked: there is no ledger behind it.
package savings

import (
	"math"
	"time"
)

// Days is the number of points Mock produces.
const Days = 12

// DateLayout renders dates the way an en-US locale does (M/D/YYYY).
const DateLayout = "1/2/2006"

// Point is one day of savings.
type Point struct {
	Date  string
	Value float64
	At    time.Time
}

// Mock builds the trailing Days-day series ending on now's calendar day.
// value(i) = max(0, round(1000 + 120*i + 100*sin(i))).
func Mock(now time.Time) []Point {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	points := make([]Point, Days)
	for i := range Days {
		at := day.AddDate(0, 0, -(Days - 1 - i))
		points[i] = Point{
			Date:  at.Format(DateLayout),
			Value: value(i),
			At:    at,
		}
	}
	return points
}

func value(i int) float64 {
	v := math.Round(1000 + 120*float64(i) + 100*math.Sin(float64(i)))
	return math.Max(0, v)
}
