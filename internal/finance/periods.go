package finance

import (
	"fmt"
	"time"
)

// Bucket holds the records whose timestamp falls inside one reporting
// period of the selected year.
type Bucket struct {
	Index     int
	Label     string
	Bookings  []Booking
	Movements []Movement
}

// BuildBuckets partitions bookings and stock movements into ordered
// calendar buckets for the target year: 12 for monthly, 4 for quarterly,
// 1 for yearly. Bookings bucket on their check-in date, movements on their
// transaction timestamp. Records from other years are excluded entirely;
// records with a zero timestamp are dropped, never an error.
func BuildBuckets(year int, g Granularity, bookings []Booking, movements []Movement) []Bucket {
	buckets := emptyBuckets(year, g)
	for _, b := range bookings {
		if idx, ok := bucketIndex(b.CheckIn, year, g); ok {
			buckets[idx].Bookings = append(buckets[idx].Bookings, b)
		}
	}
	for _, m := range movements {
		if idx, ok := bucketIndex(m.OccurredAt, year, g); ok {
			buckets[idx].Movements = append(buckets[idx].Movements, m)
		}
	}
	return buckets
}

func emptyBuckets(year int, g Granularity) []Bucket {
	switch g {
	case GranularityMonth:
		buckets := make([]Bucket, 12)
		for i := range buckets {
			buckets[i] = Bucket{Index: i, Label: time.Month(i + 1).String()}
		}
		return buckets
	case GranularityQuarter:
		buckets := make([]Bucket, 4)
		for i := range buckets {
			buckets[i] = Bucket{Index: i, Label: quarterLabel(i)}
		}
		return buckets
	default:
		return []Bucket{{Index: 0, Label: fmt.Sprintf("Full Year %d", year)}}
	}
}

// quarterLabel renders "Q2 (April - June)"; quarter n covers months
// [3n, 3n+2].
func quarterLabel(quarter int) string {
	start := time.Month(quarter*3 + 1)
	end := time.Month(quarter*3 + 3)
	return fmt.Sprintf("Q%d (%s - %s)", quarter+1, start, end)
}

func bucketIndex(ts time.Time, year int, g Granularity) (int, bool) {
	if ts.IsZero() || ts.Year() != year {
		return 0, false
	}
	switch g {
	case GranularityMonth:
		return int(ts.Month()) - 1, true
	case GranularityQuarter:
		return (int(ts.Month()) - 1) / 3, true
	default:
		return 0, true
	}
}
