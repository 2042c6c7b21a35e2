package snowfall

import (
	"sort"
	"time"
)

// Aggregate aligns provider results by calendar day and computes the
// consensus forecast. A day appears in the output if and only if at least
// one provider reported a value for it, and its average is the arithmetic
// mean over exactly the providers present for that day - a day covered by
// one of three providers yields that provider's value, not a down-weighted
// share. Output is ordered by date ascending.
func Aggregate(results []ProviderResult) []AggregatedDay {
	if len(results) == 0 {
		return nil
	}

	type bucket struct {
		date    time.Time
		sources map[string]float64
	}
	buckets := make(map[string]*bucket)

	for _, result := range results {
		for _, dv := range result.Days {
			key := DayKey(dv.Date)
			b, ok := buckets[key]
			if !ok {
				b = &bucket{
					date:    Day(dv.Date),
					sources: make(map[string]float64),
				}
				buckets[key] = b
			}
			// A provider reporting the same day twice keeps its last value.
			b.sources[result.Provider] = dv.Inches
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	days := make([]AggregatedDay, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]

		var sum float64
		for _, v := range b.sources {
			sum += v
		}

		days = append(days, AggregatedDay{
			Date:      b.date,
			AvgInches: sum / float64(len(b.sources)),
			Sources:   b.sources,
		})
	}

	return days
}
