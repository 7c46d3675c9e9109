package release

import "sort"

// RepoMetrics summarizes adoption behavior for one repository.
type RepoMetrics struct {
	TotalUpdates    int
	AvgLagDays      float64
	MedianLagDays   float64
	MinLagDays      int
	MaxLagDays      int
	AvgSkipped      float64
	AvgIntervalDays float64
	Rows            []AdoptionRow
}

// ComputeMetrics derives per-repository adoption statistics and fills the
// per-row skip and interval fields. Rows without a matched release are
// kept but excluded from the lag statistics.
func ComputeMetrics(rows []AdoptionRow, set *Set) RepoMetrics {
	m := RepoMetrics{TotalUpdates: len(rows), Rows: rows}

	var lags []int
	var skips, intervals []int

	for i := range rows {
		if i > 0 {
			skipped := set.CountBetween(rows[i-1].Version, rows[i].Version)
			rows[i].VersionsSkipped = skipped
			skips = append(skips, skipped)

			interval := int(rows[i].AdoptionDate.Sub(rows[i-1].AdoptionDate).Hours() / 24)
			rows[i].DaysSinceLastUpdate = interval
			intervals = append(intervals, interval)
		}

		if rows[i].LagDays != nil {
			lags = append(lags, *rows[i].LagDays)
		}
	}

	if len(lags) > 0 {
		m.AvgLagDays = meanInt(lags)
		m.MedianLagDays = medianInt(lags)
		m.MinLagDays = lags[0]
		m.MaxLagDays = lags[0]
		for _, lag := range lags {
			if lag < m.MinLagDays {
				m.MinLagDays = lag
			}
			if lag > m.MaxLagDays {
				m.MaxLagDays = lag
			}
		}
	}
	if len(skips) > 0 {
		m.AvgSkipped = meanInt(skips)
	}
	if len(intervals) > 0 {
		m.AvgIntervalDays = meanInt(intervals)
	}

	return m
}

func meanInt(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func medianInt(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
