package layout

import (
	"sort"

	"github.com/runnerr0/montycal/internal/model"
)

type monthKey struct {
	year  int
	month int
}

// AssignLanes sets Lane on every segment, in place. Within each month,
// segments are taken in (StartCol, EndCol) order and each goes into the
// first lane whose last placed EndCol is strictly before its StartCol;
// otherwise a new lane is opened. Ties keep their input order.
func AssignLanes(segs []model.Segment) {
	groups := map[monthKey][]int{}
	var order []monthKey
	for i, s := range segs {
		k := monthKey{s.Year, s.MonthIndex}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	for _, k := range order {
		idx := groups[k]
		sort.SliceStable(idx, func(a, b int) bool {
			sa, sb := segs[idx[a]], segs[idx[b]]
			if sa.StartCol != sb.StartCol {
				return sa.StartCol < sb.StartCol
			}
			return sa.EndCol < sb.EndCol
		})

		var laneEnds []int
		for _, i := range idx {
			lane := -1
			for l, end := range laneEnds {
				if end < segs[i].StartCol {
					lane = l
					break
				}
			}
			if lane < 0 {
				lane = len(laneEnds)
				laneEnds = append(laneEnds, 0)
			}
			laneEnds[lane] = max(laneEnds[lane], segs[i].EndCol)
			segs[i].Lane = lane
		}
	}
}

// LaneCount returns how many lanes the given month of year needs.
func LaneCount(segs []model.Segment, year, month int) int {
	n := 0
	for _, s := range segs {
		if s.Year == year && s.MonthIndex == month && s.Lane+1 > n {
			n = s.Lane + 1
		}
	}
	return n
}

// ForMonth returns the segments of one month row, ordered by lane then
// start column.
func ForMonth(segs []model.Segment, year, month int) []model.Segment {
	var out []model.Segment
	for _, s := range segs {
		if s.Year == year && s.MonthIndex == month {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Lane != out[b].Lane {
			return out[a].Lane < out[b].Lane
		}
		return out[a].StartCol < out[b].StartCol
	})
	return out
}
