package panel

import "github.com/Veraticus/ledgerlens/internal/model"

// Series is the non-null values of one panel column in month order.
type Series struct {
	Column string
	Months []model.Month
	Values []float64
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Values) }

// TimeRange returns the first and last month, or nil for an empty series.
func (s Series) TimeRange() *model.TimeRange {
	if len(s.Months) == 0 {
		return nil
	}
	return &model.TimeRange{Start: s.Months[0], End: s.Months[len(s.Months)-1]}
}

// MonthStrings returns the months formatted as YYYY-MM.
func (s Series) MonthStrings() []string {
	out := make([]string, len(s.Months))
	for i, m := range s.Months {
		out[i] = m.String()
	}
	return out
}

// Aligned holds two series restricted to the months they share.
type Aligned struct {
	Months []model.Month
	Left   []float64
	Right  []float64
}

// Len returns the number of shared months.
func (a Aligned) Len() int { return len(a.Months) }

// TimeRange returns the shared month span, or nil when nothing is shared.
func (a Aligned) TimeRange() *model.TimeRange {
	if len(a.Months) == 0 {
		return nil
	}
	return &model.TimeRange{Start: a.Months[0], End: a.Months[len(a.Months)-1]}
}

// Align inner-joins two series on month.
func Align(left, right Series) Aligned {
	idx := make(map[model.Month]float64, len(right.Months))
	for i, m := range right.Months {
		idx[m] = right.Values[i]
	}
	var out Aligned
	for i, m := range left.Months {
		rv, ok := idx[m]
		if !ok {
			continue
		}
		out.Months = append(out.Months, m)
		out.Left = append(out.Left, left.Values[i])
		out.Right = append(out.Right, rv)
	}
	return out
}
