package cabinet

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

// DateRange bounds the supply list. The raw ISO strings are kept for export
// filenames; a range whose bounds failed to parse contains no date.
type DateRange struct {
	StartRaw string
	EndRaw   string
	Start    entity.Date
	End      entity.Date
	valid    bool
}

// ParseDateRange parses ISO bounds. Parse failures are not reported: they
// yield a range that excludes every record.
func ParseDateRange(start, end string) DateRange {
	r := DateRange{StartRaw: start, EndRaw: end}
	s, errStart := entity.ParseISODate(start)
	e, errEnd := entity.ParseISODate(end)
	if errStart != nil || errEnd != nil {
		return r
	}
	r.Start, r.End, r.valid = s, e, true
	return r
}

// NewDateRange builds a range from already-parsed dates.
func NewDateRange(start, end entity.Date) DateRange {
	return DateRange{
		StartRaw: start.ISO(),
		EndRaw:   end.ISO(),
		Start:    start,
		End:      end,
		valid:    !start.IsZero() && !end.IsZero(),
	}
}

// TodayRange is the default range of the supplies tab.
func TodayRange() DateRange {
	today := entity.Today()
	return NewDateRange(today, today)
}

// Valid reports whether both bounds parsed.
func (r DateRange) Valid() bool { return r.valid }

// Contains reports whether start <= d <= end.
func (r DateRange) Contains(d entity.Date) bool {
	if !r.valid || d.IsZero() {
		return false
	}
	return !d.Before(r.Start) && !d.After(r.End)
}

// Filter is the search box plus the date range of the supplies tab.
type Filter struct {
	Search string
	Range  DateRange
}

// Matches applies both predicates to a supply.
func (f Filter) Matches(s entity.Supply) bool {
	return containsFold(s.Item, f.Search) && f.Range.Contains(s.PurchaseDate)
}

// Apply returns the supplies matching f, in their original order.
func (f Filter) Apply(supplies []entity.Supply) []entity.Supply {
	out := make([]entity.Supply, 0, len(supplies))
	for _, s := range supplies {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(cases.Fold().String(haystack), cases.Fold().String(needle))
}
