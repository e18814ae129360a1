package stats

import (
	"fmt"

	"github.com/julianstephens/carelog/internal/utils"
)

// Period is a named reporting window ending today
type Period string

const (
	PeriodOneWeek     Period = "1week"
	PeriodTwoWeeks    Period = "2weeks"
	PeriodThreeWeeks  Period = "3weeks"
	PeriodOneMonth    Period = "1month"
	PeriodThreeMonths Period = "3months"
	PeriodSixMonths   Period = "6months"
	PeriodOneYear     Period = "1year"
	PeriodCustom      Period = "custom"

	DefaultPeriod = PeriodOneMonth
)

// Periods lists the selectable periods in display order
var Periods = []Period{
	PeriodOneWeek, PeriodTwoWeeks, PeriodThreeWeeks, PeriodOneMonth,
	PeriodThreeMonths, PeriodSixMonths, PeriodOneYear, PeriodCustom,
}

var periodLabels = map[string]map[Period]string{
	"en": {
		PeriodOneWeek:     "the past week",
		PeriodTwoWeeks:    "the past 2 weeks",
		PeriodThreeWeeks:  "the past 3 weeks",
		PeriodOneMonth:    "the past month",
		PeriodThreeMonths: "the past 3 months",
		PeriodSixMonths:   "the past 6 months",
		PeriodOneYear:     "the past year",
		PeriodCustom:      "the selected period",
	},
	"ja": {
		PeriodOneWeek:     "1週間",
		PeriodTwoWeeks:    "2週間",
		PeriodThreeWeeks:  "3週間",
		PeriodOneMonth:    "1ヶ月",
		PeriodThreeMonths: "3ヶ月",
		PeriodSixMonths:   "6ヶ月",
		PeriodOneYear:     "1年",
		PeriodCustom:      "カスタム期間",
	},
}

// ParsePeriod validates a period name. An empty name selects the default period.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	for _, p := range Periods {
		if Period(s) == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Label returns the display name of the period for a locale
func (p Period) Label(locale string) string {
	labels, ok := periodLabels[locale]
	if !ok {
		labels = periodLabels["en"]
	}
	if label, ok := labels[p]; ok {
		return label
	}
	return string(p)
}

// Range is an inclusive date range
type Range struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Period Period `json:"period"`
}

// Resolve turns a period into a concrete inclusive range ending on today.
// For PeriodCustom the given from and to are used as-is and must be ordered.
func Resolve(p Period, today, from, to string) (Range, error) {
	if p == PeriodCustom {
		if !utils.ValidateDateFormat(from) || !utils.ValidateDateFormat(to) {
			return Range{}, fmt.Errorf("custom period requires from and to dates in YYYY-MM-DD format")
		}
		if from > to {
			return Range{}, fmt.Errorf("from date %s is after to date %s", from, to)
		}
		return Range{From: from, To: to, Period: p}, nil
	}

	var start string
	var err error
	switch p {
	case PeriodOneWeek:
		start, err = utils.AddDays(today, -7)
	case PeriodTwoWeeks:
		start, err = utils.AddDays(today, -14)
	case PeriodThreeWeeks:
		start, err = utils.AddDays(today, -21)
	case PeriodOneMonth:
		start, err = utils.AddMonths(today, -1)
	case PeriodThreeMonths:
		start, err = utils.AddMonths(today, -3)
	case PeriodSixMonths:
		start, err = utils.AddMonths(today, -6)
	case PeriodOneYear:
		start, err = utils.AddMonths(today, -12)
	default:
		return Range{}, fmt.Errorf("unknown period %q", p)
	}
	if err != nil {
		return Range{}, fmt.Errorf("invalid date %q: %w", today, err)
	}

	return Range{From: start, To: today, Period: p}, nil
}
