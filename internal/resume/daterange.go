package resume

import "strings"

// DateFields 是日期区间格式化所需的最小字段集合。
type DateFields struct {
	StartMonth string
	StartYear  string
	EndType    EndType
	EndMonth   string
	EndYear    string
}

func (p Period) DateFields() DateFields {
	return DateFields{
		StartMonth: string(p.StartMonth),
		StartYear:  string(p.StartYear),
		EndType:    p.EndType,
		EndMonth:   string(p.EndMonth),
		EndYear:    string(p.EndYear),
	}
}

// FormatDateRange renders the display range of an entry:
//
//	"March 2022 - Present", "2022", "March 2022 - March 2023", ""
//
// It never fails; missing pieces collapse to the shortest sensible form.
func FormatDateRange(f DateFields) string {
	start := monthYear(f.StartMonth, f.StartYear)
	if start == "" {
		return ""
	}

	switch parseEndType(string(f.EndType)) {
	case EndPresent:
		return start + " - Present"
	case EndSpecific:
		if end := monthYear(f.EndMonth, f.EndYear); end != "" {
			return start + " - " + end
		}
	}
	return start
}

func monthYear(month, year string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		return ""
	}
	if month = strings.TrimSpace(month); month != "" {
		return month + " " + year
	}
	return year
}
