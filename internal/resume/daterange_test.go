package resume

import "testing"

func TestFormatDateRange(t *testing.T) {
	cases := []struct {
		name string
		in   DateFields
		want string
	}{
		{
			name: "present",
			in:   DateFields{StartMonth: "March", StartYear: "2022", EndType: EndPresent},
			want: "March 2022 - Present",
		},
		{
			name: "year only without end",
			in:   DateFields{StartYear: "2022", EndType: EndNone},
			want: "2022",
		},
		{
			name: "specific month",
			in: DateFields{
				StartMonth: "March", StartYear: "2022",
				EndType: EndSpecific, EndMonth: "March", EndYear: "2023",
			},
			want: "March 2022 - March 2023",
		},
		{
			name: "no start year",
			in:   DateFields{StartMonth: "March", EndType: EndPresent},
			want: "",
		},
		{
			name: "specific month without end year falls back to start",
			in:   DateFields{StartMonth: "May", StartYear: "2020", EndType: EndSpecific, EndMonth: "June"},
			want: "May 2020",
		},
		{
			name: "specific year only",
			in:   DateFields{StartYear: "2019", EndType: EndSpecific, EndYear: "2021"},
			want: "2019 - 2021",
		},
		{
			name: "end type is case insensitive",
			in:   DateFields{StartYear: "2019", EndType: "present"},
			want: "2019 - Present",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDateRange(tc.in); got != tc.want {
				t.Fatalf("FormatDateRange() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPeriodDateFieldsPromoted(t *testing.T) {
	item := ExperienceItem{
		Position: "Engineer",
		Period:   Period{StartMonth: "Jan", StartYear: "2021", EndType: EndPresent},
	}
	if got := FormatDateRange(item.DateFields()); got != "Jan 2021 - Present" {
		t.Fatalf("unexpected range %q", got)
	}
}
