package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-01-15", want: "2024-01-15"},
		{in: "2024-1-5", want: "2024-01-05"},
		{in: "not-a-date", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "monday maps to itself", in: "2024-01-15", want: "2024-01-15"},
		{name: "wednesday maps back to monday", in: "2024-01-17", want: "2024-01-15"},
		{name: "sunday belongs to the previous monday", in: "2024-01-21", want: "2024-01-15"},
		{name: "saturday", in: "2024-01-20", want: "2024-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse(tt.in).WeekStart()
			if got.String() != tt.want {
				t.Errorf("WeekStart(%s) = %s, want %s", tt.in, got, tt.want)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("WeekStart(%s) is a %s, want Monday", tt.in, got.Weekday())
			}
		})
	}
}

func TestMonthKey(t *testing.T) {
	if k := MustParse("2024-01-15").MonthKey(); k != "2024-01" {
		t.Errorf("MonthKey = %q, want 2024-01", k)
	}
	if MustParse("2024-01-31").MonthKey() != MustParse("2024-01-15").MonthKey() {
		t.Error("same month must share a bucket key")
	}
	if MustParse("2024-02-01").MonthKey() == MustParse("2024-01-31").MonthKey() {
		t.Error("adjacent months must not share a bucket key")
	}
}

func TestAddNormalizes(t *testing.T) {
	if got := MustParse("2024-01-31").Add(1).String(); got != "2024-02-01" {
		t.Errorf("Add(1) = %s, want 2024-02-01", got)
	}
	if got := MustParse("2024-03-01").Add(-1).String(); got != "2024-02-29" {
		t.Errorf("Add(-1) = %s, want 2024-02-29 (leap year)", got)
	}
}

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{
		"daily": Daily, "day": Daily,
		"weekly": Weekly, "week": Weekly,
		"monthly": Monthly, "month": Monthly, "": Monthly,
	} {
		got, err := ParsePeriod(in)
		if err != nil || got != want {
			t.Errorf("ParsePeriod(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePeriod("fortnightly"); err == nil {
		t.Error("ParsePeriod(fortnightly) expected error")
	}
}
