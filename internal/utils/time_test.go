package utils

import (
	"slices"
	"testing"
	"time"

	"github.com/julianstephens/routine/internal/models"
)

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{" 23:59 ", 1439, false},
		{"24:00", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeToMinutes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeToMinutes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseTimesToMinutes(t *testing.T) {
	got, err := ParseTimesToMinutes("08:00, 12:15")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []int{480, 735}) {
		t.Errorf("got %v", got)
	}
	if got, err := ParseTimesToMinutes("  "); err != nil || got != nil {
		t.Errorf("blank input = %v, %v", got, err)
	}
	if _, err := ParseTimesToMinutes("08:00,nope"); err == nil {
		t.Error("expected an error for a bad entry")
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(545); got != "09:05" {
		t.Errorf("FormatMinutes(545) = %s", got)
	}
	if got := FormatMinutesList([]int{0, 1439}); got != "00:00, 23:59" {
		t.Errorf("FormatMinutesList = %s", got)
	}
}

func TestSameISOWeek(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "monday and sunday of one week",
			a:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "sunday and next monday",
			a:    time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "week 53 spans the new year",
			a:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "same week number a year apart",
			a:    time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "compared in the location of b",
			a:    time.Date(2026, 3, 8, 23, 30, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 9, 8, 0, 0, 0, time.FixedZone("UTC+9", 9*3600)),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameISOWeek(tt.a, tt.b); got != tt.want {
				t.Errorf("SameISOWeek() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseWeekDays(t *testing.T) {
	got, err := ParseWeekDays("mon, wed,,friday")
	if err != nil {
		t.Fatal(err)
	}
	if got != models.NewDaySet(models.Monday, models.Wednesday, models.Friday) {
		t.Errorf("ParseWeekDays = %v", got)
	}
	if _, err := ParseWeekDays(" , "); err == nil {
		t.Error("expected an error for an empty list")
	}
	if _, err := ParseWeekDays("mon,blursday"); err == nil {
		t.Error("expected an error for an unknown day")
	}
}

func TestLoadLocation(t *testing.T) {
	for _, tz := range []string{"", "Local"} {
		loc, err := LoadLocation(tz)
		if err != nil || loc != time.Local {
			t.Errorf("LoadLocation(%q) = %v, %v", tz, loc, err)
		}
	}
	if !ValidateTimezone("UTC") {
		t.Error("UTC reported invalid")
	}
	if ValidateTimezone("Mars/Olympus_Mons") {
		t.Error("unknown zone reported valid")
	}
}
