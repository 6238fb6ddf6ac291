package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12:00 am", 0},
		{"12:59 am", 59},
		{"1:00 am", 60},
		{"9:00 am", 540},
		{"9:00 AM", 540},
		{"12:00 pm", 720},
		{"2:30 pm", 870},
		{"4:30PM", 990},
		{"05:00 pm", 1020},
		{"11:59 pm", 1439},
		{"  3:15  pm ", 915},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, in := range []string{"", "14:30", "13:00 pm", "0:30 am", "9:60 am", "9 am", "9:5 am", "nine am", "9:00 xm"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTimeOfDay(in)
			require.Error(t, err)

			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
			assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
		})
	}
}

func TestFormatTimeOfDay_RoundTrip(t *testing.T) {
	for m := 0; m < minutesPerDay; m += 7 {
		got, err := ParseTimeOfDay(FormatTimeOfDay(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	assert.Equal(t, "12:00 am", FormatTimeOfDay(0))
	assert.Equal(t, "4:30 pm", FormatTimeOfDay(990))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("25-12-2025", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2025-12-25", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("31-02-2025", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCanonical(t *testing.T) {
	date, tod, err := Canonical(" 05-12-2025 ", "2:30PM")
	require.NoError(t, err)
	assert.Equal(t, "05-12-2025", date)
	assert.Equal(t, "2:30 pm", tod)

	_, tod2, err := Canonical("05-12-2025", "02:30 pm")
	require.NoError(t, err)
	assert.Equal(t, tod, tod2)

	_, _, err = Canonical("05-12-2025", "14:30")
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
}
