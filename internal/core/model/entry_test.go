package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "plain", input: "08:00", want: "08:00"},
		{name: "trailing seconds truncated", input: "09:30:45", want: "09:30"},
		{name: "surrounding spaces", input: " 23:59 ", want: "23:59"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "empty", input: "", wantErr: true},
		{name: "hour 24", input: "24:00", wantErr: true},
		{name: "hour 25 minute 61", input: "25:61", wantErr: true},
		{name: "minute 60", input: "12:60", wantErr: true},
		{name: "missing padding", input: "8:00", wantErr: true},
		{name: "bad separator", input: "08.00", wantErr: true},
		{name: "bad seconds", input: "08:00:61", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayComponents(t *testing.T) {
	tod := MustTimeOfDay("13:07")
	assert.Equal(t, 13, tod.Hour())
	assert.Equal(t, 7, tod.Minute())
	assert.Equal(t, 13*60+7, tod.Minutes())

	day := time.Date(2026, 3, 14, 22, 10, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 13, 7, 0, 0, time.UTC), tod.On(day))
	assert.Equal(t, TimeOfDay("22:10"), TimeOfDayOf(day))
}

func TestEntryDraftValidate(t *testing.T) {
	t.Run("normalizes fields", func(t *testing.T) {
		d, err := EntryDraft{TimeOfDay: "09:00:00", Title: "  Keynote ", TitleSecondary: " 기조연설 ", Important: true}.Validate()
		require.NoError(t, err)
		assert.Equal(t, EntryDraft{TimeOfDay: "09:00", Title: "Keynote", TitleSecondary: "기조연설", Important: true}, d)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := EntryDraft{TimeOfDay: "09:00", Title: "   "}.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
	})

	t.Run("empty time rejected", func(t *testing.T) {
		_, err := EntryDraft{Title: "Keynote"}.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "start_time", verr.Field)
	})
}

func TestSplitLegacyTitle(t *testing.T) {
	title, important := SplitLegacyTitle("Important: Judging")
	assert.Equal(t, "Judging", title)
	assert.True(t, important)

	title, important = SplitLegacyTitle("Lunch")
	assert.Equal(t, "Lunch", title)
	assert.False(t, important)
}

func TestParsePolicies(t *testing.T) {
	p, err := ParseWrapPolicy("next-day")
	require.NoError(t, err)
	assert.Equal(t, WrapNextDay, p)

	p, err = ParseWrapPolicy("")
	require.NoError(t, err)
	assert.Equal(t, WrapNone, p)

	_, err = ParseWrapPolicy("sometimes")
	assert.Error(t, err)

	v, err := ParseViewMode("clock")
	require.NoError(t, err)
	assert.Equal(t, ViewClock, v)
	assert.Equal(t, "clock", v.String())

	_, err = ParseViewMode("calendar")
	assert.Error(t, err)
}
