package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestNewBookingInfo(t *testing.T) {
	tests := []struct {
		name    string
		login   string
		from    time.Time
		to      time.Time
		wantErr bool
	}{
		{name: "valid range", login: "andreid", from: date(2024, 1, 10), to: date(2024, 1, 15)},
		{name: "single night", login: "andreid", from: date(2024, 1, 10), to: date(2024, 1, 11)},
		{name: "from equals to", login: "andreid", from: date(2024, 1, 10), to: date(2024, 1, 10), wantErr: true},
		{name: "from after to", login: "andreid", from: date(2024, 1, 15), to: date(2024, 1, 10), wantErr: true},
		{name: "empty login", login: "  ", from: date(2024, 1, 10), to: date(2024, 1, 15), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := NewBookingInfo(tt.login, tt.from, tt.to)

			if tt.wantErr {
				require.Error(t, err)
				require.NotNil(t, IsInputError(err))

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.login, info.UserLogin)
			require.True(t, info.FromDate.Equal(tt.from))
			require.True(t, info.ToDate.Equal(tt.to))
		})
	}
}

func TestNewBookingInfoNormalizesToWholeDays(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	from := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	to := time.Date(2024, 3, 5, 9, 45, 12, 0, loc)

	info, err := NewBookingInfo("andreid", from, to)
	require.NoError(t, err)

	require.True(t, info.FromDate.Equal(date(2024, 3, 1)))
	require.True(t, info.ToDate.Equal(date(2024, 3, 5)))
}

func TestBookingInfoEqual(t *testing.T) {
	base, err := NewBookingInfo("bob", date(2024, 1, 10), date(2024, 1, 15))
	require.NoError(t, err)

	same, err := NewBookingInfo("bob", date(2024, 1, 10), date(2024, 1, 15))
	require.NoError(t, err)

	otherUser, err := NewBookingInfo("alice", date(2024, 1, 10), date(2024, 1, 15))
	require.NoError(t, err)

	otherDates, err := NewBookingInfo("bob", date(2024, 1, 10), date(2024, 1, 16))
	require.NoError(t, err)

	require.True(t, base.Equal(same))
	require.False(t, base.Equal(otherUser))
	require.False(t, base.Equal(otherDates))
}
