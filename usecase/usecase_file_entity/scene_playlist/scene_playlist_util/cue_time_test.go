package scene_playlist_util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTimecode(t *testing.T) {
	cases := []struct {
		tc      string
		seconds float64
	}{
		{"00:00:00", 0},
		{"00:00:01", 1.0 / 75},
		{"00:59:74", 59 + 74.0/75},
		{"03:21:48", 201.64},
		{"78:40:00", 4720},
		{"100:00:00", 6000},
		{" 04:30:00 ", 270},
	}
	for _, c := range cases {
		got, err := ParseTimecode(c.tc)
		require.NoError(t, err, c.tc)
		require.InDelta(t, c.seconds, got, 1e-9, c.tc)
	}
}

func TestParseTimecodeInvalid(t *testing.T) {
	cases := []string{
		"",
		"03:21",
		"03:21:48:00",
		"aa:00:00",
		"-1:00:00",
		"00:60:00",
		"00:-1:00",
		"00:00:75",
		"00:00:-1",
		"00 00 00",
	}
	for _, tc := range cases {
		_, err := ParseTimecode(tc)
		require.Error(t, err, tc)
	}
}

func TestFormatTimecode(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{-3, "00:00:00"},
		{201.64, "03:21:48"},
		{59 + 74.0/75, "00:59:74"},
		{60, "01:00:00"},
		{6000, "100:00:00"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, FormatTimecode(c.seconds))
	}
}

func TestTimecodeRoundTrip(t *testing.T) {
	for _, tc := range []string{"00:00:00", "00:00:01", "00:59:74", "03:21:48", "99:59:74"} {
		seconds, err := ParseTimecode(tc)
		require.NoError(t, err)
		require.Equal(t, tc, FormatTimecode(seconds))
	}
}
