package tzconvert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownZones(t *testing.T) {
	_, err := New("Not/AZone", DefaultFinalZone)
	require.ErrorIs(t, err, ErrInvalidTimeZone)

	_, err = New(DefaultDestinationZone, "Also/Bogus")
	require.ErrorIs(t, err, ErrInvalidTimeZone)
}

func TestConvertPreservesInstant(t *testing.T) {
	conv, err := New("America/New_York", "UTC")
	require.NoError(t, err)

	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	got := conv.Convert(now)

	assert.True(t, got.Equal(now), "conversion must not move the instant")
	assert.Equal(t, "UTC", got.Location().String())
}

func TestConvertIsDeterministic(t *testing.T) {
	conv, err := New("Europe/Athens", "UTC")
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 3, 4, 5, 6e6, time.UTC)
	first := conv.Convert(now)
	second := conv.Convert(now)

	assert.Equal(t, first, second)
}

func TestConvertAcrossDaylightSaving(t *testing.T) {
	conv, err := New("America/New_York", "UTC")
	require.NoError(t, err)

	winter := time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)
	summer := time.Date(2024, 7, 15, 17, 0, 0, 0, time.UTC)

	assert.True(t, conv.Convert(winter).Equal(winter))
	assert.True(t, conv.Convert(summer).Equal(summer))
}

func TestOriginalZonePrefersStableIdentifier(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Athens")
	require.NoError(t, err)

	name := OriginalZone(time.Date(2024, 1, 1, 0, 0, 0, 0, loc))
	assert.Equal(t, "Europe/Athens", name)
}

func TestOriginalZoneFallsBackToAbbreviation(t *testing.T) {
	// A clock Go cannot name still yields something usable.
	assert.NotEmpty(t, OriginalZone(time.Now()))

	fixed := time.FixedZone("EET", 2*60*60)
	assert.Equal(t, "EET", OriginalZone(time.Date(2024, 1, 1, 0, 0, 0, 0, fixed)))
}
