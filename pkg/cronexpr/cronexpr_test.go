package cronexpr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_UTC(t *testing.T) {
	runAt := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)

	oneShot := Translate(runAt, "UTC")
	assert.Equal(t, "30 10 15 06 *", oneShot.Expression)
	assert.Equal(t, "UTC", oneShot.Timezone)
}

func TestTranslate_ConvertsIntoTargetZone(t *testing.T) {
	// 10:30 UTC is 07:30 in Sao Paulo (UTC-3, no DST since 2019).
	runAt := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)

	oneShot := Translate(runAt, "America/Sao_Paulo")
	assert.Equal(t, "30 07 15 06 *", oneShot.Expression)
	assert.Equal(t, "America/Sao_Paulo", oneShot.Timezone)
}

func TestTranslate_BlankZoneDefaultsToUTC(t *testing.T) {
	runAt := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)

	for _, zone := range []string{"", "   "} {
		oneShot := Translate(runAt, zone)
		assert.Equal(t, "04 03 02 01 *", oneShot.Expression)
		assert.Equal(t, "UTC", oneShot.Timezone)
	}
}

func TestTranslate_UnknownZoneFallsBackToUTC(t *testing.T) {
	runAt := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)

	oneShot := Translate(runAt, "Mars/Olympus_Mons")
	assert.Equal(t, "30 10 15 06 *", oneShot.Expression)
	assert.Equal(t, "UTC", oneShot.Timezone)
}

func TestTranslate_OutputAlwaysValidates(t *testing.T) {
	times := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 12, 1, 0, 0, time.UTC),
	}

	for _, runAt := range times {
		for _, zone := range []string{"UTC", "America/New_York", "Asia/Tokyo", "bogus"} {
			require.NoError(t, Translate(runAt, zone).Validate())
		}
	}
}

func TestValidate_RejectsMalformedExpression(t *testing.T) {
	bad := OneShot{Expression: "61 25 40 13 *", Timezone: "UTC"}
	require.Error(t, bad.Validate())

	empty := OneShot{Expression: "", Timezone: "UTC"}
	require.Error(t, empty.Validate())
}
