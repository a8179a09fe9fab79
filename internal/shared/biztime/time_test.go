package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesBusinessTimezone(t *testing.T) {
	MustInit("Europe/Berlin")

	// 23:30 UTC on Dec 31 is already Jan 1 in Berlin
	late := time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, Date(2024, 1, 1), DateOf(late))

	early := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, Date(2024, 6, 1), DateOf(early))
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, 2, 29), d)
	assert.Equal(t, "2024-02-29", FormatDate(d))

	_, err = ParseDate("29.02.2024")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	clock := FixedClock(Date(2024, 6, 15))
	assert.Equal(t, Date(2024, 6, 15), clock.Today())
}
