package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKindFromString_CanonicalSpellings(t *testing.T) {
	kind, err := EventKindFromString("Cpu")
	require.NoError(t, err)
	assert.Equal(t, EventCPU, kind)

	kind, err = EventKindFromString("Io")
	require.NoError(t, err)
	assert.Equal(t, EventIO, kind)
}

func TestEventKindFromString_IsCaseSensitive(t *testing.T) {
	for _, spelling := range []string{"cpu", "CPU", "io", "IO", "disk", ""} {
		_, err := EventKindFromString(spelling)
		assert.Error(t, err, "spelling %q must be rejected", spelling)
	}
}

func TestNewEvent_ClampsUsageFloor(t *testing.T) {
	ev := NewEvent(EventCPU, 3, 0.0001)
	assert.Equal(t, MinResourceUsage, ev.ResourceUsage)

	ev = NewEvent(EventCPU, 3, 0.75)
	assert.Equal(t, 0.75, ev.ResourceUsage)
}

func TestNewEvent_ClampsZeroDuration(t *testing.T) {
	ev := NewEvent(EventIO, 0, 0.5)
	assert.Equal(t, uint64(1), ev.Duration)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "Cpu", EventCPU.String())
	assert.Equal(t, "Io", EventIO.String())
}
