package physics

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(w Window) []int {
	return slices.Collect(w.All())
}

func TestScheduler_WindowWrapsPastEnd(t *testing.T) {
	var s Scheduler
	s.Seek(4)

	w := s.Next(5, 2)

	assert.Equal(t, []int{4, 0}, collect(w))
	assert.Equal(t, 1, s.Cursor())
}

func TestScheduler_EmptyIndexSpaceLeavesCursor(t *testing.T) {
	var s Scheduler
	s.Seek(3)

	w := s.Next(0, 4)

	assert.Empty(t, collect(w))
	assert.Equal(t, 3, s.Cursor())
}

func TestScheduler_NonPositiveSizeSelectsNothing(t *testing.T) {
	var s Scheduler
	s.Seek(2)

	assert.Empty(t, collect(s.Next(5, 0)))
	assert.Empty(t, collect(s.Next(5, -3)))
	assert.Equal(t, 2, s.Cursor())
}

func TestScheduler_StaleCursorIsWrapped(t *testing.T) {
	var s Scheduler
	s.Seek(12)

	w := s.Next(5, 2)

	assert.Equal(t, []int{2, 3}, collect(w))
	assert.Equal(t, 4, s.Cursor())
}

func TestScheduler_OversizedWindowRevisitsIndices(t *testing.T) {
	var s Scheduler

	w := s.Next(3, 5)

	assert.Equal(t, []int{0, 1, 2, 0, 1}, collect(w))
	assert.Equal(t, 2, s.Cursor())
}

func TestScheduler_RotationCoversEveryIndex(t *testing.T) {
	for count := 1; count <= 17; count++ {
		for size := 1; size <= count+2; size++ {
			for start := 0; start < count; start++ {
				var s Scheduler
				s.Seek(start)

				seen := make([]bool, count)
				ticks := (count + size - 1) / size
				for range ticks {
					for i := range s.Next(count, size).All() {
						require.GreaterOrEqual(t, i, 0)
						require.Less(t, i, count)
						seen[i] = true
					}
				}

				for i, ok := range seen {
					require.Truef(t, ok, "count=%d size=%d start=%d: index %d never visited", count, size, start, i)
				}
				require.Less(t, s.Cursor(), count)
			}
		}
	}
}

func TestScheduler_Reset(t *testing.T) {
	var s Scheduler
	s.Next(10, 7)
	require.Equal(t, 7, s.Cursor())

	s.Reset()
	assert.Equal(t, 0, s.Cursor())
}
