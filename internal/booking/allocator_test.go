package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetboard/internal/models"
)

// fakeCounter maps window starts to active-campaign counts.
type fakeCounter struct {
	counts    map[string]int
	err       error
	excludeID string
}

func (f *fakeCounter) CountActiveOverlapping(_ context.Context, _ string, from, _ time.Time, excludeID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.excludeID = excludeID
	return f.counts[from.Format("2006-01-02")], nil
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAdmit(t *testing.T) {
	now := fixedNow(date(2025, time.March, 20))

	t.Run("admits when slots remain", func(t *testing.T) {
		counter := &fakeCounter{counts: map[string]int{"2025-04-01": 6}}
		alloc := NewAllocator(counter, now)

		err := alloc.Admit(context.Background(), "truck-1",
			date(2025, time.April, 1), date(2025, time.April, 15), models.PackageHalfMonth, "")
		assert.NoError(t, err)
	})

	t.Run("rejects the eighth campaign", func(t *testing.T) {
		counter := &fakeCounter{counts: map[string]int{
			"2025-04-01": 7,
			"2025-04-16": 3,
		}}
		alloc := NewAllocator(counter, now)

		err := alloc.Admit(context.Background(), "truck-1",
			date(2025, time.April, 1), date(2025, time.April, 15), models.PackageHalfMonth, "")
		require.Error(t, err)

		var capErr *CapacityError
		require.True(t, errors.As(err, &capErr))
		assert.Equal(t, 1, capErr.Window.CycleNumber)
		require.NotNil(t, capErr.NextAvailable)
		assert.Equal(t, date(2025, time.April, 16), capErr.NextAvailable.Start)
		assert.Equal(t, date(2025, time.April, 30), capErr.NextAvailable.End)
		assert.Equal(t, 2, capErr.NextAvailable.CycleNumber)
		assert.Equal(t, 4, capErr.NextAvailable.AvailableSlots)
	})

	t.Run("full month checks both halves", func(t *testing.T) {
		counter := &fakeCounter{counts: map[string]int{
			"2025-04-01": 2,
			"2025-04-16": 7,
			"2025-05-01": 1,
		}}
		alloc := NewAllocator(counter, now)

		err := alloc.Admit(context.Background(), "truck-1",
			date(2025, time.April, 1), date(2025, time.April, 30), models.PackageFullMonth, "")
		require.Error(t, err)

		var capErr *CapacityError
		require.True(t, errors.As(err, &capErr))
		assert.Equal(t, 2, capErr.Window.CycleNumber)
		require.NotNil(t, capErr.NextAvailable)
		assert.Equal(t, date(2025, time.May, 1), capErr.NextAvailable.Start)
	})

	t.Run("passes the exclude id through", func(t *testing.T) {
		counter := &fakeCounter{counts: map[string]int{"2025-04-01": 6}}
		alloc := NewAllocator(counter, now)

		err := alloc.Admit(context.Background(), "truck-1",
			date(2025, time.April, 1), date(2025, time.April, 15), models.PackageHalfMonth, "camp-9")
		require.NoError(t, err)
		assert.Equal(t, "camp-9", counter.excludeID)
	})

	t.Run("propagates counter errors", func(t *testing.T) {
		counter := &fakeCounter{err: errors.New("db down")}
		alloc := NewAllocator(counter, now)

		err := alloc.Admit(context.Background(), "truck-1",
			date(2025, time.April, 1), date(2025, time.April, 15), models.PackageHalfMonth, "")
		require.Error(t, err)

		var capErr *CapacityError
		assert.False(t, errors.As(err, &capErr))
	})
}

func TestNextAvailable(t *testing.T) {
	t.Run("skips cycles that have already begun", func(t *testing.T) {
		// Mid-cycle on Apr 20: Apr 16 window has begun, May 1 is next.
		counter := &fakeCounter{counts: map[string]int{}}
		alloc := NewAllocator(counter, fixedNow(date(2025, time.April, 20)))

		next, err := alloc.NextAvailable(context.Background(), "truck-1", date(2025, time.April, 15))
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, date(2025, time.May, 1), next.Start)
		assert.Equal(t, SlotsPerCycle, next.AvailableSlots)
	})

	t.Run("skips full cycles until a free one", func(t *testing.T) {
		counter := &fakeCounter{counts: map[string]int{
			"2025-04-16": 7,
			"2025-05-01": 7,
			"2025-05-16": 5,
		}}
		alloc := NewAllocator(counter, fixedNow(date(2025, time.March, 20)))

		next, err := alloc.NextAvailable(context.Background(), "truck-1", date(2025, time.April, 15))
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, date(2025, time.May, 16), next.Start)
		assert.Equal(t, 2, next.AvailableSlots)
	})

	t.Run("nil when the horizon is fully booked", func(t *testing.T) {
		counts := map[string]int{}
		cursor := date(2025, time.April, 1)
		for i := 0; i < 14; i++ {
			counts[cursor.Format("2006-01-02")] = 7
			if cursor.Day() == 1 {
				cursor = time.Date(cursor.Year(), cursor.Month(), 16, 0, 0, 0, 0, time.UTC)
			} else {
				cursor = time.Date(cursor.Year(), cursor.Month()+1, 1, 0, 0, 0, 0, time.UTC)
			}
		}
		counter := &fakeCounter{counts: counts}
		alloc := NewAllocator(counter, fixedNow(date(2025, time.March, 20)))

		next, err := alloc.NextAvailable(context.Background(), "truck-1", date(2025, time.March, 30))
		require.NoError(t, err)
		assert.Nil(t, next)
	})
}

func TestAvailableCycles(t *testing.T) {
	t.Run("filters fully booked and begun cycles", func(t *testing.T) {
		counter := &fakeCounter{counts: map[string]int{
			"2025-04-16": 7,
			"2025-05-01": 3,
			"2025-05-16": 1,
		}}
		alloc := NewAllocator(counter, fixedNow(date(2025, time.April, 10)))

		options, err := alloc.AvailableCycles(context.Background(), "truck-1", 2)
		require.NoError(t, err)

		// April: cycle 1 has begun, cycle 2 is full, full month excluded
		// because cycle 1 has begun. May: both halves plus full month.
		require.Len(t, options, 3)

		assert.Equal(t, date(2025, time.May, 1), options[0].Start)
		assert.Equal(t, models.PackageHalfMonth, options[0].PackageType)
		assert.Equal(t, 4, options[0].AvailableSlots)

		assert.Equal(t, date(2025, time.May, 16), options[1].Start)
		assert.Equal(t, 6, options[1].AvailableSlots)

		assert.Equal(t, models.PackageFullMonth, options[2].PackageType)
		assert.Equal(t, date(2025, time.May, 1), options[2].Start)
		assert.Equal(t, date(2025, time.May, 30), options[2].End)
		assert.Equal(t, 4, options[2].AvailableSlots) // tighter half wins
	})
}
