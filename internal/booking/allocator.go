package booking

import (
	"context"
	"fmt"
	"time"

	"fleetboard/internal/models"
)

// nextAvailableHorizonMonths bounds the forward scan for a free cycle.
const nextAvailableHorizonMonths = 6

// CampaignCounter is the snapshot read the allocator decides over.
type CampaignCounter interface {
	CountActiveOverlapping(ctx context.Context, truckID string, from, to time.Time, excludeID string) (int, error)
}

// CapacityError rejects an admission whose cycle window is already full.
// NextAvailable is nil when no cycle inside the horizon has free capacity.
type CapacityError struct {
	Window        CycleWindow
	NextAvailable *AvailableCycle
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("cycle %s is fully booked (%d/%d slots)", e.Window, SlotsPerCycle, SlotsPerCycle)
}

// AvailableCycle describes a cycle window with free capacity.
type AvailableCycle struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	CycleNumber    int       `json:"cycle_number"`
	AvailableSlots int       `json:"available_slots"`
}

// CycleOption is one row of the admin-facing availability listing.
type CycleOption struct {
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	CycleNumber    int                `json:"cycle_number"` // 0 for full month
	PackageType    models.PackageType `json:"package_type"`
	Label          string             `json:"label"`
	AvailableSlots int                `json:"available_slots"`
	FullyBooked    bool               `json:"is_fully_booked"`
}

// Allocator admits or rejects prospective bookings against per-cycle
// capacity. The count and the subsequent insert are not atomic; two racing
// admissions can overshoot the cap by one slot.
type Allocator struct {
	campaigns CampaignCounter
	now       func() time.Time
}

func NewAllocator(campaigns CampaignCounter, now func() time.Time) *Allocator {
	if now == nil {
		now = time.Now
	}
	return &Allocator{campaigns: campaigns, now: now}
}

// Admit checks every cycle window the booking would occupy. It returns a
// *CapacityError for the first full window, carrying the next cycle with free
// capacity when one exists. excludeID skips the campaign being updated.
func (a *Allocator) Admit(ctx context.Context, truckID string, start, end time.Time, pkg models.PackageType, excludeID string) error {
	for _, window := range WindowsFor(start, pkg) {
		count, err := a.campaigns.CountActiveOverlapping(ctx, truckID, window.Start, window.End, excludeID)
		if err != nil {
			return fmt.Errorf("count active campaigns for %s: %w", window, err)
		}
		if count >= SlotsPerCycle {
			next, err := a.NextAvailable(ctx, truckID, window.End)
			if err != nil {
				return fmt.Errorf("find next available cycle: %w", err)
			}
			return &CapacityError{Window: window, NextAvailable: next}
		}
	}
	return nil
}

// NextAvailable scans forward month by month, cycle 1 then cycle 2, starting
// the day after the given date, and returns the first cycle that still has
// free capacity. Cycles that have already begun are skipped.
func (a *Allocator) NextAvailable(ctx context.Context, truckID string, after time.Time) (*AvailableCycle, error) {
	from := DayStart(after).AddDate(0, 0, 1)
	now := a.now()

	for monthOffset := 0; monthOffset < nextAvailableHorizonMonths; monthOffset++ {
		month := time.Date(from.Year(), from.Month()+time.Month(monthOffset), 1, 0, 0, 0, 0, from.Location())
		first, second := MonthWindows(month)

		for _, window := range []CycleWindow{first, second} {
			if window.Start.Before(from) || window.Start.Before(now) {
				continue
			}
			count, err := a.campaigns.CountActiveOverlapping(ctx, truckID, window.Start, window.End, "")
			if err != nil {
				return nil, err
			}
			if count < SlotsPerCycle {
				return &AvailableCycle{
					Start:          window.Start,
					End:            window.End,
					CycleNumber:    window.CycleNumber,
					AvailableSlots: SlotsPerCycle - count,
				}, nil
			}
		}
	}

	return nil, nil
}

// AvailableCycles enumerates every bookable cycle in the horizon with its
// remaining capacity: two half-month options plus a full-month option per
// month. Cycles that have begun and fully booked cycles are filtered out.
func (a *Allocator) AvailableCycles(ctx context.Context, truckID string, monthsAhead int) ([]CycleOption, error) {
	if monthsAhead <= 0 {
		monthsAhead = nextAvailableHorizonMonths
	}
	today := DayStart(a.now())

	var options []CycleOption
	for monthOffset := 0; monthOffset < monthsAhead; monthOffset++ {
		month := time.Date(today.Year(), today.Month()+time.Month(monthOffset), 1, 0, 0, 0, 0, today.Location())
		first, second := MonthWindows(month)

		counts := make(map[int]int, 2)
		for _, window := range []CycleWindow{first, second} {
			if window.Start.Before(today) {
				continue
			}
			count, err := a.campaigns.CountActiveOverlapping(ctx, truckID, window.Start, window.End, "")
			if err != nil {
				return nil, err
			}
			counts[window.CycleNumber] = count

			options = appendOption(options, CycleOption{
				Start:       window.Start,
				End:         window.End,
				CycleNumber: window.CycleNumber,
				PackageType: models.PackageHalfMonth,
				Label: fmt.Sprintf("Half Month (%s %d-%d, %d)",
					month.Format("Jan"), window.Start.Day(), window.End.Day(), month.Year()),
				AvailableSlots: SlotsPerCycle - count,
				FullyBooked:    count >= SlotsPerCycle,
			})
		}

		// Full month needs a free slot in both halves; the tighter half wins.
		if !first.Start.Before(today) {
			worst := counts[1]
			if counts[2] > worst {
				worst = counts[2]
			}
			options = appendOption(options, CycleOption{
				Start:       first.Start,
				End:         second.End,
				PackageType: models.PackageFullMonth,
				Label: fmt.Sprintf("Full Month (%s 1-30, %d)",
					month.Format("Jan"), month.Year()),
				AvailableSlots: SlotsPerCycle - worst,
				FullyBooked:    worst >= SlotsPerCycle,
			})
		}
	}

	return options, nil
}

func appendOption(options []CycleOption, opt CycleOption) []CycleOption {
	if opt.AvailableSlots <= 0 {
		return options
	}
	return append(options, opt)
}
