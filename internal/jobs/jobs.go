// Package jobs holds the recurring maintenance tasks: campaign expiry,
// playlist generation, the truck status sweep and the weekly cleanups. Every
// task is idempotent and independently runnable outside its timer.
package jobs

import (
	"context"
	"log"
	"time"

	"fleetboard/internal/booking"
	"fleetboard/internal/interfaces"
	"fleetboard/internal/queue"
	"fleetboard/internal/services"
)

const (
	auditRetention    = 3 * 30 * 24 * time.Hour // ~3 months
	playlistRetention = 30 * 24 * time.Hour     // ~1 month
)

type Runner struct {
	campaigns interfaces.CampaignRepository
	trucks    interfaces.TruckRepository
	playlists interfaces.PlaylistRepository
	auditLogs interfaces.AuditLogRepository
	compiler  *services.PlaylistCompiler
	liveness  *services.LivenessTracker
	events    *queue.PlaylistEventPublisher
	loc       *time.Location
	now       func() time.Time
}

func NewRunner(
	campaigns interfaces.CampaignRepository,
	trucks interfaces.TruckRepository,
	playlists interfaces.PlaylistRepository,
	auditLogs interfaces.AuditLogRepository,
	compiler *services.PlaylistCompiler,
	liveness *services.LivenessTracker,
	events *queue.PlaylistEventPublisher,
	loc *time.Location,
	now func() time.Time,
) *Runner {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Runner{
		campaigns: campaigns,
		trucks:    trucks,
		playlists: playlists,
		auditLogs: auditLogs,
		compiler:  compiler,
		liveness:  liveness,
		events:    events,
		loc:       loc,
		now:       now,
	}
}

// ExpireCampaigns flips active campaigns whose end date has passed.
func (r *Runner) ExpireCampaigns(ctx context.Context) error {
	today := booking.DayStart(r.now().In(r.loc))

	expired, err := r.campaigns.ExpireEndedBefore(ctx, today)
	if err != nil {
		log.Printf("campaign expiry job error: %v", err)
		return err
	}

	if expired > 0 {
		log.Printf("expired %d campaigns", expired)
	} else {
		log.Println("no campaigns to expire")
	}
	return nil
}

// GeneratePlaylists recompiles tomorrow's playlist for every truck. A failure
// on one truck is logged and the rest of the fleet still gets a playlist.
func (r *Runner) GeneratePlaylists(ctx context.Context) error {
	tomorrow := booking.DayStart(r.now().In(r.loc)).AddDate(0, 0, 1)

	trucks, err := r.trucks.List(ctx, 0, 0)
	if err != nil {
		log.Printf("playlist generation job error: %v", err)
		return err
	}

	for _, truck := range trucks {
		playlist, err := r.compiler.Compile(ctx, truck.ID, tomorrow)
		if err != nil {
			log.Printf("error generating playlist for truck %s: %v", truck.TruckNumber, err)
			continue
		}
		log.Printf("generated playlist for truck %s: %d items", truck.TruckNumber, len(playlist.Items))

		if err := r.events.PublishPlaylistUpdated(truck.ID, playlist.Date, playlist.Version); err != nil {
			log.Printf("error publishing playlist event for truck %s: %v", truck.TruckNumber, err)
		}
	}

	log.Println("playlist generation job completed")
	return nil
}

// SweepTruckStatus demotes trucks with stale heartbeats to offline.
func (r *Runner) SweepTruckStatus(ctx context.Context) error {
	modified, err := r.liveness.SweepStale(ctx)
	if err != nil {
		log.Printf("truck status sweep error: %v", err)
		return err
	}

	if modified > 0 {
		log.Printf("marked %d trucks offline", modified)
	}
	return nil
}

// CleanupAuditLogs deletes audit records older than three months.
func (r *Runner) CleanupAuditLogs(ctx context.Context) error {
	cutoff := r.now().Add(-auditRetention)

	deleted, err := r.auditLogs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("audit log cleanup error: %v", err)
		return err
	}

	log.Printf("cleaned up %d old audit logs", deleted)
	return nil
}

// CleanupPlaylists deletes synced playlists older than one month. Pending and
// failed playlists are kept for inspection.
func (r *Runner) CleanupPlaylists(ctx context.Context) error {
	cutoff := booking.DayStart(r.now().In(r.loc)).Add(-playlistRetention)

	deleted, err := r.playlists.DeleteSyncedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("playlist cleanup error: %v", err)
		return err
	}

	log.Printf("cleaned up %d old playlists", deleted)
	return nil
}
