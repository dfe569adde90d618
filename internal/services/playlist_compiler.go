package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"fleetboard/internal/booking"
	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

// VideoURLResolver turns a stored video row into the URL the truck player
// downloads. The S3 resolver lives in video_resolver.go; tests plug in a stub.
type VideoURLResolver interface {
	ResolveURL(ctx context.Context, video *models.Video) (string, error)
}

// PlaylistCompiler assembles the ordered playlist for a truck and day from
// the currently active campaigns and persists it by atomic upsert.
type PlaylistCompiler struct {
	campaigns interfaces.CampaignRepository
	videos    interfaces.VideoRepository
	playlists interfaces.PlaylistRepository
	resolver  VideoURLResolver
	now       func() time.Time
}

func NewPlaylistCompiler(
	campaigns interfaces.CampaignRepository,
	videos interfaces.VideoRepository,
	playlists interfaces.PlaylistRepository,
	resolver VideoURLResolver,
	now func() time.Time,
) *PlaylistCompiler {
	if now == nil {
		now = time.Now
	}
	return &PlaylistCompiler{
		campaigns: campaigns,
		videos:    videos,
		playlists: playlists,
		resolver:  resolver,
		now:       now,
	}
}

// Compile builds and upserts the playlist for the truck on the given day.
// Items follow play_order ascending. The version token is generation time
// plus item count, so it changes on every compilation even when the content
// is unchanged; push_status always resets to pending.
func (c *PlaylistCompiler) Compile(ctx context.Context, truckID string, date time.Time) (*models.Playlist, error) {
	date = booking.DayStart(date)

	campaigns, err := c.campaigns.ListActiveOn(ctx, truckID, date)
	if err != nil {
		return nil, fmt.Errorf("list active campaigns: %w", err)
	}

	items := make(models.PlaylistItems, 0, len(campaigns))
	for _, campaign := range campaigns {
		video, err := c.videos.GetByID(ctx, campaign.VideoID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// A campaign pointing at a deleted video must not sink the
				// whole playlist; skip the item.
				log.Printf("playlist compile: campaign %s references missing video %s, skipping", campaign.ID, campaign.VideoID)
				continue
			}
			return nil, fmt.Errorf("fetch video %s: %w", campaign.VideoID, err)
		}

		url, err := c.resolver.ResolveURL(ctx, video)
		if err != nil {
			return nil, fmt.Errorf("resolve url for video %s: %w", video.ID, err)
		}

		items = append(items, models.PlaylistItem{
			ID:        campaign.ID,
			Type:      "video",
			URL:       url,
			Checksum:  video.Checksum,
			Duration:  video.DurationSec,
			Loop:      true,
			PlayOrder: campaign.PlayOrder,
		})
	}

	playlist := &models.Playlist{
		TruckID:    truckID,
		Date:       date,
		Items:      items,
		Version:    fmt.Sprintf("%d-%d", c.now().UnixMilli(), len(items)),
		PushStatus: models.PushStatusPending,
	}

	if err := c.playlists.Upsert(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// GetOrGenerate returns the stored playlist for the day, compiling one on a
// miss. This is the idempotent variant the hardware pull endpoint uses.
func (c *PlaylistCompiler) GetOrGenerate(ctx context.Context, truckID string, date time.Time) (*models.Playlist, error) {
	date = booking.DayStart(date)

	playlist, err := c.playlists.GetByTruckAndDate(ctx, truckID, date)
	if err == nil {
		return playlist, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return c.Compile(ctx, truckID, date)
}
