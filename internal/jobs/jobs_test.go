package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
	"fleetboard/internal/services"
)

type fakeCampaignRepo struct {
	interfaces.CampaignRepository
	expired       int64
	expireCutoff  time.Time
	expireErr     error
	failForTrucks map[string]bool
	activeDates   []time.Time
}

func (f *fakeCampaignRepo) ExpireEndedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.expireCutoff = cutoff
	return f.expired, f.expireErr
}

func (f *fakeCampaignRepo) ListActiveOn(_ context.Context, truckID string, date time.Time) ([]*models.Campaign, error) {
	if f.failForTrucks[truckID] {
		return nil, errors.New("db down")
	}
	f.activeDates = append(f.activeDates, date)
	return nil, nil
}

type fakeTruckRepo struct {
	interfaces.TruckRepository
	trucks []*models.Truck
	swept  int64
}

func (f *fakeTruckRepo) List(_ context.Context, _, _ int) ([]*models.Truck, error) {
	return f.trucks, nil
}

func (f *fakeTruckRepo) MarkOfflineStaleSince(_ context.Context, _ time.Time) (int64, error) {
	return f.swept, nil
}

type fakeVideoRepo struct {
	interfaces.VideoRepository
}

type fakePlaylistRepo struct {
	interfaces.PlaylistRepository
	upserts       []*models.Playlist
	deleteCutoff  time.Time
	deleted       int64
}

func (f *fakePlaylistRepo) Upsert(_ context.Context, playlist *models.Playlist) error {
	f.upserts = append(f.upserts, playlist)
	return nil
}

func (f *fakePlaylistRepo) DeleteSyncedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.deleteCutoff = cutoff
	return f.deleted, nil
}

type fakeAuditRepo struct {
	interfaces.AuditLogRepository
	deleteCutoff time.Time
}

func (f *fakeAuditRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.deleteCutoff = cutoff
	return 0, nil
}

type stubResolver struct{}

func (stubResolver) ResolveURL(_ context.Context, video *models.Video) (string, error) {
	return video.URL, nil
}

func newTestRunner(campaigns *fakeCampaignRepo, trucks *fakeTruckRepo, playlists *fakePlaylistRepo, audit *fakeAuditRepo, now time.Time) *Runner {
	clock := func() time.Time { return now }
	compiler := services.NewPlaylistCompiler(campaigns, &fakeVideoRepo{}, playlists, stubResolver{}, clock)
	liveness := services.NewLivenessTracker(trucks, clock)
	return NewRunner(campaigns, trucks, playlists, audit, compiler, liveness, nil, time.UTC, clock)
}

func TestExpireCampaigns(t *testing.T) {
	now := time.Date(2025, time.April, 16, 0, 0, 5, 0, time.UTC)
	campaigns := &fakeCampaignRepo{expired: 3}
	runner := newTestRunner(campaigns, &fakeTruckRepo{}, &fakePlaylistRepo{}, &fakeAuditRepo{}, now)

	require.NoError(t, runner.ExpireCampaigns(context.Background()))
	assert.Equal(t, time.Date(2025, time.April, 16, 0, 0, 0, 0, time.UTC), campaigns.expireCutoff)
}

func TestExpireCampaignsPropagatesErrors(t *testing.T) {
	campaigns := &fakeCampaignRepo{expireErr: errors.New("db down")}
	runner := newTestRunner(campaigns, &fakeTruckRepo{}, &fakePlaylistRepo{}, &fakeAuditRepo{}, time.Now())

	assert.Error(t, runner.ExpireCampaigns(context.Background()))
}

func TestGeneratePlaylists(t *testing.T) {
	now := time.Date(2025, time.April, 15, 17, 0, 0, 0, time.UTC)
	campaigns := &fakeCampaignRepo{}
	trucks := &fakeTruckRepo{trucks: []*models.Truck{
		{ID: "truck-1", TruckNumber: "TS-09-AB-1234"},
		{ID: "truck-2", TruckNumber: "TS-09-CD-5678"},
	}}
	playlists := &fakePlaylistRepo{}
	runner := newTestRunner(campaigns, trucks, playlists, &fakeAuditRepo{}, now)

	require.NoError(t, runner.GeneratePlaylists(context.Background()))

	// One playlist per truck, dated tomorrow.
	require.Len(t, playlists.upserts, 2)
	tomorrow := time.Date(2025, time.April, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, tomorrow, playlists.upserts[0].Date)
	assert.Equal(t, "truck-1", playlists.upserts[0].TruckID)
	assert.Equal(t, "truck-2", playlists.upserts[1].TruckID)
}

func TestGeneratePlaylistsContinuesPastFailures(t *testing.T) {
	campaigns := &fakeCampaignRepo{failForTrucks: map[string]bool{"truck-1": true}}
	trucks := &fakeTruckRepo{trucks: []*models.Truck{
		{ID: "truck-1", TruckNumber: "TS-09-AB-1234"},
		{ID: "truck-2", TruckNumber: "TS-09-CD-5678"},
	}}
	playlists := &fakePlaylistRepo{}
	runner := newTestRunner(campaigns, trucks, playlists, &fakeAuditRepo{}, time.Now())

	require.NoError(t, runner.GeneratePlaylists(context.Background()))
	require.Len(t, playlists.upserts, 1)
	assert.Equal(t, "truck-2", playlists.upserts[0].TruckID)
}

func TestSweepTruckStatus(t *testing.T) {
	trucks := &fakeTruckRepo{swept: 2}
	runner := newTestRunner(&fakeCampaignRepo{}, trucks, &fakePlaylistRepo{}, &fakeAuditRepo{}, time.Now())

	assert.NoError(t, runner.SweepTruckStatus(context.Background()))
}

func TestCleanupAuditLogs(t *testing.T) {
	now := time.Date(2025, time.April, 1, 2, 0, 0, 0, time.UTC)
	audit := &fakeAuditRepo{}
	runner := newTestRunner(&fakeCampaignRepo{}, &fakeTruckRepo{}, &fakePlaylistRepo{}, audit, now)

	require.NoError(t, runner.CleanupAuditLogs(context.Background()))
	assert.Equal(t, now.Add(-auditRetention), audit.deleteCutoff)
}

func TestCleanupPlaylists(t *testing.T) {
	now := time.Date(2025, time.April, 15, 3, 0, 0, 0, time.UTC)
	playlists := &fakePlaylistRepo{deleted: 4}
	runner := newTestRunner(&fakeCampaignRepo{}, &fakeTruckRepo{}, playlists, &fakeAuditRepo{}, now)

	require.NoError(t, runner.CleanupPlaylists(context.Background()))
	// Day boundary first, then one month back.
	assert.Equal(t, time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC), playlists.deleteCutoff)
}
