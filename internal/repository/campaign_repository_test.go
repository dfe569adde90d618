package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"fleetboard/internal/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestCampaignCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO campaigns")).
		WithArgs("truck-1", "Summer Sale", "SunMart", "vid-1",
			time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
			models.PackageHalfMonth, 1, models.CampaignStatusActive, 1, 4, 2025).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("camp-1", now, now))

	campaign := &models.Campaign{
		TruckID:      "truck-1",
		Name:         "Summer Sale",
		Company:      "SunMart",
		VideoID:      "vid-1",
		StartDate:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		PackageType:  models.PackageHalfMonth,
		PlayOrder:    1,
		Status:       models.CampaignStatusActive,
		BookingCycle: models.BookingCycle{CycleNumber: 1, Month: 4, Year: 2025},
	}
	if err := repo.Create(context.Background(), campaign); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if campaign.ID != "camp-1" {
		t.Fatalf("expected generated id, got %q", campaign.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCountActiveOverlapping(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	// Interval intersection: start_date <= window end AND end_date >= window
	// start. Note the argument order.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("truck-1", to, from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountActiveOverlapping(context.Background(), "truck-1", from, to, "")
	if err != nil {
		t.Fatalf("CountActiveOverlapping: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7, got %d", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCountActiveOverlappingExcludesID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("AND id <> $4")).
		WithArgs("truck-1", to, from, "camp-9").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	count, err := repo.CountActiveOverlapping(context.Background(), "truck-1", from, to, "camp-9")
	if err != nil {
		t.Fatalf("CountActiveOverlapping: %v", err)
	}
	if count != 6 {
		t.Fatalf("expected 6, got %d", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListActiveOnOrdersByPlayOrder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	date := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "truck_id", "name", "company", "video_id", "start_date", "end_date",
		"package_type", "play_order", "status", "cycle_number", "cycle_month", "cycle_year",
		"created_at", "updated_at",
	}).
		AddRow("camp-1", "truck-1", "A", "Co", "vid-1", date, date, "half_month", 1, "active", 1, 4, 2025, now, now).
		AddRow("camp-2", "truck-1", "B", "Co", "vid-2", date, date, "half_month", 2, "active", 1, 4, 2025, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY play_order ASC")).
		WithArgs("truck-1", date).
		WillReturnRows(rows)

	campaigns, err := repo.ListActiveOn(context.Background(), "truck-1", date)
	if err != nil {
		t.Fatalf("ListActiveOn: %v", err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("expected 2 campaigns, got %d", len(campaigns))
	}
	if campaigns[0].PlayOrder != 1 || campaigns[1].PlayOrder != 2 {
		t.Fatalf("unexpected ordering: %+v", campaigns)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestExpireEndedBefore(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	cutoff := time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'expired'")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	expired, err := repo.ExpireEndedBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("ExpireEndedBefore: %v", err)
	}
	if expired != 3 {
		t.Fatalf("expected 3 rows, got %d", expired)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE campaigns")).
		WithArgs(models.CampaignStatusCancelled, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.CampaignStatusCancelled)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
