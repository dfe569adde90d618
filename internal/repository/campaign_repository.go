package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

type campaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) interfaces.CampaignRepository {
	return &campaignRepository{db: db}
}

const campaignColumns = `
		id, truck_id, name, company, video_id, start_date, end_date,
		package_type, play_order, status, cycle_number, cycle_month, cycle_year,
		created_at, updated_at
`

func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	query := `
		INSERT INTO campaigns (
			truck_id, name, company, video_id, start_date, end_date,
			package_type, play_order, status, cycle_number, cycle_month, cycle_year
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		campaign.TruckID,
		campaign.Name,
		campaign.Company,
		campaign.VideoID,
		campaign.StartDate,
		campaign.EndDate,
		campaign.PackageType,
		campaign.PlayOrder,
		campaign.Status,
		campaign.BookingCycle.CycleNumber,
		campaign.BookingCycle.Month,
		campaign.BookingCycle.Year,
	).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
	return err
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	var campaign models.Campaign
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&campaign.ID,
		&campaign.TruckID,
		&campaign.Name,
		&campaign.Company,
		&campaign.VideoID,
		&campaign.StartDate,
		&campaign.EndDate,
		&campaign.PackageType,
		&campaign.PlayOrder,
		&campaign.Status,
		&campaign.BookingCycle.CycleNumber,
		&campaign.BookingCycle.Month,
		&campaign.BookingCycle.Year,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	return &campaign, nil
}

// List retrieves a list of campaigns based on the provided filter
func (r *campaignRepository) List(ctx context.Context, filter interfaces.CampaignFilter) ([]*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`

	var args []interface{}
	var whereClauses []string
	argPos := 1

	if filter.TruckID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("truck_id = $%d", argPos))
		args = append(args, filter.TruckID)
		argPos++
	}

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	if !filter.StartDate.IsZero() {
		whereClauses = append(whereClauses, fmt.Sprintf("start_date >= $%d", argPos))
		args = append(args, filter.StartDate)
		argPos++
	}

	if !filter.EndDate.IsZero() {
		whereClauses = append(whereClauses, fmt.Sprintf("end_date <= $%d", argPos))
		args = append(args, filter.EndDate)
		argPos++
	}

	if len(whereClauses) > 0 {
		query += " AND " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY start_date DESC, play_order ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCampaigns(rows)
}

// CountActiveOverlapping counts active campaigns on the truck intersecting
// the [from, to] window, optionally excluding the campaign being updated.
func (r *campaignRepository) CountActiveOverlapping(ctx context.Context, truckID string, from, to time.Time, excludeID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM campaigns
		WHERE truck_id = $1
		  AND status = 'active'
		  AND start_date <= $2
		  AND end_date >= $3
	`
	args := []interface{}{truckID, to, from}

	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListActiveOn returns the active campaigns playing on the given day in
// play_order, the order the truck player loops through them.
func (r *campaignRepository) ListActiveOn(ctx context.Context, truckID string, date time.Time) ([]*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE truck_id = $1
		  AND status = 'active'
		  AND start_date <= $2
		  AND end_date >= $2
		ORDER BY play_order ASC
	`

	rows, err := r.db.QueryContext(ctx, query, truckID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCampaigns(rows)
}

// Update updates a campaign with the given ID
func (r *campaignRepository) Update(ctx context.Context, id string, campaign *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $1,
			company = $2,
			video_id = $3,
			start_date = $4,
			end_date = $5,
			package_type = $6,
			play_order = $7,
			status = $8,
			cycle_number = $9,
			cycle_month = $10,
			cycle_year = $11,
			updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $12
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		campaign.Name,
		campaign.Company,
		campaign.VideoID,
		campaign.StartDate,
		campaign.EndDate,
		campaign.PackageType,
		campaign.PlayOrder,
		campaign.Status,
		campaign.BookingCycle.CycleNumber,
		campaign.BookingCycle.Month,
		campaign.BookingCycle.Year,
		id,
	).Scan(&campaign.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	return nil
}

// UpdateStatus flips a single campaign's status. Campaigns are never hard
// deleted; cancellation goes through here.
func (r *campaignRepository) UpdateStatus(ctx context.Context, id string, status models.CampaignStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE campaigns
		SET status = $1, updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ExpireEndedBefore flips active campaigns ended before the cutoff to expired.
func (r *campaignRepository) ExpireEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE campaigns
		SET status = 'expired', updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE status = 'active' AND end_date < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanCampaigns(rows *sql.Rows) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	for rows.Next() {
		var campaign models.Campaign
		err := rows.Scan(
			&campaign.ID,
			&campaign.TruckID,
			&campaign.Name,
			&campaign.Company,
			&campaign.VideoID,
			&campaign.StartDate,
			&campaign.EndDate,
			&campaign.PackageType,
			&campaign.PlayOrder,
			&campaign.Status,
			&campaign.BookingCycle.CycleNumber,
			&campaign.BookingCycle.Month,
			&campaign.BookingCycle.Year,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, &campaign)
	}
	return campaigns, rows.Err()
}
