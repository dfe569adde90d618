// cmd/seeder/main.go
//
// Seeds a development database with a small fleet: two cities, three trucks,
// a handful of videos and a few campaigns on the current booking cycle.
package main

import (
	"context"
	"log"
	"time"

	_ "github.com/lib/pq"

	"fleetboard/internal/booking"
	"fleetboard/internal/config"
	"fleetboard/internal/db"
	"fleetboard/internal/db/migrations"
	"fleetboard/internal/models"
	"fleetboard/internal/repository"
)

func main() {
	cfg := config.Load()

	if err := db.CreateDatabaseIfNotExists(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to ensure database exists: %v", err)
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := migrations.RunMigrations(database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	cities := repository.NewCityRepository(database.DB)
	trucks := repository.NewTruckRepository(database.DB)
	videos := repository.NewVideoRepository(database.DB)
	campaigns := repository.NewCampaignRepository(database.DB)

	hyderabad := &models.City{Name: "Hyderabad", State: "Telangana"}
	bangalore := &models.City{Name: "Bangalore", State: "Karnataka"}
	for _, city := range []*models.City{hyderabad, bangalore} {
		if err := cities.Create(ctx, city); err != nil {
			log.Fatalf("Failed to seed city %s: %v", city.Name, err)
		}
		log.Printf("Seeded city %s (%s)", city.Name, city.ID)
	}

	seedTrucks := []*models.Truck{
		{CityID: hyderabad.ID, TruckNumber: "TS-09-AB-1234", RouteName: "Hitech City Loop", ControllerID: "ctrl-hyd-001"},
		{CityID: hyderabad.ID, TruckNumber: "TS-09-CD-5678", RouteName: "Banjara Hills", ControllerID: "ctrl-hyd-002"},
		{CityID: bangalore.ID, TruckNumber: "KA-01-EF-9012", RouteName: "Koramangala Circuit", ControllerID: "ctrl-blr-001"},
	}
	for _, truck := range seedTrucks {
		if err := trucks.Create(ctx, truck); err != nil {
			log.Fatalf("Failed to seed truck %s: %v", truck.TruckNumber, err)
		}
		log.Printf("Seeded truck %s (%s)", truck.TruckNumber, truck.ID)
	}

	seedVideos := []*models.Video{
		{Title: "Summer Sale 15s", ObjectKey: "videos/seed-summer-sale.mp4", DurationSec: 15, Status: models.VideoStatusReady},
		{Title: "Grand Opening 20s", ObjectKey: "videos/seed-grand-opening.mp4", DurationSec: 20, Status: models.VideoStatusReady},
		{Title: "Festive Offer 10s", ObjectKey: "videos/seed-festive-offer.mp4", DurationSec: 10, Status: models.VideoStatusReady},
	}
	for _, video := range seedVideos {
		if err := videos.Create(ctx, video); err != nil {
			log.Fatalf("Failed to seed video %s: %v", video.Title, err)
		}
		log.Printf("Seeded video %s (%s)", video.Title, video.ID)
	}

	// Book three campaigns on the first truck, starting on the cycle
	// boundary that today falls in.
	now := time.Now().In(cfg.Location())
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if now.Day() >= 16 {
		start = time.Date(now.Year(), now.Month(), 16, 0, 0, 0, 0, time.UTC)
	}

	seedCampaigns := []struct {
		name    string
		company string
		video   *models.Video
		pkg     models.PackageType
	}{
		{"Summer Sale Blitz", "SunMart Retail", seedVideos[0], models.PackageHalfMonth},
		{"Grand Opening Push", "Urban Eats", seedVideos[1], models.PackageFullMonth},
		{"Festive Teaser", "Lotus Jewels", seedVideos[2], models.PackageHalfMonth},
	}
	for i, sc := range seedCampaigns {
		end, cycle, err := booking.Validate(start, sc.pkg)
		if err != nil {
			log.Fatalf("Seed campaign %s has an invalid booking: %v", sc.name, err)
		}
		campaign := &models.Campaign{
			TruckID:      seedTrucks[0].ID,
			Name:         sc.name,
			Company:      sc.company,
			VideoID:      sc.video.ID,
			StartDate:    start,
			EndDate:      end,
			PackageType:  sc.pkg,
			PlayOrder:    i + 1,
			Status:       models.CampaignStatusActive,
			BookingCycle: cycle,
		}
		if err := campaigns.Create(ctx, campaign); err != nil {
			log.Fatalf("Failed to seed campaign %s: %v", sc.name, err)
		}
		log.Printf("Seeded campaign %s (%s)", sc.name, campaign.ID)
	}

	log.Println("Seeding complete")
}
