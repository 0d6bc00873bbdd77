package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub/internal/adapters/database"
	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/infrastructure/clients/postgres"
	"github.com/estatehub/estatehub/internal/infrastructure/observability"
	"github.com/estatehub/estatehub/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS properties (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	property_type   TEXT NOT NULL,
	purpose         TEXT NOT NULL,
	price           DOUBLE PRECISION NOT NULL,
	status          TEXT NOT NULL DEFAULT 'pending',
	featured        BOOLEAN NOT NULL DEFAULT FALSE,
	total_area      DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_bedrooms  INTEGER NOT NULL DEFAULT 0,
	total_bathrooms INTEGER NOT NULL DEFAULT 0,
	total_garages   INTEGER NOT NULL DEFAULT 0,
	total_kitchens  INTEGER NOT NULL DEFAULT 0,
	country         TEXT NOT NULL,
	city            TEXT NOT NULL,
	address         TEXT NOT NULL,
	latitude        DOUBLE PRECISION NOT NULL DEFAULT 0,
	longitude       DOUBLE PRECISION NOT NULL DEFAULT 0,
	amenities       TEXT[] NOT NULL DEFAULT '{}',
	thumbnail       TEXT NOT NULL DEFAULT '',
	slider_images   TEXT[] NOT NULL DEFAULT '{}',
	owner_id        TEXT NOT NULL,
	reviews         JSONB NOT NULL DEFAULT '[]',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_properties_status ON properties (status);
CREATE INDEX IF NOT EXISTS idx_properties_city ON properties (city);
CREATE INDEX IF NOT EXISTS idx_properties_price ON properties (price);
CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties (owner_id);
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	observability.InitLogger("estatehub-seed", cfg.Environment)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	ctx := context.Background()

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating properties before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE properties`); err != nil {
			log.Fatal().Err(err).Msg("failed to truncate properties")
		}
	}

	repo := database.NewPropertyAdapter(pgClient)

	seeded := 0
	for _, property := range sampleProperties() {
		approved := property.Status == entities.StatusApproved

		if err := repo.Create(ctx, property); err != nil {
			log.Error().Err(err).Str("title", property.Title).Msg("failed to seed property")
			continue
		}

		// Create stores new listings as pending; promote the ones the
		// fixture marks approved so the public surfaces have data.
		if approved {
			property.Status = entities.StatusApproved
			if err := repo.Update(ctx, property); err != nil {
				log.Error().Err(err).Str("id", property.ID).Msg("failed to approve seeded property")
				continue
			}
		}
		seeded++
	}

	log.Info().Int("count", seeded).Msg("seeding complete")
}

func sampleProperties() []*entities.Property {
	owners := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}

	reviews := func(ratings ...float64) []entities.Review {
		out := make([]entities.Review, 0, len(ratings))
		for _, r := range ratings {
			out = append(out, entities.Review{
				UserID: uuid.NewString(),
				Rating: r,
				Date:   time.Now().AddDate(0, 0, -len(out)),
			})
		}
		return out
	}

	return []*entities.Property{
		{
			Title: "Waterfront Villa with Private Pool", Description: "Five-bedroom villa overlooking the lagoon.",
			PropertyType: "villa", Purpose: entities.PurposeSale, Price: 850000,
			Status: entities.StatusApproved, Featured: true,
			TotalArea: 540, TotalBedrooms: 5, TotalBathrooms: 4, TotalGarages: 2, TotalKitchens: 1,
			Location:  entities.Location{Country: "Nigeria", City: "Lagos", Address: "14 Osborne Rd, Ikoyi", Latitude: 6.455, Longitude: 3.434},
			Amenities: []string{"pool", "garden", "security"},
			OwnerID:   owners[0], Reviews: reviews(5, 4.5, 4),
		},
		{
			Title: "Modern Two-Bedroom Apartment", Description: "Bright apartment close to the business district.",
			PropertyType: "apartment", Purpose: entities.PurposeRent, Price: 24000,
			Status:    entities.StatusApproved,
			TotalArea: 95, TotalBedrooms: 2, TotalBathrooms: 2, TotalKitchens: 1,
			Location:  entities.Location{Country: "Nigeria", City: "Lagos", Address: "3 Adeola Odeku St, Victoria Island", Latitude: 6.428, Longitude: 3.421},
			Amenities: []string{"elevator", "parking"},
			OwnerID:   owners[1], Reviews: reviews(4, 4),
		},
		{
			Title: "Family House with Garden", Description: "Quiet four-bedroom house in a gated estate.",
			PropertyType: "house", Purpose: entities.PurposeSale, Price: 320000,
			Status: entities.StatusApproved, Featured: true,
			TotalArea: 280, TotalBedrooms: 4, TotalBathrooms: 3, TotalGarages: 1, TotalKitchens: 1,
			Location:  entities.Location{Country: "Nigeria", City: "Abuja", Address: "7 Gana St, Maitama", Latitude: 9.083, Longitude: 7.496},
			Amenities: []string{"garden", "security"},
			OwnerID:   owners[0], Reviews: reviews(4.5),
		},
		{
			Title: "Studio Near University", Description: "Compact studio ideal for students.",
			PropertyType: "studio", Purpose: entities.PurposeRent, Price: 8000,
			Status:    entities.StatusApproved,
			TotalArea: 38, TotalBedrooms: 1, TotalBathrooms: 1, TotalKitchens: 1,
			Location: entities.Location{Country: "Nigeria", City: "Ibadan", Address: "22 Bodija Rd", Latitude: 7.434, Longitude: 3.905},
			OwnerID:  owners[2],
		},
		{
			Title: "Penthouse with Skyline View", Description: "Top-floor penthouse, floor-to-ceiling windows.",
			PropertyType: "apartment", Purpose: entities.PurposeSale, Price: 610000,
			Status: entities.StatusApproved, Featured: true,
			TotalArea: 210, TotalBedrooms: 3, TotalBathrooms: 3, TotalGarages: 2, TotalKitchens: 1,
			Location:  entities.Location{Country: "Nigeria", City: "Lagos", Address: "1 Eko Pearl Tower, Eko Atlantic", Latitude: 6.41, Longitude: 3.405},
			Amenities: []string{"gym", "pool", "concierge"},
			OwnerID:   owners[1], Reviews: reviews(5, 5, 4.5, 4),
		},
		{
			Title: "Suburban Bungalow", Description: "Three-bedroom bungalow awaiting moderation.",
			PropertyType: "house", Purpose: entities.PurposeSale, Price: 140000,
			TotalArea: 160, TotalBedrooms: 3, TotalBathrooms: 2, TotalKitchens: 1,
			Location: entities.Location{Country: "Nigeria", City: "Abuja", Address: "12 Kubwa Express", Latitude: 9.152, Longitude: 7.329},
			OwnerID:  owners[2],
		},
	}
}
