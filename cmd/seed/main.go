package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"busdesk/internal/seats"
	"busdesk/internal/shared/config"
	"busdesk/internal/shared/database"
	"busdesk/pkg/cache"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Seeder struct {
	layouts seats.LayoutService
}

func main() {
	var busPlate string
	var clean bool

	flagSet := pflag.NewFlagSet("seed", pflag.ExitOnError)
	flagSet.StringVar(&busPlate, "bus-plate", "B 7012 XY", "bus plate the sample layouts are stored for")
	flagSet.BoolVar(&clean, "clean", false, "remove the sample layouts instead of storing them")
	flagSet.Parse(os.Args[1:])

	fmt.Println("🌱 Starting busdesk layout seeder...")

	_ = godotenv.Load()
	cfg := config.Load()
	cfg.Database.Enabled = true

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var cacheService cache.Service
	if rdb := db.GetRedisClient(); rdb != nil {
		cacheService = cache.NewService(rdb)
	}

	repo := seats.NewRepository(db.GetPostgreSQL())
	seeder := &Seeder{
		layouts: seats.NewLayoutService(repo, cacheService, cfg.Redis.LayoutTTL),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if clean {
		fmt.Println("\n🧹 Removing sample layouts...")
		if err := seeder.Clean(ctx, busPlate); err != nil {
			log.Fatalf("Failed to remove layouts: %v", err)
		}
		fmt.Println("✅ Layouts removed")
		return
	}

	fmt.Println("\n🌱 Seeding coach layouts...")
	if err := seeder.SeedAll(ctx, busPlate); err != nil {
		log.Fatalf("Failed to seed layouts: %v", err)
	}
	fmt.Println("\n🎉 Seeding completed! Open a session with busPlate set to try them.")
}

// SeedAll stores a plate-wide layout plus a sleeper layout for the same bus
func (s *Seeder) SeedAll(ctx context.Context, busPlate string) error {
	samples := []struct {
		seatType string
		name     string
		layout   seats.Layout
	}{
		{"", "Standard 2+2", seats.DefaultLayout()},
		{string(seats.SeatTypeSleeper), "Sleeper 1+1", sleeperLayout(8)},
	}

	for _, sample := range samples {
		if err := s.layouts.Save(ctx, busPlate, sample.seatType, sample.name, sample.layout); err != nil {
			return fmt.Errorf("failed to store %s layout: %w", sample.name, err)
		}

		resolved := s.layouts.Resolve(ctx, busPlate, sample.seatType)
		fmt.Printf("✅ %s: %d seats (%d blocked)\n", sample.name, resolved.Capacity(), len(resolved.ReservedIDs()))
		printLayout(resolved)
	}
	return nil
}

// Clean drops the sample layouts and their cached copies
func (s *Seeder) Clean(ctx context.Context, busPlate string) error {
	for _, seatType := range []string{"", string(seats.SeatTypeSleeper)} {
		if err := s.layouts.Delete(ctx, busPlate, seatType); err != nil {
			return err
		}
	}
	return nil
}

// sleeperLayout is a single-deck sleeper: one berth each side of the aisle
func sleeperLayout(rows int) seats.Layout {
	layout := make(seats.Layout, 0, rows)
	for r := 1; r <= rows; r++ {
		left := fmt.Sprintf("%dA", r)
		right := fmt.Sprintf("%dB", r)
		layout = append(layout, seats.LayoutRow{
			{ID: left, Label: left, Type: seats.SeatTypeSleeper},
			nil,
			{ID: right, Label: right, Type: seats.SeatTypeSleeper},
		})
	}
	return layout
}

func printLayout(layout seats.Layout) {
	for _, row := range layout {
		line := "   "
		for _, seat := range row {
			switch {
			case seat == nil:
				line += "    "
			case seat.IsReserved():
				line += fmt.Sprintf("[%-2s]", "XX")
			default:
				line += fmt.Sprintf("[%-2s]", seat.Label)
			}
		}
		fmt.Println(line)
	}
}
