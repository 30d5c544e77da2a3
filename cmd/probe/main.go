// probe polls the booking service's seat locks for one trip the same way a
// booking session does, and prints what changed between polls. Useful for
// checking the upstream contract and poll latency without a client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"busdesk/internal/availability"
	"busdesk/internal/seats"
	"busdesk/internal/shared/config"
	"busdesk/internal/upstream"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type pollResult struct {
	Latency  time.Duration
	Reserved []string
	Err      error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()

	var query availability.Query
	var baseURL, token string
	var interval time.Duration
	var count int

	flagSet := pflag.NewFlagSet("probe", pflag.ContinueOnError)
	flagSet.StringVar(&query.Route, "route", "", "trip route, e.g. Jakarta-Bandung")
	flagSet.StringVar(&query.TravelDate, "date", "", "travel date, e.g. 2026-11-02")
	flagSet.StringVar(&query.BusPlate, "bus-plate", "", "optional bus plate")
	flagSet.StringVar(&query.SeatType, "seat-type", "", "optional seat class")
	flagSet.StringVar(&baseURL, "upstream", cfg.Upstream.BaseURL, "booking service API root")
	flagSet.StringVar(&token, "token", "", "access token to forward (guest when empty)")
	flagSet.DurationVar(&interval, "interval", cfg.Sync.PollInterval, "time between polls")
	flagSet.IntVar(&count, "count", 0, "stop after this many polls (0 polls until interrupted)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if query.Route == "" || query.TravelDate == "" {
		return fmt.Errorf("--route and --date are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := availability.NewClient(upstream.NewClient(baseURL, cfg.Upstream.Timeout))
	creds := upstream.Credentials{AccessToken: token}
	capacity := seats.DefaultLayout().Capacity()

	fmt.Printf("🔍 Probing %s on %s via %s every %v\n", query.Route, query.TravelDate, baseURL, interval)

	var results []pollResult
	var previous []string
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result := poll(ctx, client, creds, query)
		results = append(results, result)

		if result.Err != nil {
			fmt.Printf("   ❌ %v (%v)\n", upstream.Message(result.Err, result.Err.Error()), result.Latency)
		} else {
			taken, released := diff(previous, result.Reserved)
			fmt.Printf("   ✅ %d/%d reserved in %v", len(result.Reserved), capacity, result.Latency)
			if len(taken) > 0 {
				fmt.Printf("  +%v", taken)
			}
			if len(released) > 0 {
				fmt.Printf("  -%v", released)
			}
			fmt.Println()
			previous = result.Reserved
		}

		if count > 0 && len(results) >= count {
			break
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			printReport(results)
			return nil
		}
	}

	printReport(results)
	return nil
}

func poll(ctx context.Context, client availability.Client, creds upstream.Credentials, query availability.Query) pollResult {
	start := time.Now()
	snapshot, err := client.GetSeatAvailability(ctx, creds, query)
	result := pollResult{Latency: time.Since(start), Err: err}
	if err == nil {
		result.Reserved = append([]string{}, snapshot.ReservedSeatIDs...)
		sort.Strings(result.Reserved)
	}
	return result
}

// diff returns the seats that became reserved and those that were released
func diff(before, after []string) (taken, released []string) {
	was := make(map[string]bool, len(before))
	for _, id := range before {
		was[id] = true
	}
	now := make(map[string]bool, len(after))
	for _, id := range after {
		now[id] = true
		if !was[id] {
			taken = append(taken, id)
		}
	}
	for _, id := range before {
		if !now[id] {
			released = append(released, id)
		}
	}
	return taken, released
}

func printReport(results []pollResult) {
	fmt.Println("\n📊 PROBE REPORT")
	fmt.Println("===============")

	var failed int
	var total, slowest time.Duration
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		total += r.Latency
		if r.Latency > slowest {
			slowest = r.Latency
		}
	}
	if len(results) == 0 {
		return
	}
	fmt.Printf("Polls: %d\n", len(results))
	fmt.Printf("Failed: %d (%.1f%%)\n", failed, float64(failed)/float64(len(results))*100)
	fmt.Printf("Average latency: %v\n", total/time.Duration(len(results)))
	fmt.Printf("Slowest poll: %v\n", slowest)
}
