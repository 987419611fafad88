package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"voxresumo/internal/domain"
	"voxresumo/internal/identity"
	"voxresumo/internal/infra"
	"voxresumo/internal/quota"
	"voxresumo/internal/store"
)

// userplan inspects or changes a user's plan directly in the store.
func main() {
	var (
		idFlag   string
		planFlag string
		showFlag bool
	)

	flag.StringVar(&idFlag, "id", "", "user ID to inspect or update")
	flag.StringVar(&planFlag, "plan", "", "plan to assign (free, pro); empty to only inspect")
	flag.BoolVar(&showFlag, "show", false, "print the user's plan and today's usage")
	flag.Parse()

	_ = godotenv.Load()

	userID := strings.TrimSpace(idFlag)
	if userID == "" {
		exitWithError(errors.New("-id is required"))
	}
	plan := strings.TrimSpace(strings.ToLower(planFlag))
	if plan == "" && !showFlag {
		exitWithError(errors.New("nothing to do: pass -plan or -show"))
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		exitWithError(err)
	}
	defer cleanup()

	provider := identity.NewProvider(kv)

	if plan != "" {
		if err := provider.SetPlan(ctx, userID, domain.UserPlan(plan)); err != nil {
			exitWithError(fmt.Errorf("failed to set plan: %w", err))
		}
		fmt.Printf("User %s updated to plan %s\n", userID, plan)
	}

	current, err := provider.Plan(ctx, userID)
	if err != nil {
		exitWithError(fmt.Errorf("failed to read plan: %w", err))
	}
	limits := quota.LimitsFor(current)
	consumed, err := quota.NewLedger(kv, nil).ConsumedSecondsToday(ctx, userID)
	if err != nil {
		exitWithError(fmt.Errorf("failed to read usage: %w", err))
	}

	fmt.Printf("plan=%s\n", current)
	fmt.Printf("per_file_cap_seconds=%.0f\n", limits.PerFileSeconds)
	fmt.Printf("per_day_cap_seconds=%.0f\n", limits.PerDaySeconds)
	fmt.Printf("consumed_seconds_today=%.1f\n", consumed)
}

func openStore(ctx context.Context, cfg *infra.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case infra.StoreBackendMemory:
		return nil, nil, errors.New("the memory backend holds no state to administer")
	case infra.StoreBackendFile:
		s, err := store.NewFile(cfg.StoreFilePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case infra.StoreBackendPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		s, err := store.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
