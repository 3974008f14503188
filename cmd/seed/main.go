// Package main provides a tool to seed the badge catalog.
//
// The catalog is read-only at the API; this tool upserts the well-known
// badges into an existing database. Safe to re-run.
//
// Usage:
//
//	DB_PATH=~/planner/data/db go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/id"
	"github.com/plannerapp/planner-server/internal/store"
)

// catalog is the set of badges every installation carries.
var catalog = []domain.Badge{
	{Code: "first-task", Name: "First Steps", Description: "Complete your first task", Icon: "footprints", Threshold: 1},
	{Code: "ten-tasks", Name: "Getting Things Done", Description: "Complete 10 tasks", Icon: "checklist", Threshold: 10},
	{Code: "hundred-tasks", Name: "Centurion", Description: "Complete 100 tasks", Icon: "laurel", Threshold: 100},
	{Code: "week-streak", Name: "Momentum", Description: "Complete a task every day for 7 days", Icon: "flame", Threshold: 7},
	{Code: "month-streak", Name: "Unstoppable", Description: "Complete a task every day for 30 days", Icon: "rocket", Threshold: 30},
	{Code: "first-plan", Name: "Better Together", Description: "Share your first plan", Icon: "people", Threshold: 1},
}

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/planner/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	var created, skipped int
	for _, badge := range catalog {
		if _, err := s.GetBadgeByCode(ctx, badge.Code); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Fatalf("Failed to look up badge %q: %v", badge.Code, err)
		}

		badgeID, err := id.Generate("badge")
		if err != nil {
			log.Fatalf("Failed to generate badge ID: %v", err)
		}
		badge.ID = badgeID

		if err := s.CreateBadge(ctx, &badge); err != nil {
			log.Fatalf("Failed to create badge %q: %v", badge.Code, err)
		}
		created++
		fmt.Printf("  created %-14s %s\n", badge.Code, badge.Name)
	}

	fmt.Printf("Done: %d created, %d already present\n", created, skipped)
}
