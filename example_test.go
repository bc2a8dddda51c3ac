package aurora_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/aurora"
	"github.com/aretw0/aurora/pkg/core"
)

// Example_basic opens a store, adds a task to a seed category and reads it
// back after a reload.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "aurora-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	s, err := aurora.Open(ctx, tmpDir, aurora.WithSampleTasks(false))
	if err != nil {
		log.Fatal(err)
	}

	work, _ := core.FindCategoryByName(s.Categories(), core.CategoryWork)
	task, err := s.AddTask(core.Task{Title: "Ship release", CategoryID: work.ID})
	if err != nil {
		log.Fatal(err)
	}

	// Close flushes every pending save.
	if err := s.Close(ctx); err != nil {
		log.Fatal(err)
	}

	reloaded, err := aurora.Open(ctx, tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer reloaded.Close(ctx)

	got, _ := reloaded.Task(task.ID)
	fmt.Println(got.Title, got.CategoryID == work.ID)
	// Output:
	// Ship release true
}

// Example_snapshot shows the read-only widget view.
func Example_snapshot() {
	tmpDir, err := os.MkdirTemp("", "aurora-widget-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	s, err := aurora.Open(ctx, tmpDir, aurora.WithSampleTasks(false))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := s.AddTask(core.Task{Title: "Water plants", Flagged: true}); err != nil {
		log.Fatal(err)
	}
	if err := s.Close(ctx); err != nil {
		log.Fatal(err)
	}

	snap, err := aurora.ReadSnapshot(ctx, tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	for _, card := range snap.Pinned(snap.ReadAt) {
		fmt.Println(card.SmartList, len(card.Tasks))
	}
	// Output:
	// Flagged 1
}
