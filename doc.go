// Package aurora is the Composition Root for the Aurora data store.
//
// It connects the store (in-memory collections, load/recovery and the
// debounced save scheduler) with the storage adapters behind one codec.
//
// Features:
//
//   - **Synchronous mutations**: every operation updates memory first and
//     notifies subscribers before the save is scheduled.
//   - **Debounced persistence**: bursts on one collection coalesce into a
//     single atomic write on a background queue; FlushAll/Close write
//     everything in a fixed order.
//   - **Per-slot recovery**: a missing or corrupt slot falls back to its
//     defaults without affecting the others.
//   - **Soft-deleted journal**: trashed entries are kept for 30 days.
//   - **Pluggable backends**: flat files (JSON or YAML), embedded SQLite or
//     memory, selected with WithAdapter.
//
// Usage:
//
//	s, err := aurora.Open(ctx, "./data",
//		aurora.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	defer s.Close(ctx)
//
//	task, err := s.AddTask(core.Task{Title: "Ship release"})
package aurora
