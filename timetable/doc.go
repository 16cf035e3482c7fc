// Package timetable maintains the reduced in-memory working set derived
// from the full schedule bundle: the pre-joined rows for the monitored
// stops on the active service date, and the Store that refreshes, rebuilds
// and atomically swaps them.
package timetable
