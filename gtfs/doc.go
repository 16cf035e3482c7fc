// Package gtfs owns the raw static schedule bundle: downloading the zip
// archive, validating and unpacking it into the local cache directory with
// an atomic swap, narrowing stop_times to the monitored stops before the
// full parse, decoding the tabular files into typed records, and resolving
// which service identifiers are active on a calendar day.
//
// The package deals only in whole bundles. Reduction to the per-stop
// working set lives in the timetable package.
package gtfs
