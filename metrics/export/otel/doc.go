// Package otel exposes engine counters as OpenTelemetry observable
// instruments. [NewExporter] registers an Int64ObservableCounter per engine
// metric plus the dispatcher drop counters; a single callback reads one
// snapshot per collection cycle.
//
// Callers supply the Meter; this package never owns a MeterProvider and never
// mutates engine state.
package otel
