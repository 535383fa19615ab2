// Package prometheus renders engine counters in Prometheus text exposition
// format. [NewExporter] takes an engine and exposes an [Exporter.Handler] for
// the host to mount on its mux.
//
// The package never registers anything in a global Prometheus registry and
// never mutates engine state.
package prometheus
