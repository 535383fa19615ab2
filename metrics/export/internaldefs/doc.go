// Package internaldefs holds the metric name table shared by the exporter
// implementations. The Prometheus and OTel exporters both render from
// [CounterDefs] so they always agree on names and help text.
//
// This package must not import the exporter packages and must not perform I/O.
package internaldefs
