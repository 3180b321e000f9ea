// Package metrics defines the sinks that record analysis runs. Every sink
// implements MetricsSink; richer sinks also implement the optional recorder
// interfaces and callers check for them with a type assertion. Sinks are built
// from configuration through the factory registry and several sinks are
// combined with NewMultiSink.
package metrics
