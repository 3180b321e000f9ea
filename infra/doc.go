// Package infra holds the adapters behind the core interfaces: the paho
// MQTT publisher, Prometheus and InfluxDB metric sinks, zerolog logging and
// OpenTelemetry tracing. Core packages never import infra.
package infra
