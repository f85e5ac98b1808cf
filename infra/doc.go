// Package infra contains technical adapters such as the compatibility
// stores, the MQTT plan publisher and the metrics exporters. These packages
// should depend only on the interfaces defined in the core packages.
package infra
