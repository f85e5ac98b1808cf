// Package metrics defines the observability contract of recommendation and
// planning runs. A Sink records every recommendation; sinks that also
// implement PlanRecorder or LookupRecorder receive plan rollups and
// compatibility lookup timings. NewSink builds sinks from configuration and
// wraps several of them in a MultiSink.
package metrics
