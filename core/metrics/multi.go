package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRecommendation forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordRecommendation(ev RecommendationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRecommendation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPlan forwards plan events to sinks that support them.
func (m *MultiSink) RecordPlan(ev PlanEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PlanRecorder); ok {
			if err := rec.RecordPlan(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordLookup forwards lookup events to sinks that support them.
func (m *MultiSink) RecordLookup(ev LookupEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(LookupRecorder); ok {
			if err := rec.RecordLookup(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
