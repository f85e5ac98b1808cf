package app

import (
	"context"
	"time"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	coremetrics "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/metrics"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/logger"
)

// instrumentedFinder times every lookup and reports it to the sink.
type instrumentedFinder struct {
	next compat.Finder
	sink coremetrics.Sink
	log  logger.Logger
	now  func() time.Time
}

func (f *instrumentedFinder) FindCompatible(ctx context.Context, adapter, brand, mdl string) ([]model.CompatibilityRecord, error) {
	start := f.now()
	recs, err := f.next.FindCompatible(ctx, adapter, brand, mdl)
	if lr, ok := f.sink.(coremetrics.LookupRecorder); ok {
		ev := coremetrics.LookupEvent{
			Adapter:  adapter,
			Matches:  len(recs),
			Failed:   err != nil,
			Duration: f.now().Sub(start),
			Time:     start,
		}
		if rerr := lr.RecordLookup(ev); rerr != nil {
			f.log.Warnf("record lookup: %v", rerr)
		}
	}
	f.log.Debugw("compat lookup", map[string]any{
		"adapter": adapter,
		"brand":   brand,
		"model":   mdl,
		"matches": len(recs),
	})
	return recs, err
}
