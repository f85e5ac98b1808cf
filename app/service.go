// Package app wires the recommender, the planner and their supporting
// infrastructure into a single service used by the CLI and the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/app/plugins"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/config"
	coreaudit "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/audit"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/inference"
	coremetrics "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/metrics"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
	coremon "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/monitoring"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/planner"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/recommend"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/audit"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/images"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/logger"
	_ "github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/metrics" // metrics sinks
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/mqtt"
)

// PlanPublisher announces finished plans.
type PlanPublisher interface {
	PublishPlan(ctx context.Context, runID string, plan model.Plan) error
	Close() error
}

// ImageFinder resolves a vehicle label to a thumbnail URL.
type ImageFinder interface {
	Thumbnail(ctx context.Context, query string) (string, error)
}

// Deps are the collaborators of a Service. Nil fields fall back to no-op
// implementations, except Store which is required.
type Deps struct {
	Store       compat.Store
	Sink        coremetrics.Sink
	Audit       coreaudit.Store
	Publisher   PlanPublisher
	Images      ImageFinder
	Classifier  *inference.Classifier
	Logger      logger.Logger
	Defaults    model.CostAssumptions
	Concurrency int
	Now         func() time.Time
	NewID       func() string
}

// Service runs recommendation and planning requests.
type Service struct {
	store       compat.Store
	rec         *recommend.Recommender
	classifier  *inference.Classifier
	sink        coremetrics.Sink
	audit       coreaudit.Store
	publisher   PlanPublisher
	images      ImageFinder
	defaults    model.CostAssumptions
	concurrency int
	log         logger.Logger
	now         func() time.Time
	newID       func() string
}

// New builds a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	store, err := plugins.NewStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("compat store: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	defaults, err := cfg.Planner.Defaults()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("planner defaults: %w", err)
	}
	runs, err := audit.NewRotatingJSONLStore(cfg.Audit.Path, cfg.Audit.MaxSizeMB, cfg.Audit.MaxBackups, cfg.Audit.MaxAgeDays)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("audit store: %w", err)
	}
	deps := Deps{
		Store:       store,
		Sink:        sink,
		Audit:       runs,
		Logger:      logger.New("service"),
		Defaults:    defaults,
		Concurrency: cfg.Recommend.Concurrency,
	}
	if cfg.MQTTEnabled() {
		pub, err := mqtt.NewPlanPublisher(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			_ = runs.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		deps.Publisher = pub
	}
	if cfg.Images.Enabled {
		deps.Images = images.New(cfg.Images.Client())
	}
	return NewWithDeps(deps)
}

// NewWithDeps builds a Service from explicit collaborators.
func NewWithDeps(d Deps) (*Service, error) {
	if d.Store == nil {
		return nil, errors.New("compat store is required")
	}
	s := &Service{
		store:       d.Store,
		classifier:  d.Classifier,
		sink:        d.Sink,
		audit:       d.Audit,
		publisher:   d.Publisher,
		images:      d.Images,
		defaults:    d.Defaults,
		concurrency: d.Concurrency,
		log:         d.Logger,
		now:         d.Now,
		newID:       d.NewID,
	}
	if s.classifier == nil {
		s.classifier = inference.New()
	}
	if s.sink == nil {
		s.sink = coremetrics.NopSink{}
	}
	if s.audit == nil {
		s.audit = coreaudit.NopStore{}
	}
	if s.log == nil {
		s.log = logger.NopLogger{}
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	s.rec = recommend.New(&instrumentedFinder{next: d.Store, sink: s.sink, log: s.log, now: s.now})
	return s, nil
}

// Finder exposes the raw compatibility lookup.
func (s *Service) Finder() compat.Finder { return s.store }

// Runs exposes the audit trail.
func (s *Service) Runs() coreaudit.Store { return s.audit }

// RecommendRun is the result of a recommendation run.
type RecommendRun struct {
	RunID   string                     `json:"run_id"`
	Results []model.RecommendedVehicle `json:"results"`
	Summary map[string]int             `json:"summary"`
}

// Recommend classifies and recommends every row concurrently. Results keep
// the input order. A failing lookup aborts the whole run.
func (s *Service) Recommend(ctx context.Context, rows []model.VehicleDescriptor) (RecommendRun, error) {
	run := RecommendRun{RunID: s.newID()}
	results, err := s.recommendAll(ctx, run.RunID, rows)
	rec := coreaudit.RunRecord{RunID: run.RunID, Kind: coreaudit.KindRecommend, Timestamp: s.now().UTC(), Vehicles: len(rows)}
	if err != nil {
		s.fail(ctx, rec, err)
		return RecommendRun{}, err
	}
	run.Results = results
	run.Summary = planner.DeviceSummary(results)
	rec.Devices = run.Summary
	rec.Fallbacks = countFallbacks(results)
	s.appendRun(ctx, rec)
	s.log.Infof("recommend run %s: %d vehicles", run.RunID, len(results))
	return run, nil
}

func (s *Service) recommendAll(ctx context.Context, runID string, rows []model.VehicleDescriptor) ([]model.RecommendedVehicle, error) {
	out := make([]model.RecommendedVehicle, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			v := s.classifier.Fill(row)
			res, rule, err := s.rec.Explain(gctx, v)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			out[i] = model.RecommendedVehicle{Vehicle: v, Result: res}
			if s.images != nil && v.Label() != "" {
				url, err := s.images.Thumbnail(gctx, v.Label())
				if err != nil {
					s.log.Warnf("thumbnail %q: %v", v.Label(), err)
				}
				out[i].VehicleImageURL = url
			}
			if err := s.sink.RecordRecommendation(coremetrics.RecommendationEvent{
				RunID:    runID,
				Category: v.NormalizedCategory(),
				Device:   res.RecommendedDevice,
				Adapter:  res.CANAccessory,
				Rule:     rule,
				Fallback: res.Fallback,
				Time:     s.now(),
			}); err != nil {
				s.log.Warnf("record recommendation: %v", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PlanRequest asks for recommendations plus a deployment plan.
type PlanRequest struct {
	Rows []model.VehicleDescriptor `json:"rows"`
	// Assumptions override the configured defaults field by field.
	Assumptions planner.Overrides `json:"assumptions"`
	IncludePlan *bool             `json:"includePlan,omitempty"`
	IncludeCost *bool             `json:"includeCost,omitempty"`
}

// PlanRun is the result of a planning run. Groups and Costs are omitted
// when excluded by the request.
type PlanRun struct {
	RecommendRun
	GroupBy        model.GroupBy           `json:"group_by"`
	Assumptions    model.CostAssumptions   `json:"assumptions"`
	Groups         []model.DeploymentGroup `json:"groups,omitempty"`
	TotalDays      int                     `json:"total_days"`
	CapacityPerDay int                     `json:"capacity_per_day_minutes"`
	Costs          *model.CostBreakdown    `json:"costs,omitempty"`
}

// Plan recommends every row, groups the results and schedules them.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (PlanRun, error) {
	runID := s.newID()
	rec := coreaudit.RunRecord{RunID: runID, Kind: coreaudit.KindPlan, Timestamp: s.now().UTC(), Vehicles: len(req.Rows)}
	results, err := s.recommendAll(ctx, runID, req.Rows)
	if err != nil {
		s.fail(ctx, rec, err)
		return PlanRun{}, err
	}
	a := req.Assumptions.Apply(s.defaults)
	if a.StartDate.IsZero() {
		a.StartDate = model.NewDate(s.now())
	}
	by := planner.ResolveGroupBy(results, a.PlanBy)
	plan := planner.Build(results, by, a)

	run := PlanRun{
		RecommendRun:   RecommendRun{RunID: runID, Results: results, Summary: planner.DeviceSummary(results)},
		GroupBy:        by,
		Assumptions:    plan.Assumptions,
		TotalDays:      plan.TotalDays,
		CapacityPerDay: plan.CapacityPerDay,
	}
	if include(req.IncludePlan) {
		run.Groups = plan.Groups
	}
	if include(req.IncludeCost) {
		costs := plan.Costs
		run.Costs = &costs
	}

	if pr, ok := s.sink.(coremetrics.PlanRecorder); ok {
		if err := pr.RecordPlan(coremetrics.PlanEvent{
			RunID:     runID,
			GroupBy:   by,
			Vehicles:  len(results),
			Groups:    len(plan.Groups),
			TotalDays: plan.TotalDays,
			TotalCost: plan.Costs.TotalCost,
			Devices:   run.Summary,
			Time:      s.now(),
		}); err != nil {
			s.log.Warnf("record plan: %v", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishPlan(ctx, runID, plan); err != nil {
			s.log.Errorf("publish plan %s: %v", runID, err)
		}
	}

	rec.Fallbacks = countFallbacks(results)
	rec.Devices = run.Summary
	rec.GroupBy = string(by)
	rec.Groups = len(plan.Groups)
	rec.TotalDays = plan.TotalDays
	rec.TotalCost = plan.Costs.TotalCost
	s.appendRun(ctx, rec)
	s.log.Infof("plan run %s: %d vehicles in %d groups over %d days", runID, len(results), len(plan.Groups), plan.TotalDays)
	return run, nil
}

// Close releases the store, the audit trail and the publisher.
func (s *Service) Close() error {
	var errs []error
	if s.publisher != nil {
		errs = append(errs, s.publisher.Close())
	}
	errs = append(errs, s.audit.Close(), s.store.Close())
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return errors.Join(errs...)
}

func (s *Service) fail(ctx context.Context, rec coreaudit.RunRecord, err error) {
	rec.Error = err.Error()
	s.appendRun(ctx, rec)
	s.log.Errorf("%s run %s failed: %v", rec.Kind, rec.RunID, err)
	coremon.Capture(err, "module", "service", "run_id", rec.RunID, "kind", string(rec.Kind))
}

func (s *Service) appendRun(ctx context.Context, rec coreaudit.RunRecord) {
	if err := s.audit.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.log.Warnf("audit append: %v", err)
	}
}

func countFallbacks(rows []model.RecommendedVehicle) int {
	n := 0
	for _, r := range rows {
		if r.Result.Fallback {
			n++
		}
	}
	return n
}

func include(p *bool) bool { return p == nil || *p }
