// Package service wires the scoring engine, the calibrator and the venture
// store into the operations served by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/venturecast/internal/adapters/mq/queue"
	"github.com/okian/venturecast/internal/adapters/mq/worker"
	"github.com/okian/venturecast/internal/adapters/repository"
	"github.com/okian/venturecast/internal/domain/calibration"
	"github.com/okian/venturecast/internal/domain/model"
	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/internal/domain/types"
	"github.com/okian/venturecast/internal/seed"
	"github.com/okian/venturecast/pkg/logger"
	"github.com/okian/venturecast/pkg/metrics"
)

const defaultQueueSize = 10_000

// Service implements the API dependencies for the venture predictor.
type Service struct {
	// Configuration
	baseline       scoring.BaselineModel
	params         scoring.Parameters
	learningRate   float64
	queueSize      int
	sampleVentures int
	sampleSeed     int64
	now            func() time.Time
	newID          func() string

	// Core components
	engine     *scoring.Engine
	state      *calibration.State
	calibrator *calibration.Calibrator
	store      repository.Store
	ranks      map[scoring.Mode]*repository.RankIndex

	// recordMu serializes outcome recording so the calibration step and the
	// venture's label always change together.
	recordMu sync.Mutex

	mu      sync.RWMutex
	mode    scoring.Mode
	started bool
	seeded  bool
	queue   *queue.InMemoryQueue
	applier *worker.InMemoryWorker

	logger logger.Logger
}

// New constructs a Service. The engine configuration is validated here, so
// a returned Service always scores with a well-defined baseline.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		baseline:     scoring.DefaultBaseline(),
		params:       scoring.DefaultParameters(),
		learningRate: calibration.DefaultLearningRate,
		queueSize:    defaultQueueSize,
		mode:         scoring.ModeUnicorn,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.engine = scoring.NewEngine(scoring.WithBaseline(s.baseline), scoring.WithParameters(s.params))
	if err := s.engine.Validate(); err != nil {
		return nil, err
	}
	s.state = calibration.NewState()
	s.calibrator = calibration.NewCalibrator(s.state,
		calibration.WithLearningRate(s.learningRate),
		calibration.WithClock(s.now),
	)
	s.store = repository.NewMemoryStore()
	s.ranks = make(map[scoring.Mode]*repository.RankIndex, len(scoring.Modes()))
	for _, m := range scoring.Modes() {
		s.ranks[m] = repository.NewRankIndex()
	}
	publishMode(s.mode)
	metrics.UpdateCalibrationOffset(s.mode.String(), 0)
	return s, nil
}

// Start launches the asynchronous outcome path and seeds sample ventures
// when configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting venture predictor...")

	// Seeding runs before the applier exists, so a failure leaves nothing running.
	if s.sampleVentures > 0 && !s.seeded {
		gen := seed.NewGenerator(seed.WithSeed(s.sampleSeed), seed.WithClock(s.now))
		for _, v := range gen.Ventures(s.sampleVentures) {
			if _, err := s.addVenture(ctx, v, s.mode); err != nil {
				return fmt.Errorf("seed sample venture %s: %w", v.Name, err)
			}
		}
		s.seeded = true
		s.logger.Info(ctx, "seeded sample ventures", logger.Int("count", s.sampleVentures))
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.applier = worker.NewInMemoryWorker(s.queue, s,
		worker.WithLogger(s.logger.Named("outcome-applier")),
	)
	s.applier.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "venture predictor started",
		logger.Int("queue_size", s.queueSize),
		logger.Float64("learning_rate", s.calibrator.LearningRate()),
		logger.String("mode", s.mode.String()),
	)
	return nil
}

// Stop closes the outcome queue and waits until every queued observation
// has been applied or ctx expires.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	q, applier := s.queue, s.applier
	s.mu.Unlock()

	// The applier reads the mode while draining, so the lock is released first.
	s.logger.Info(ctx, "stopping venture predictor...")
	_ = q.Close()
	err := applier.Shutdown(ctx)
	s.logger.Info(ctx, "venture predictor stopped", logger.Int("calibration_events", s.state.Len()))
	return err
}

// Mode returns the active target-outcome mode.
func (s *Service) Mode() scoring.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode switches the active target-outcome mode.
func (s *Service) SetMode(ctx context.Context, m scoring.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	s.mu.Lock()
	prev := s.mode
	s.mode = m
	s.mu.Unlock()

	publishMode(m)
	s.logger.Info(ctx, "prediction mode changed",
		logger.String("from", prev.String()),
		logger.String("to", m.String()),
	)
	return nil
}

// Score returns the probability that v reaches the outcome targeted by mode
// at the current calibration offset. It has no side effects on v.
func (s *Service) Score(v *model.Venture, mode scoring.Mode) float64 {
	start := time.Now()
	p := s.engine.Probability(v, s.state.Offset(), mode)
	metrics.RecordScoreComputed(mode.String())
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	return p
}

// AddVenture stores a new venture and returns it scored under the active
// mode. Ids and creation times are assigned when missing, and a venture
// without founders gets one neutral founder.
func (s *Service) AddVenture(ctx context.Context, v model.Venture) (types.ScoredVenture, error) {
	return s.addVenture(ctx, v, s.Mode())
}

func (s *Service) addVenture(ctx context.Context, v model.Venture, mode scoring.Mode) (types.ScoredVenture, error) {
	if v.ID == "" {
		v.ID = s.newID()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now()
	}
	if len(v.Founders) == 0 {
		v.Founders = []model.Founder{model.NeutralFounder()}
	}
	p := s.Score(&v, mode)
	v.PredictedProbability = &p

	if err := s.store.Add(ctx, v); err != nil {
		return types.ScoredVenture{}, err
	}
	for m, idx := range s.ranks {
		idx.Upsert(v.ID, s.engine.RankKey(&v, m))
	}

	s.logger.Debug(ctx, "venture added",
		logger.String("venture_id", v.ID),
		logger.String("sector", v.Sector.String()),
		logger.Float64("probability", p),
	)
	return types.ScoredVenture{Venture: v, Mode: mode.String(), Probability: p}, nil
}

// Venture returns one venture scored under mode.
func (s *Service) Venture(ctx context.Context, id string, mode scoring.Mode) (types.ScoredVenture, error) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return types.ScoredVenture{}, err
	}
	return types.ScoredVenture{Venture: v, Mode: mode.String(), Probability: s.Score(&v, mode)}, nil
}

// Ventures returns every venture, in submission order, scored under mode
// at one consistent offset.
func (s *Service) Ventures(ctx context.Context, mode scoring.Mode) []types.ScoredVenture {
	offset := s.state.Offset()
	vs := s.store.List(ctx)
	out := make([]types.ScoredVenture, len(vs))
	for i := range vs {
		out[i] = types.ScoredVenture{
			Venture:     vs[i],
			Mode:        mode.String(),
			Probability: s.engine.Probability(&vs[i], offset, mode),
		}
	}
	metrics.RecordScoreComputed(mode.String())
	return out
}

// RecordOutcome applies one observed outcome for a venture: the prediction
// under the active mode at the current offset is compared with the binary
// actual, the offset takes one gradient step, one calibration event is
// appended, and the venture is relabeled. Recording the same venture again
// is a new, independent step.
func (s *Service) RecordOutcome(ctx context.Context, ventureID string, outcome model.Outcome) (types.OutcomeResult, error) {
	start := time.Now()
	if !outcome.IsTerminal() {
		return types.OutcomeResult{}, fmt.Errorf("%w: %s", ErrInvalidOutcome, outcome)
	}

	s.recordMu.Lock()
	defer s.recordMu.Unlock()

	v, err := s.store.Get(ctx, ventureID)
	if err != nil {
		metrics.RecordErrorByComponent("service", "not_found")
		return types.OutcomeResult{}, err
	}
	mode := s.Mode()
	step, err := s.calibrator.Record(v.ID, outcome, mode, func(offset float64) float64 {
		return s.engine.Probability(&v, offset, mode)
	})
	if err != nil {
		return types.OutcomeResult{}, err
	}
	if err := s.store.SetOutcome(ctx, v.ID, outcome, step.Event.Predicted); err != nil {
		return types.OutcomeResult{}, err
	}

	metrics.RecordCalibrationEvent(outcome.String())
	metrics.UpdateCalibrationOffset(mode.String(), step.OffsetAfter)
	metrics.RecordCalibrationLatency(float64(time.Since(start).Microseconds()) / 1000)
	s.publishQuality(ctx, mode)

	s.logger.Info(ctx, "outcome recorded",
		logger.String("venture_id", v.ID),
		logger.String("outcome", outcome.String()),
		logger.String("mode", mode.String()),
		logger.Float64("predicted", step.Event.Predicted),
		logger.Int("actual", step.Event.Actual),
		logger.Float64("offset", step.OffsetAfter),
	)
	return types.OutcomeResult{
		Event:        step.Event,
		Mode:         mode.String(),
		OffsetBefore: step.OffsetBefore,
		OffsetAfter:  step.OffsetAfter,
	}, nil
}

// SubmitOutcome queues an observation for the background applier. The
// outcome and venture are checked up front so callers get immediate
// feedback; ErrBackpressure is returned when the queue is full.
func (s *Service) SubmitOutcome(ctx context.Context, ventureID, outcome string) (types.Observation, error) {
	o, err := model.ParseOutcome(outcome)
	if err != nil {
		return types.Observation{}, fmt.Errorf("%w: %w", ErrInvalidOutcome, err)
	}
	if !o.IsTerminal() {
		return types.Observation{}, fmt.Errorf("%w: %s", ErrInvalidOutcome, o)
	}
	if _, err := s.store.Get(ctx, ventureID); err != nil {
		return types.Observation{}, err
	}

	s.mu.RLock()
	q := s.queue
	started := s.started
	s.mu.RUnlock()
	if !started {
		return types.Observation{}, ErrNotStarted
	}

	obs := types.Observation{
		ObservationID: s.newID(),
		VentureID:     ventureID,
		Outcome:       o.String(),
		ReceivedAt:    s.now(),
	}
	if err := q.Enqueue(ctx, obs); err != nil {
		s.logger.Warn(ctx, "observation rejected",
			logger.String("venture_id", ventureID),
			logger.Error(err),
		)
		return types.Observation{}, err
	}
	return obs, nil
}

// ApplyObservation implements worker.Applier.
func (s *Service) ApplyObservation(ctx context.Context, o types.Observation) error {
	outcome, err := model.ParseOutcome(o.Outcome)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutcome, err)
	}
	_, err = s.RecordOutcome(ctx, o.VentureID, outcome)
	return err
}

// Metrics reports calibration quality over the full event history, with the
// average prediction computed fresh for every venture under mode. Offset,
// events and predictions all come from one snapshot.
func (s *Service) Metrics(ctx context.Context, mode scoring.Mode) types.CalibrationSummary {
	snap := s.state.Snapshot()
	report := calibration.Summarize(snap.Events)

	vs := s.store.List(ctx)
	probs := make([]float64, len(vs))
	for i := range vs {
		probs[i] = s.engine.Probability(&vs[i], snap.Offset, mode)
	}
	report.AveragePrediction = calibration.AveragePrediction(probs)

	return types.CalibrationSummary{
		Mode:         mode.String(),
		Offset:       snap.Offset,
		LearningRate: s.calibrator.LearningRate(),
		VentureCount: len(vs),
		Report:       report,
	}
}

// CalibrationEvents returns the ordered calibration history.
func (s *Service) CalibrationEvents(_ context.Context) []model.CalibrationEvent {
	return s.state.Snapshot().Events
}

// TopN returns the n ventures most likely to reach mode's outcome.
func (s *Service) TopN(ctx context.Context, mode scoring.Mode, n int) ([]types.Entry, error) {
	idx, err := s.rankIndex(mode)
	if err != nil {
		return nil, err
	}
	ranked, err := idx.TopN(n, s.displayScale())
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, 0, len(ranked))
	for _, r := range ranked {
		v, err := s.store.Get(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, types.Entry{
			Rank:        r.Rank,
			VentureID:   r.ID,
			Name:        v.Name,
			Probability: r.Value,
		})
	}
	return out, nil
}

// Rank returns the position of one venture in mode's ranking.
func (s *Service) Rank(ctx context.Context, mode scoring.Mode, ventureID string) (types.Entry, error) {
	idx, err := s.rankIndex(mode)
	if err != nil {
		return types.Entry{}, err
	}
	r, err := idx.Rank(ventureID, s.displayScale())
	if err != nil {
		return types.Entry{}, err
	}
	v, err := s.store.Get(ctx, ventureID)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{
		Rank:        r.Rank,
		VentureID:   r.ID,
		Name:        v.Name,
		Probability: r.Value,
	}, nil
}

// Sectors aggregates current probabilities and observed target hits per
// sector. Only sectors with at least one venture are reported, in sector
// order.
func (s *Service) Sectors(ctx context.Context, mode scoring.Mode) []types.SectorSummary {
	offset := s.state.Offset()
	target := mode.TargetOutcome()
	type agg struct {
		count int
		total float64
		hits  int
	}
	bySector := make(map[model.Sector]*agg)
	for _, v := range s.store.List(ctx) {
		a := bySector[v.Sector]
		if a == nil {
			a = &agg{}
			bySector[v.Sector] = a
		}
		a.count++
		a.total += s.engine.Probability(&v, offset, mode)
		if v.ActualOutcome == target {
			a.hits++
		}
	}

	out := make([]types.SectorSummary, 0, len(bySector))
	for _, sec := range model.Sectors() {
		a, ok := bySector[sec]
		if !ok {
			continue
		}
		out = append(out, types.SectorSummary{
			Sector:         sec.String(),
			Count:          a.count,
			AvgProbability: a.total / float64(a.count),
			TargetHits:     a.hits,
			ActualRate:     float64(a.hits) / float64(a.count),
		})
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ventures := s.store.Count(ctx)
	stats := map[string]any{
		"started":            s.started,
		"mode":               s.mode.String(),
		"ventures":           ventures,
		"calibration_events": s.state.Len(),
		"offset":             s.state.Offset(),
		"learning_rate":      s.calibrator.LearningRate(),
		"queue_capacity":     s.queueSize,
	}
	if s.started {
		stats["queue_length"] = s.queue.Len(ctx)
		stats["observations"] = s.applier.Stats()
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateVenturesTotal(ventures)
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	return stats
}

func (s *Service) rankIndex(mode scoring.Mode) (*repository.RankIndex, error) {
	idx, ok := s.ranks[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	return idx, nil
}

// displayScale turns offset-free rank keys into the clamped probabilities
// shown to users at the current offset. Ventures clamped to the same
// probability share a rank.
func (s *Service) displayScale() repository.Scale {
	offset := s.state.Offset()
	return func(key float64) float64 {
		return s.engine.Clamp(scoring.InvLogit(key + offset))
	}
}

func (s *Service) publishQuality(ctx context.Context, mode scoring.Mode) {
	r := s.Metrics(ctx, mode)
	metrics.UpdateQualityMetrics(mode.String(), r.Brier, r.LogLoss, r.Accuracy, r.AveragePrediction)
}

func publishMode(active scoring.Mode) {
	names := make([]string, 0, len(scoring.Modes()))
	for _, m := range scoring.Modes() {
		names = append(names, m.String())
	}
	metrics.UpdateActiveMode(active.String(), names)
}
