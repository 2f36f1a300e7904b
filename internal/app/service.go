// Package service runs one settlement pass: locate and read the dataset,
// validate it, compute payouts and persist the result.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/shadowsettle/internal/adapters/storage"
	"github.com/okian/shadowsettle/internal/config"
	"github.com/okian/shadowsettle/internal/domain/settlement"
	"github.com/okian/shadowsettle/internal/domain/validation"
	"github.com/okian/shadowsettle/pkg/logger"
	"github.com/okian/shadowsettle/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Report summarizes a completed run.
type Report struct {
	DatasetPath string
	Settlement  settlement.Settlement
	Receipt     storage.Receipt
}

// Service wires the settlement pipeline. It holds no state between runs.
type Service struct {
	source      storage.Source
	sink        storage.Sink
	calculator  *settlement.Calculator
	metrics     *metrics.Manager
	metricsFile string
	logger      logger.Logger
	now         func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where the dataset is read from.
func WithSource(src storage.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithSink sets where the result is written to.
func WithSink(sink storage.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithCalculator sets a custom calculator.
func WithCalculator(c *settlement.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.calculator = c
		}
	}
}

// WithMetrics sets the metrics manager. The global manager is used otherwise.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMetricsFile sets the textfile the metrics are exported to after a run.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Source and sink must be supplied through options
// or Run reports a configuration error.
func New(opts ...Option) *Service {
	s := &Service{
		calculator: settlement.New(),
		metrics:    metrics.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromConfig builds a Service reading and writing the locations in cfg.
// Extra options are applied last.
func FromConfig(cfg *config.Config, opts ...Option) *Service {
	paths := cfg.Paths()
	fs := storage.NewLocalFS(paths.InputPath, paths.OutputPath,
		storage.WithDeclaredInput(cfg.InputFilesNumber, cfg.InputFileName1),
		storage.WithDefaultDatasetFile(cfg.DefaultDatasetFile),
		storage.WithResultFile(cfg.ResultFile),
		storage.WithComputedFile(cfg.ComputedFile),
	)
	base := []Option{
		WithSource(fs),
		WithSink(fs),
		WithMetricsFile(cfg.MetricsFile),
	}
	return New(append(base, opts...)...)
}

// Run performs one settlement pass. The result is fully computed before
// anything is written; on any error nothing is written.
func (s *Service) Run(ctx context.Context) (Report, error) {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	start := s.now()

	report, err := s.run(ctx)

	elapsed := float64(s.now().Sub(start).Nanoseconds()) / nanosecondsPerMillisecond
	s.metrics.RecordRun(outcome(err), elapsed)
	if s.metricsFile != "" {
		if werr := s.metrics.WriteTextfile(s.metricsFile); werr != nil {
			s.logger.Warn(ctx, "failed to export metrics", logger.String("path", s.metricsFile), logger.Error(werr))
		}
	}
	return report, err
}

func (s *Service) run(ctx context.Context) (Report, error) {
	if s.source == nil || s.sink == nil {
		return Report{}, fmt.Errorf("%w: service has no dataset source or result sink", config.ErrConfiguration)
	}

	path, err := s.source.Locate(ctx)
	if err != nil {
		return Report{}, err
	}
	s.logger.Debug(ctx, "dataset located", logger.String("path", path))

	raw, err := s.source.Read(ctx, path)
	if err != nil {
		return Report{}, err
	}

	ds, err := validation.Validate(raw)
	if err != nil {
		s.metrics.RecordValidationFailure(validation.Reason(err))
		return Report{}, err
	}

	st := s.calculator.Settle(ds)
	s.metrics.RecordSettlement(metrics.Figures{
		Participants: st.Participants,
		Eligible:     st.Eligible,
		Payouts:      len(st.Result.Payouts),
		PoolUnits:    st.Pool,
		DustUnits:    st.Dust,
		Attested:     st.Result.Attestation != "",
	})
	s.logger.Debug(ctx, "settlement computed",
		logger.Int("participants", st.Participants),
		logger.Int("eligible", st.Eligible),
		logger.Float64("totalScore", st.TotalScore),
		logger.Int64("pool", st.Pool),
		logger.Int64("dust", st.Dust),
	)

	receipt, err := s.sink.Write(ctx, st.Result)
	if err != nil {
		return Report{}, err
	}

	s.logger.Info(ctx, fmt.Sprintf("computed %d payouts", len(st.Result.Payouts)),
		logger.Int("payouts", len(st.Result.Payouts)),
		logger.String("result", receipt.ResultPath),
		logger.String("cid", receipt.CID),
		logger.String("attestation", st.Result.Attestation),
	)

	return Report{DatasetPath: path, Settlement: st, Receipt: receipt}, nil
}

// outcome classifies err for the runs metric.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, validation.ErrValidation):
		return metrics.OutcomeValidationError
	case errors.Is(err, config.ErrConfiguration):
		return metrics.OutcomeConfigurationError
	default:
		return metrics.OutcomeError
	}
}
