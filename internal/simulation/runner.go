package simulation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"prop-backtest-lab/internal/analysis"
	"prop-backtest-lab/internal/bankroll"
	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/metrics"
	"prop-backtest-lab/internal/storage"
	"prop-backtest-lab/internal/strategy"
)

// Runner executes one strategy simulation end to end.
type Runner struct {
	predictionStore storage.PredictionStore
	outcomeStore    storage.OutcomeStore
	resultStore     storage.BacktestResultStore
	equityStore     storage.EquityCurveStore
}

// RunnerOptions contains configuration for creating a Runner. ResultStore
// and EquityStore may be nil; results are then computed but not persisted.
type RunnerOptions struct {
	PredictionStore storage.PredictionStore
	OutcomeStore    storage.OutcomeStore
	ResultStore     storage.BacktestResultStore
	EquityStore     storage.EquityCurveStore
}

// NewRunner creates a simulation runner.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		predictionStore: opts.PredictionStore,
		outcomeStore:    opts.OutcomeStore,
		resultStore:     opts.ResultStore,
		equityStore:     opts.EquityStore,
	}
}

// RunOutput bundles everything one simulation run produced.
type RunOutput struct {
	Result *domain.BettingResult
	Bets   []*domain.Bet
	Report *analysis.Report
}

// Run executes a simulation for a strategy config.
// Steps:
//  1. Load predictions (sport-scoped when the config names one)
//  2. Build filter criteria via strategy.FromConfig(cfg)
//  3. Filter predictions
//  4. Generate bets under the config's bankroll policy
//  5. Resolve bets against stored outcomes
//  6. Reduce to a BettingResult and dimensional report
//  7. Persist the result and equity curve
func (r *Runner) Run(ctx context.Context, cfg domain.StrategyConfig) (*RunOutput, error) {
	preds, err := r.loadPredictions(ctx, cfg.Sport)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, cfg, preds)
}

// RunBetween is Run restricted to predictions whose game date falls within
// [start, end] inclusive.
func (r *Runner) RunBetween(ctx context.Context, cfg domain.StrategyConfig, start, end time.Time) (*RunOutput, error) {
	stored, err := r.predictionStore.GetByDateRange(ctx, cfg.Sport, start, end)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, cfg, flatten(stored))
}

func (r *Runner) loadPredictions(ctx context.Context, sport string) ([]domain.Prediction, error) {
	var stored []*domain.Prediction
	var err error
	if sport != "" {
		stored, err = r.predictionStore.GetBySport(ctx, sport)
	} else {
		stored, err = r.predictionStore.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return flatten(stored), nil
}

func (r *Runner) run(ctx context.Context, cfg domain.StrategyConfig, preds []domain.Prediction) (*RunOutput, error) {
	criteria, err := strategy.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	filtered := strategy.Filter(preds, criteria)

	startingBankroll := cfg.StartingBankroll
	if startingBankroll <= 0 {
		startingBankroll = domain.DefaultStartingBankroll
	}
	baseStake := cfg.BaseStake
	if baseStake <= 0 {
		baseStake = domain.DefaultBaseStake
	}

	policy := bankroll.FromName(cfg.BankrollPolicy, baseStake)
	bets := NewGenerator(cfg.EntrySizes, startingBankroll, policy).Generate(filtered)

	outcomes, err := r.outcomeStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	NewEvaluator(domain.BuildOutcomeLookup(outcomes)).Evaluate(bets)

	result := metrics.Compute(bets, startingBankroll)
	result.RunID = uuid.NewString()
	result.StrategyID = cfg.ID()
	result.Sport = cfg.Sport
	result.BankrollPolicy = policy.Name()
	result.CreatedAt = time.Now().UTC()

	if r.resultStore != nil {
		if err := r.resultStore.Insert(ctx, result); err != nil {
			return nil, err
		}
	}
	if r.equityStore != nil && len(result.DailyResults) > 0 {
		if err := r.equityStore.InsertBulk(ctx, result.RunID, result.DailyResults); err != nil {
			return nil, err
		}
	}

	report := analysis.NewAnalyzer(bets, result).Analyze()

	return &RunOutput{Result: result, Bets: bets, Report: report}, nil
}

// flatten converts stored prediction pointers to the value slice the
// generator consumes.
func flatten(stored []*domain.Prediction) []domain.Prediction {
	preds := make([]domain.Prediction, 0, len(stored))
	for _, p := range stored {
		preds = append(preds, *p)
	}
	return preds
}
