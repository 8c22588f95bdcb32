// Package analysis breaks a resolved bet sequence down along independent
// dimensions: entry size, prop category, sport, confidence band, and
// winning category combinations.
//
// Each breakdown makes one pass building per-key accumulators and a second
// pass deriving ratios, so no mutable state is shared across dimensions.
package analysis

import (
	"math"
	"sort"
	"strings"

	"prop-backtest-lab/internal/domain"
)

// DefaultMinCombinationAppearances is the minimum number of times a
// category combination must occur before it is reported.
const DefaultMinCombinationAppearances = 10

// DefaultTimeSeriesWindow is the rolling window length, in bets.
const DefaultTimeSeriesWindow = 7

// topCombinationCount caps the combination ranking.
const topCombinationCount = 10

// Analyzer is a read-only consumer of one run's resolved bets.
type Analyzer struct {
	bets   []*domain.Bet
	result *domain.BettingResult

	confidenceBands           []ConfidenceBand
	minCombinationAppearances int
	timeSeriesWindow          int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfidenceBands overrides the default confidence buckets.
func WithConfidenceBands(bands []ConfidenceBand) Option {
	return func(a *Analyzer) { a.confidenceBands = bands }
}

// WithMinCombinationAppearances overrides the combination-mining threshold.
func WithMinCombinationAppearances(n int) Option {
	return func(a *Analyzer) { a.minCombinationAppearances = n }
}

// WithTimeSeriesWindow overrides the rolling window length.
func WithTimeSeriesWindow(n int) Option {
	return func(a *Analyzer) { a.timeSeriesWindow = n }
}

// NewAnalyzer creates an analyzer over a resolved bet sequence and its
// aggregate result.
func NewAnalyzer(bets []*domain.Bet, result *domain.BettingResult, opts ...Option) *Analyzer {
	a := &Analyzer{
		bets:                      bets,
		result:                    result,
		confidenceBands:           DefaultConfidenceBands,
		minCombinationAppearances: DefaultMinCombinationAppearances,
		timeSeriesWindow:          DefaultTimeSeriesWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze produces every breakdown at once.
func (a *Analyzer) Analyze() *Report {
	return &Report{
		Result:           a.result,
		ByEntrySize:      a.ByEntrySize(),
		ByCategory:       a.ByCategory(),
		BySport:          a.BySport(),
		ByConfidenceBand: a.ByConfidenceBand(),
		TopCombinations:  a.TopCombinations(),
		OptimalEntryMix:  a.OptimalEntryMix(),
		TimeSeries:       a.TimeSeries(),
		Risk:             a.Risk(),
	}
}

// ByEntrySize breaks performance down per entry size, ascending.
func (a *Analyzer) ByEntrySize() []EntrySizeBreakdown {
	type acc struct {
		count, wins           int
		totalStaked, totalPnL float64
	}
	accs := make(map[int]*acc)

	for _, b := range a.bets {
		s := accs[b.EntrySize]
		if s == nil {
			s = &acc{}
			accs[b.EntrySize] = s
		}
		s.count++
		if b.Outcome == domain.BetOutcomeWin {
			s.wins++
		}
		s.totalStaked += b.Stake
		s.totalPnL += b.RealizedPnL
	}

	rows := make([]EntrySizeBreakdown, 0, len(accs))
	for size, s := range accs {
		row := EntrySizeBreakdown{
			EntrySize:        size,
			TotalBets:        s.count,
			Wins:             s.wins,
			Losses:           s.count - s.wins,
			WinRate:          float64(s.wins) / float64(s.count) * 100,
			TotalStaked:      s.totalStaked,
			TotalProfit:      s.totalPnL,
			AvgProfitPerBet:  s.totalPnL / float64(s.count),
			PayoutMultiplier: domain.PayoutMultiplier(size),
		}
		if s.totalStaked > 0 {
			row.ROI = s.totalPnL / s.totalStaked * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].EntrySize < rows[j].EntrySize })
	return rows
}

// ByCategory breaks performance down per prop category. A bet counts once
// toward every distinct category it contains; its full P&L is attributed
// to each.
func (a *Analyzer) ByCategory() []CategoryBreakdown {
	type acc struct {
		appearances, wins int
		totalPnL          float64
		confidenceSum     float64
		confidenceCount   int
	}
	accs := make(map[string]*acc)

	for _, b := range a.bets {
		seen := make(map[string]struct{}, len(b.PropCategories))
		for _, category := range b.PropCategories {
			if _, dup := seen[category]; dup {
				continue
			}
			seen[category] = struct{}{}

			s := accs[category]
			if s == nil {
				s = &acc{}
				accs[category] = s
			}
			s.appearances++
			if b.Outcome == domain.BetOutcomeWin {
				s.wins++
			}
			s.totalPnL += b.RealizedPnL

			for _, prop := range b.Props {
				if prop.PropCategory == category {
					s.confidenceSum += prop.Confidence
					s.confidenceCount++
				}
			}
		}
	}

	rows := make([]CategoryBreakdown, 0, len(accs))
	for category, s := range accs {
		row := CategoryBreakdown{
			Category:    category,
			Appearances: s.appearances,
			Wins:        s.wins,
			Losses:      s.appearances - s.wins,
			WinRate:     float64(s.wins) / float64(s.appearances) * 100,
			TotalProfit: s.totalPnL,
		}
		if s.confidenceCount > 0 {
			row.AvgConfidence = s.confidenceSum / float64(s.confidenceCount)
		}
		rows = append(rows, row)
	}

	// Win rate descending, category name as deterministic tie-break.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WinRate != rows[j].WinRate {
			return rows[i].WinRate > rows[j].WinRate
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// BySport breaks performance down per sport, sorted by name.
func (a *Analyzer) BySport() []SportBreakdown {
	type acc struct {
		count, wins           int
		totalStaked, totalPnL float64
	}
	accs := make(map[string]*acc)

	for _, b := range a.bets {
		s := accs[b.Sport]
		if s == nil {
			s = &acc{}
			accs[b.Sport] = s
		}
		s.count++
		if b.Outcome == domain.BetOutcomeWin {
			s.wins++
		}
		s.totalStaked += b.Stake
		s.totalPnL += b.RealizedPnL
	}

	rows := make([]SportBreakdown, 0, len(accs))
	for sport, s := range accs {
		row := SportBreakdown{
			Sport:       sport,
			TotalBets:   s.count,
			Wins:        s.wins,
			Losses:      s.count - s.wins,
			WinRate:     float64(s.wins) / float64(s.count) * 100,
			TotalStaked: s.totalStaked,
			TotalProfit: s.totalPnL,
		}
		if s.totalStaked > 0 {
			row.ROI = s.totalPnL / s.totalStaked * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Sport < rows[j].Sport })
	return rows
}

// ByConfidenceBand buckets bets by confidence average. A bet falls into at
// most one band: the first band containing its average wins. Bets outside
// every band are not reported.
func (a *Analyzer) ByConfidenceBand() []ConfidenceBandBreakdown {
	type acc struct {
		count, wins           int
		totalStaked, totalPnL float64
	}
	accs := make([]*acc, len(a.confidenceBands))

	for _, b := range a.bets {
		for i, band := range a.confidenceBands {
			if !band.Contains(b.ConfidenceAvg) {
				continue
			}
			if accs[i] == nil {
				accs[i] = &acc{}
			}
			accs[i].count++
			if b.Outcome == domain.BetOutcomeWin {
				accs[i].wins++
			}
			accs[i].totalStaked += b.Stake
			accs[i].totalPnL += b.RealizedPnL
			break
		}
	}

	var rows []ConfidenceBandBreakdown
	for i, s := range accs {
		if s == nil {
			continue
		}
		row := ConfidenceBandBreakdown{
			Band:        a.confidenceBands[i],
			TotalBets:   s.count,
			Wins:        s.wins,
			Losses:      s.count - s.wins,
			WinRate:     float64(s.wins) / float64(s.count) * 100,
			TotalStaked: s.totalStaked,
			TotalProfit: s.totalPnL,
		}
		if s.totalStaked > 0 {
			row.ROI = s.totalPnL / s.totalStaked * 100
		}
		rows = append(rows, row)
	}
	return rows
}

// TopCombinations mines recurring category groupings among multi-prop
// bets. Bets are grouped by their sorted, deduplicated category set;
// combinations below the appearance threshold are dropped and the rest
// ranked by win rate descending, top ten retained.
func (a *Analyzer) TopCombinations() []PropCombination {
	type acc struct {
		categories  []string
		appearances int
		wins        int
		totalPnL    float64
	}
	accs := make(map[string]*acc)

	for _, b := range a.bets {
		if b.EntrySize < 2 {
			continue
		}

		categories := dedupSorted(b.PropCategories)
		key := strings.Join(categories, "|")

		s := accs[key]
		if s == nil {
			s = &acc{categories: categories}
			accs[key] = s
		}
		s.appearances++
		if b.Outcome == domain.BetOutcomeWin {
			s.wins++
		}
		s.totalPnL += b.RealizedPnL
	}

	var rows []PropCombination
	for _, s := range accs {
		if s.appearances < a.minCombinationAppearances {
			continue
		}
		rows = append(rows, PropCombination{
			Categories:  s.categories,
			Appearances: s.appearances,
			Wins:        s.wins,
			WinRate:     float64(s.wins) / float64(s.appearances) * 100,
			TotalProfit: s.totalPnL,
			AvgProfit:   s.totalPnL / float64(s.appearances),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WinRate != rows[j].WinRate {
			return rows[i].WinRate > rows[j].WinRate
		}
		return strings.Join(rows[i].Categories, "|") < strings.Join(rows[j].Categories, "|")
	})

	if len(rows) > topCombinationCount {
		rows = rows[:topCombinationCount]
	}
	return rows
}

// OptimalEntryMix allocates weight across entry sizes proportional to each
// size's ROI, normalized to sum to 100. Sizes with non-positive ROI get no
// allocation; an all-negative breakdown yields an empty mix.
func (a *Analyzer) OptimalEntryMix() map[int]float64 {
	weights := make(map[int]float64)
	total := 0.0

	for _, row := range a.ByEntrySize() {
		if row.ROI > 0 {
			weights[row.EntrySize] = row.ROI
			total += row.ROI
		}
	}

	mix := make(map[int]float64, len(weights))
	if total > 0 {
		for size, w := range weights {
			mix[size] = w / total * 100
		}
	}
	return mix
}

// TimeSeries samples the bet sequence with a rolling window in its
// original order: each point covers window consecutive bets and reports
// the window's win rate and summed P&L, stamped with the last bet's game
// date. Fewer bets than the window yields no points.
func (a *Analyzer) TimeSeries() []TimeSeriesPoint {
	w := a.timeSeriesWindow
	if w <= 0 || len(a.bets) < w {
		return nil
	}

	points := make([]TimeSeriesPoint, 0, len(a.bets)-w+1)
	for i := 0; i+w <= len(a.bets); i++ {
		window := a.bets[i : i+w]

		wins := 0
		profit := 0.0
		for _, b := range window {
			if b.Outcome == domain.BetOutcomeWin {
				wins++
			}
			profit += b.RealizedPnL
		}

		points = append(points, TimeSeriesPoint{
			BetNumber:     i + w,
			Date:          window[w-1].GameDate,
			WindowWinRate: float64(wins) / float64(w) * 100,
			WindowProfit:  profit,
		})
	}
	return points
}

// Risk summarizes per-bet return dispersion alongside the aggregate risk
// figures. An empty bet sequence yields the zero value.
func (a *Analyzer) Risk() RiskMetrics {
	if len(a.bets) == 0 {
		return RiskMetrics{}
	}

	var (
		returnSum    float64
		winSum       float64
		lossSum      float64
		wins, losses int
	)
	returns := make([]float64, 0, len(a.bets))
	for _, b := range a.bets {
		if b.Stake > 0 {
			returns = append(returns, b.RealizedPnL/b.Stake)
			returnSum += b.RealizedPnL / b.Stake
		}
		switch b.Outcome {
		case domain.BetOutcomeWin:
			wins++
			winSum += b.RealizedPnL
		case domain.BetOutcomeLoss:
			losses++
			lossSum += math.Abs(b.RealizedPnL)
		}
	}

	risk := RiskMetrics{}
	if n := len(returns); n > 0 {
		mean := returnSum / float64(n)
		variance := 0.0
		for _, r := range returns {
			variance += (r - mean) * (r - mean)
		}
		risk.Volatility = math.Sqrt(variance / float64(n))
	}
	if wins > 0 {
		risk.AvgWin = winSum / float64(wins)
	}
	if losses > 0 {
		risk.AvgLoss = lossSum / float64(losses)
		risk.WinLossRatio = float64(wins) / float64(losses)
	}
	if a.result != nil {
		risk.MaxDrawdown = a.result.MaxDrawdown
		risk.SharpeRatio = a.result.SharpeRatio
		risk.ProfitFactor = a.result.ProfitFactor
		risk.LongestWinStreak = a.result.LongestWinStreak
		risk.LongestLossStreak = a.result.LongestLossStreak
	}
	return risk
}

// dedupSorted returns the sorted set of distinct values.
func dedupSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
