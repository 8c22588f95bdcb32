package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Strategies: %d | Runs: %d\n\n", r.StrategyCount, r.RunCount))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Predictions | %d |\n", r.DataSummary.TotalPredictions))
	sb.WriteString(fmt.Sprintf("| Total Outcomes | %d |\n", r.DataSummary.TotalOutcomes))
	sb.WriteString(fmt.Sprintf("| Sports | %s |\n", strings.Join(r.DataSummary.Sports, ", ")))
	if !r.DataSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range Start | %s |\n", r.DataSummary.DateRangeStart.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("| Date Range End | %s |\n", r.DataSummary.DateRangeEnd.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	// Run Metrics
	sb.WriteString("## Run Metrics\n\n")
	if len(r.RunMetrics) > 0 {
		sb.WriteString("| Strategy | Sport | Bankroll | Bets | WinRate | Staked | Profit | ROI | Ending | MaxDD | Sharpe | PF | W-Streak | L-Streak |\n")
		sb.WriteString("|----------|-------|----------|------|---------|--------|--------|-----|--------|-------|--------|----|----------|----------|\n")
		for _, m := range r.RunMetrics {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %d | %d |\n",
				m.StrategyID, m.Sport, m.BankrollPolicy,
				m.TotalBets, m.WinRate, m.TotalStaked, m.TotalProfit, m.ROI,
				m.EndingBankroll, m.MaxDrawdown, m.SharpeRatio, m.ProfitFactor,
				m.LongestWinStreak, m.LongestLossStreak))
		}
	} else {
		sb.WriteString("No run metrics available.\n")
	}
	sb.WriteString("\n")

	// Best run breakdowns
	if r.BestRun != nil {
		sb.WriteString("## Best Run Breakdown\n\n")

		sb.WriteString("### By Entry Size\n\n")
		if len(r.BestRun.ByEntrySize) > 0 {
			sb.WriteString("| Size | Bets | Wins | WinRate | Staked | Profit | ROI | Multiplier |\n")
			sb.WriteString("|------|------|------|---------|--------|--------|-----|------------|\n")
			for _, row := range r.BestRun.ByEntrySize {
				sb.WriteString(fmt.Sprintf("| %d | %d | %d | %.2f | %.2f | %.2f | %.2f | %.1f |\n",
					row.EntrySize, row.TotalBets, row.Wins, row.WinRate,
					row.TotalStaked, row.TotalProfit, row.ROI, row.PayoutMultiplier))
			}
		} else {
			sb.WriteString("No entry size data available.\n")
		}
		sb.WriteString("\n")

		sb.WriteString("### By Category\n\n")
		if len(r.BestRun.ByCategory) > 0 {
			sb.WriteString("| Category | Bets | Wins | WinRate | Profit | AvgConfidence |\n")
			sb.WriteString("|----------|------|------|---------|--------|---------------|\n")
			for _, row := range r.BestRun.ByCategory {
				sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f | %.2f | %.2f |\n",
					row.Category, row.Appearances, row.Wins, row.WinRate,
					row.TotalProfit, row.AvgConfidence))
			}
		} else {
			sb.WriteString("No category data available.\n")
		}
		sb.WriteString("\n")

		sb.WriteString("### By Confidence Band\n\n")
		if len(r.BestRun.ByConfidenceBand) > 0 {
			sb.WriteString("| Band | Bets | Wins | WinRate | Profit |\n")
			sb.WriteString("|------|------|------|---------|--------|\n")
			for _, row := range r.BestRun.ByConfidenceBand {
				sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f | %.2f |\n",
					row.Band.Label(), row.TotalBets, row.Wins, row.WinRate, row.TotalProfit))
			}
		} else {
			sb.WriteString("No confidence band data available.\n")
		}
		sb.WriteString("\n")

		sb.WriteString("### Top Combinations\n\n")
		if len(r.BestRun.TopCombinations) > 0 {
			sb.WriteString("| Categories | Appearances | Wins | WinRate | AvgProfit |\n")
			sb.WriteString("|------------|-------------|------|---------|----------|\n")
			for _, row := range r.BestRun.TopCombinations {
				sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f | %.2f |\n",
					strings.Join(row.Categories, " + "), row.Appearances, row.Wins,
					row.WinRate, row.AvgProfit))
			}
		} else {
			sb.WriteString("No combination data available.\n")
		}
		sb.WriteString("\n")

		sb.WriteString("### Risk\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Volatility | %.4f |\n", r.BestRun.Risk.Volatility))
		sb.WriteString(fmt.Sprintf("| Avg Win | %.2f |\n", r.BestRun.Risk.AvgWin))
		sb.WriteString(fmt.Sprintf("| Avg Loss | %.2f |\n", r.BestRun.Risk.AvgLoss))
		sb.WriteString(fmt.Sprintf("| Win/Loss Ratio | %.2f |\n", r.BestRun.Risk.WinLossRatio))
		sb.WriteString(fmt.Sprintf("| Max Drawdown | %.2f |\n", r.BestRun.Risk.MaxDrawdown))
		sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.2f |\n", r.BestRun.Risk.SharpeRatio))
		sb.WriteString(fmt.Sprintf("| Profit Factor | %.2f |\n", r.BestRun.Risk.ProfitFactor))
		sb.WriteString("\n")

		sb.WriteString("### Optimal Entry Mix\n\n")
		if len(r.BestRun.OptimalEntryMix) > 0 {
			sb.WriteString("| Size | Allocation% |\n")
			sb.WriteString("|------|-------------|\n")
			sizes := sortedMixSizes(r.BestRun.OptimalEntryMix)
			for _, size := range sizes {
				sb.WriteString(fmt.Sprintf("| %d | %.2f |\n", size, r.BestRun.OptimalEntryMix[size]))
			}
		} else {
			sb.WriteString("No profitable entry sizes found.\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func sortedMixSizes(mix map[int]float64) []int {
	sizes := make([]int, 0, len(mix))
	for size := range mix {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	return sizes
}
