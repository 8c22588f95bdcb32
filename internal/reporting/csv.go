package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders run metrics as CSV string.
func RenderCSV(metrics []RunMetricRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("run_id,strategy_id,sport,bankroll_policy,total_bets,win_rate,")
	sb.WriteString("total_staked,total_profit,roi,ending_bankroll,")
	sb.WriteString("max_drawdown,sharpe_ratio,profit_factor,longest_win_streak,longest_loss_streak\n")

	// Rows
	for _, m := range metrics {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%d\n",
			m.RunID,
			m.StrategyID,
			m.Sport,
			m.BankrollPolicy,
			m.TotalBets,
			m.WinRate,
			m.TotalStaked,
			m.TotalProfit,
			m.ROI,
			m.EndingBankroll,
			m.MaxDrawdown,
			m.SharpeRatio,
			m.ProfitFactor,
			m.LongestWinStreak,
			m.LongestLossStreak,
		))
	}

	return sb.String()
}
