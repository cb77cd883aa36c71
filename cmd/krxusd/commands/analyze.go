package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/krxusd/internal/contracts"
	"github.com/wonny/krxusd/internal/service"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [code]",
	Short: "달러 환산 분석 리포트",
	Long: `한 종목의 달러 환산 시계열을 분석하여 리포트를 출력합니다.

분석 항목:
- 수익률 분해 (주가 수익률 vs 환율 효과)
- 연환산 변동성 (USD/KRW)
- 최대 낙폭 (USD/KRW)
- 52주 고가/저가

Example:
  go run ./cmd/krxusd analyze 005930
  go run ./cmd/krxusd analyze 005930 --from 2024-01-01 --to 2024-12-31
  go run ./cmd/krxusd analyze 005930 --carry-forward`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeFrom         string
	analyzeTo           string
	analyzeCarryForward bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().StringVar(&analyzeFrom, "from", "", "시작 날짜 (YYYY-MM-DD, 기본: 1년 전)")
	analyzeCmd.Flags().StringVar(&analyzeTo, "to", "", "종료 날짜 (YYYY-MM-DD, 기본: 오늘)")
	analyzeCmd.Flags().BoolVar(&analyzeCarryForward, "carry-forward", false, "환율 누락일에 직전 환율 사용")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	fmt.Println("=== KRXUSD Analysis ===")

	code := args[0]

	var opts service.HistoryOptions
	var err error
	if analyzeFrom != "" {
		opts.Start, err = time.Parse("2006-01-02", analyzeFrom)
		if err != nil {
			return fmt.Errorf("invalid from date: %w", err)
		}
	}
	if analyzeTo != "" {
		opts.End, err = time.Parse("2006-01-02", analyzeTo)
		if err != nil {
			return fmt.Errorf("invalid to date: %w", err)
		}
	}
	opts.CarryForward = analyzeCarryForward

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := cmd.Context()

	stock, err := d.stocks.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("stock %s: %w", code, err)
	}

	result, err := d.usd.Analysis(ctx, code, opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printAnalysisResult(stock, result)
	return nil
}

func printAnalysisResult(stock *contracts.Stock, result *contracts.AnalysisResult) {
	fmt.Println("\n✅ Analysis Completed")
	fmt.Println("=" + strings.Repeat("=", 60))
	fmt.Println()

	// Summary
	fmt.Println("📊 Summary")
	fmt.Printf("Stock:  %s (%s, %s)\n", stock.Name, stock.Code, stock.Market)
	if n := len(result.Normalized); n > 0 {
		fmt.Printf("Period: %s ~ %s (%d trading days)\n",
			result.Normalized[0].Date.Format("2006-01-02"),
			result.Normalized[n-1].Date.Format("2006-01-02"),
			n)
	}
	fmt.Println()

	// Return attribution
	fmt.Println("💰 Return Attribution")
	fmt.Printf("Total Return (USD): %+.2f%%\n", result.Attribution.TotalReturn)
	fmt.Printf("Stock Return (KRW): %+.2f%%\n", result.Attribution.StockReturn)
	fmt.Printf("FX Effect:          %+.2f%%", result.Attribution.FXEffect)
	if result.Attribution.FXEffect < 0 {
		fmt.Print(" 📉 (원화 약세가 수익률 잠식)")
	} else if result.Attribution.FXEffect > 0 {
		fmt.Print(" 📈 (원화 강세가 수익률 기여)")
	}
	fmt.Println()
	fmt.Println()

	// Volatility
	fmt.Println("📈 Annualized Volatility")
	fmt.Printf("USD: %.2f%%\n", result.Volatility.USD)
	fmt.Printf("KRW: %.2f%%\n", result.Volatility.KRW)
	fmt.Println()

	// Drawdown
	fmt.Println("📉 Max Drawdown")
	fmt.Printf("USD: %.2f%%", result.Drawdown.USDMax)
	if result.Drawdown.USDMax > -10 {
		fmt.Print(" 🌟 (Shallow)")
	} else if result.Drawdown.USDMax > -20 {
		fmt.Print(" ✅ (Moderate)")
	} else {
		fmt.Print(" ⚠️  (Deep)")
	}
	fmt.Println()
	fmt.Printf("KRW: %.2f%%\n", result.Drawdown.KRWMax)
	fmt.Println()

	// 52-week range
	fmt.Println("📐 52-Week Range")
	fmt.Printf("High: $%.2f / ₩%.0f\n", result.High52W.USD, result.High52W.KRW)
	fmt.Printf("Low:  $%.2f / ₩%.0f\n", result.Low52W.USD, result.Low52W.KRW)
	fmt.Println()
	fmt.Println("=" + strings.Repeat("=", 60))
}
