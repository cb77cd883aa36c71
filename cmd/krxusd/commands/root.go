package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "krxusd",
	Short: "KRXUSD - 한국 주식 달러 환산 분석 서비스",
	Long: `KRXUSD Unified CLI

한국 주식 일별 시세를 USD/KRW 환율로 환산하고
수익률 분해, 변동성, 낙폭 분석을 제공합니다.

Usage:
  go run ./cmd/krxusd [command]

Examples:
  go run ./cmd/krxusd api
  go run ./cmd/krxusd collect --codes 005930,000660
  go run ./cmd/krxusd scheduler
  go run ./cmd/krxusd analyze 005930 --from 2024-01-01`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
