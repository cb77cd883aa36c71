package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/krxusd/internal/contracts"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "시세/환율 데이터 수집",
	Long: `네이버 금융에서 일별 시세와 환율을 수집하여 DB에 적재합니다.

로컬 데이터가 없으면 전체 히스토리를 백필하고,
있으면 마지막 저장일 이후의 갭만 채웁니다.

Example:
  go run ./cmd/krxusd collect                          # 등록된 전 종목 + 환율
  go run ./cmd/krxusd collect --codes 005930,000660    # 지정 종목 + 환율
  go run ./cmd/krxusd collect --register 005930:삼성전자:KOSPI`,
	RunE: runCollect,
}

var (
	collectCodes    string
	collectRegister string
)

func init() {
	rootCmd.AddCommand(collectCmd)

	// Flags
	collectCmd.Flags().StringVar(&collectCodes, "codes", "", "수집할 종목 코드 (콤마 구분, 기본: 등록된 전 종목)")
	collectCmd.Flags().StringVar(&collectRegister, "register", "", "종목 등록 (code:name:market)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	fmt.Println("=== KRXUSD Data Collection ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := cmd.Context()

	// Optional: register a new stock first
	if collectRegister != "" {
		parts := strings.Split(collectRegister, ":")
		if len(parts) != 3 {
			return fmt.Errorf("invalid --register format (expected code:name:market)")
		}
		stock := &contracts.Stock{Code: parts[0], Name: parts[1], Market: parts[2]}
		if err := d.stocks.Save(ctx, stock); err != nil {
			return fmt.Errorf("register stock: %w", err)
		}
		fmt.Printf("✅ Registered %s (%s)\n", stock.Code, stock.Name)
	}

	// Resolve target codes
	var codes []string
	if collectCodes != "" {
		for _, c := range strings.Split(collectCodes, ",") {
			if code := strings.TrimSpace(c); code != "" {
				codes = append(codes, code)
			}
		}
	} else {
		codes, err = d.stocks.ListCodes(ctx)
		if err != nil {
			return fmt.Errorf("list codes: %w", err)
		}
	}

	fmt.Printf("\n📅 Targets: %d stocks + USD/KRW rates\n", len(codes))
	fmt.Println("🚀 Starting sync...")
	start := time.Now()

	if err := d.syncer.SyncAll(ctx, codes); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("\n✅ Sync completed in %.2fs\n", time.Since(start).Seconds())
	return nil
}
