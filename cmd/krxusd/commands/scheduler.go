package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/krxusd/internal/scheduler"
	"github.com/wonny/krxusd/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 시작",
	Long: `주기 작업 스케줄러를 시작합니다.

등록되는 작업:
- daily_sync: 매일 장 마감 후 시세/환율 동기화 (16:10)

실시간 캐시 정리(cache_maintenance)는 폴러가 도는 api 프로세스에서 수행됩니다.

Example:
  go run ./cmd/krxusd scheduler
  go run ./cmd/krxusd scheduler --run-now daily_sync`,
	RunE: runScheduler,
}

var schedulerRunNow string

func init() {
	rootCmd.AddCommand(schedulerCmd)

	// Flags
	schedulerCmd.Flags().StringVar(&schedulerRunNow, "run-now", "", "시작 직후 즉시 실행할 작업 이름")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== KRXUSD Scheduler ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	sched := scheduler.New(d.log)
	if err := sched.AddJob(jobs.NewDailySyncJob(d.syncer, d.stocks, d.log)); err != nil {
		return fmt.Errorf("add daily sync job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow != "" {
		if err := sched.RunJob(schedulerRunNow); err != nil {
			return fmt.Errorf("run job now: %w", err)
		}
		fmt.Printf("▶  Triggered %s\n", schedulerRunNow)
	}

	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  • %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
