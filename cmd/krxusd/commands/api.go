package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/krxusd/internal/api"
	"github.com/wonny/krxusd/internal/api/handlers"
	"github.com/wonny/krxusd/internal/realtime"
	"github.com/wonny/krxusd/internal/scheduler"
	"github.com/wonny/krxusd/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- USD 환산/분석 엔드포인트 제공
- 실시간 시세 웹소켓 제공

Endpoints:
  GET  /health                        - Health check
  GET  /api/stocks/search             - 종목 검색
  GET  /api/stocks/{code}             - 종목 정보
  GET  /api/stocks/{code}/history     - 원화 일별 시세
  GET  /api/stocks/{code}/usd         - 달러 환산 시세
  GET  /api/stocks/{code}/usd/current - 실시간 달러 환산가
  GET  /api/stocks/{code}/analysis    - 수익률/변동성/낙폭 분석
  GET  /api/compare                   - 다종목 비교
  GET  /api/exchange/current          - 현재 환율
  GET  /api/exchange/history          - 환율 히스토리
  GET  /ws/quotes                     - 실시간 시세 스트림

Example:
  go run ./cmd/krxusd api
  go run ./cmd/krxusd api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort         string
	apiPollInterval time.Duration
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: 설정값)")
	apiCmd.Flags().DurationVar(&apiPollInterval, "poll-interval", 10*time.Second, "실시간 시세 폴링 주기")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== KRXUSD API Server ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	// Override port if flag is set
	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	d.log.WithFields(map[string]interface{}{
		"port": d.cfg.Port,
		"env":  d.cfg.Env,
	}).Info("Initializing API server")

	// Realtime quote pipeline
	quoteCache := realtime.NewQuoteCache(2*time.Minute, d.log)
	poller := realtime.NewPoller(d.naver, quoteCache, apiPollInterval, d.log)

	pollCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	go poller.Run(pollCtx)

	// Cache maintenance runs here, next to the poller that fills the cache
	sched := scheduler.New(d.log)
	if err := sched.AddJob(jobs.NewCacheMaintenanceJob(quoteCache, d.log)); err != nil {
		return fmt.Errorf("add cache maintenance job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Handlers
	stockHandler := handlers.NewStockHandler(d.stocks, d.prices, d.usd, d.log)
	exchangeHandler := handlers.NewExchangeHandler(d.usd, d.log)
	compareHandler := handlers.NewCompareHandler(d.usd, d.log)
	streamHandler := handlers.NewStreamHandler(quoteCache, poller, d.log)

	router := api.NewRouter(stockHandler, exchangeHandler, compareHandler, streamHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	d.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
