package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/health"
	"github.com/cuemby/oretrace/pkg/linker"
	"github.com/cuemby/oretrace/pkg/log"
	"github.com/cuemby/oretrace/pkg/metrics"
	"github.com/cuemby/oretrace/pkg/notify"
	"github.com/cuemby/oretrace/pkg/report"
	"github.com/cuemby/oretrace/pkg/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metrics, health and read-only store endpoints",
	Long: `Serve exposes Prometheus metrics and health probes for the record
store, plus read-only JSON endpoints:

  /metrics             Prometheus metrics
  /health              component health, including notifier transports
  /ready               readiness (store and config loaded)
  /api/alerts          stored alerts (?limit=N)
  /api/report          traceability report over stored samples
  /api/report/grade    grade statistics and outliers (?facility=A)
  /api/report/daily    daily operations totals (?date=YYYY/MM/DD)

The store is held open while serving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		interval, _ := cmd.Flags().GetDuration("collect-interval")
		logger := log.WithComponent("serve")

		cfg, err := loadConfig(cmd)
		if err != nil {
			metrics.UpdateComponent(metrics.ComponentConfig, false, err.Error())
			return err
		}
		metrics.UpdateComponent(metrics.ComponentConfig, true, "")

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		collector := metrics.NewCollector(store, interval)
		collector.Start()
		defer collector.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if checkers := transportCheckers(cfg.Notify); len(checkers) > 0 {
			monitor := health.NewMonitor(health.DefaultConfig(), metrics.UpdateComponent, checkers...)
			go monitor.Run(ctx)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.HandleFunc("/health", metrics.HealthHandler())
		mux.HandleFunc("/ready", metrics.ReadyHandler())
		mux.HandleFunc("/api/alerts", alertsHandler(store))
		mux.HandleFunc("/api/report", reportHandler(store, linker.New(cfg.Facilities)))
		mux.HandleFunc("/api/report/grade", gradeHandler(store, cfg.Facilities))
		mux.HandleFunc("/api/report/daily", dailyHandler(store, cfg.Facilities))

		server := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("HTTP server error: %v", err)
			}
		}()

		logger.Info().Str("addr", addr).Msg("Serving")
		fmt.Printf("Serving on %s. Press Ctrl+C to stop.\n", addr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			fmt.Println("\nShutting down...")
		case err := <-errCh:
			return err
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown: %v", err)
		}

		fmt.Println("✓ Shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:9090", "Listen address")
	serveCmd.Flags().Duration("collect-interval", 15*time.Second, "Interval between store metric collections")
}

// transportCheckers returns probes for the configured notification transports
func transportCheckers(cfg config.Notify) []health.Checker {
	var checkers []health.Checker
	if telegram := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID); telegram.Enabled() {
		checkers = append(checkers, health.NewHTTPChecker(telegram.Name(), telegram.ProbeURL()))
	}
	if email := notify.NewEmailNotifier(cfg); email.Enabled() {
		checkers = append(checkers, health.NewTCPChecker("smtp", email.ServerAddr()))
	}
	return checkers
}

func alertsHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stored, err := store.ListAlerts()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && len(stored) > limit {
			stored = stored[len(stored)-limit:]
		}
		writeJSON(w, stored)
	}
}

func reportHandler(store storage.Store, l *linker.Linker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		samples, err := store.ListLabSamples()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		loads, err := store.ListBunkerLoads()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		shipments, err := store.ListShipments()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, l.Report(samples, loads, shipments))
	}
}

func gradeHandler(store storage.Store, facilities config.Facilities) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facility := r.URL.Query().Get("facility")
		if facility == "" {
			http.Error(w, "facility is required", http.StatusBadRequest)
			return
		}
		samples, err := store.ListLabSamples()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, report.Grade(facility, facilities, samples))
	}
}

func dailyHandler(store storage.Store, facilities config.Facilities) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			http.Error(w, "date is required", http.StatusBadRequest)
			return
		}
		daily, err := dailyReport(store, facilities, date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, daily)
	}
}

// dailyReport loads every logistics and sample record and summarizes date
func dailyReport(store storage.Store, facilities config.Facilities, date string) (report.DailyReport, error) {
	shipments, err := store.ListShipments()
	if err != nil {
		return report.DailyReport{}, err
	}
	loads, err := store.ListBunkerLoads()
	if err != nil {
		return report.DailyReport{}, err
	}
	samples, err := store.ListLabSamples()
	if err != nil {
		return report.DailyReport{}, err
	}
	return report.Daily(date, facilities, shipments, loads, samples), nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponent("serve")
		logger.Error().Err(err).Msg("Failed to write response")
	}
}
