package server

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/dalalsunil1986/portfoliomgr/internal/database"
	"github.com/dalalsunil1986/portfoliomgr/internal/scheduler"
)

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	db        *database.DB
	scheduler *scheduler.Scheduler
	startedAt time.Time
	// Jobs (set after job registration in main.go)
	symbolImportJob scheduler.Job
	quoteUpdateJob  scheduler.Job
	cacheCleanupJob scheduler.Job
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, db *database.DB, sched *scheduler.Scheduler) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system_handlers").Logger(),
		db:        db,
		scheduler: sched,
		startedAt: time.Now(),
	}
}

// SetJobs registers job references for manual triggering
// Called after jobs are registered in main.go
func (h *SystemHandlers) SetJobs(symbolImport, quoteUpdate, cacheCleanup scheduler.Job) {
	h.symbolImportJob = symbolImport
	h.quoteUpdateJob = quoteUpdate
	h.cacheCleanupJob = cacheCleanup
}

// RegisterRoutes registers the system routes
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/status", h.HandleSystemStatus)
	})
	r.Route("/jobs", func(r chi.Router) {
		r.Post("/symbol-import", h.triggerJob(func() scheduler.Job { return h.symbolImportJob }))
		r.Post("/quote-update", h.triggerJob(func() scheduler.Job { return h.quoteUpdateJob }))
		r.Post("/cache-cleanup", h.triggerJob(func() scheduler.Job { return h.cacheCleanupJob }))
	})
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	SymbolCount   int     `json:"symbol_count"`
	QuoteCount    int     `json:"quote_count"`
	RateCount     int     `json:"rate_count"`
	PortfolioCnt  int     `json:"portfolio_count"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	DatabaseMB    float64 `json:"database_mb"`
}

// HandleSystemStatus returns comprehensive system status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	response := SystemStatusResponse{
		SymbolCount:   h.countRows("symbols"),
		QuoteCount:    h.countRows("daily_quotes"),
		RateCount:     h.countRows("currency_rates"),
		PortfolioCnt:  h.countRows("portfolios"),
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		DatabaseMB:    h.databaseSizeMB(),
	}
	response.CPUPercent, response.RAMPercent = h.getSystemStats()

	h.writeJSON(w, response)
}

func (h *SystemHandlers) triggerJob(get func() scheduler.Job) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job := get()
		if job == nil {
			h.writeJSON(w, map[string]string{
				"status":  "error",
				"message": "Job not registered",
			})
			return
		}

		h.log.Info().Str("job", job.Name()).Msg("Manual job trigger")
		if err := h.scheduler.RunNow(job); err != nil {
			h.log.Error().Err(err).Str("job", job.Name()).Msg("Manual job run failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		h.writeJSON(w, map[string]string{
			"status":  "success",
			"message": job.Name() + " triggered successfully",
		})
	}
}

func (h *SystemHandlers) countRows(table string) int {
	var count int
	if err := h.db.Conn().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		h.log.Warn().Err(err).Str("table", table).Msg("Failed to count rows")
		return 0
	}
	return count
}

func (h *SystemHandlers) databaseSizeMB() float64 {
	info, err := os.Stat(h.db.Path())
	if err != nil {
		return 0
	}
	return float64(info.Size()) / 1024 / 1024
}

// getSystemStats calculates CPU and RAM usage percentages.
// A 100ms sampling interval keeps the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
