package metrics

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

// SysHealth is the process snapshot served by the health endpoint.
type SysHealth struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	AllocMB    uint64 `json:"allocMB"`
	SysMB      uint64 `json:"sysMB"`
	NumGC      uint32 `json:"numGC"`
	Goroutines int    `json:"goroutines"`
	// DatabaseSize is empty when metrics are disabled.
	DatabaseSize string `json:"databaseSize,omitempty"`
}

// GetSysHealth collects real-time health data for a process started at
// startedAt. dbPath may be empty.
func GetSysHealth(startedAt time.Time, dbPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h := SysHealth{
		Status:     "ok",
		Uptime:     time.Since(startedAt).Round(time.Second).String(),
		AllocMB:    m.Alloc / 1024 / 1024,
		SysMB:      m.Sys / 1024 / 1024,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
	if dbPath != "" {
		if info, err := os.Stat(dbPath); err == nil {
			h.DatabaseSize = formatBytes(info.Size())
		}
	}
	return h
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
