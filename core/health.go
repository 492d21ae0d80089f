package core

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"
	"time"
)

const appVersion = "1.0.0"

// HealthStatus is the aggregated payload returned by the health endpoint.
type HealthStatus struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Database      bool      `json:"database"`
	Memory        struct {
		UsedBytes  uint64 `json:"used_bytes"`
		TotalBytes uint64 `json:"total_bytes"`
	} `json:"memory"`
}

// pinger covers the pgxpool.Pool Ping method for health checks.
type pinger interface {
	Ping(ctx context.Context) error
}

// CollectHealth aggregates process health: database reachability, memory,
// and uptime. Memory is best-effort; a failed read reports zeros.
func CollectHealth(ctx context.Context, db pinger, startedAt time.Time) HealthStatus {
	st := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   appVersion,
	}

	if db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		st.Database = db.Ping(pingCtx) == nil
		if !st.Database {
			st.Status = "degraded"
		}
	}

	used, total := readMemInfo()
	st.Memory.UsedBytes = used
	st.Memory.TotalBytes = total

	if !startedAt.IsZero() {
		st.UptimeSeconds = int64(time.Since(startedAt).Seconds())
	}
	return st
}

// readMemInfo returns used and total bytes using /proc/meminfo.
// If unavailable, returns zeros.
func readMemInfo() (used, total uint64) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	var memTotal, memAvailable uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "MemTotal:") {
			memTotal = parseKiBLine(line)
		} else if strings.HasPrefix(line, "MemAvailable:") {
			memAvailable = parseKiBLine(line)
		}
	}
	if memTotal > 0 {
		total = memTotal
		if memAvailable <= memTotal {
			used = memTotal - memAvailable
		}
		// convert KiB -> bytes
		used *= 1024
		total *= 1024
	}
	return used, total
}

func parseKiBLine(line string) uint64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
