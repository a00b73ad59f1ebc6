// Package sysinfo wraps gopsutil probes for the health endpoints.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemInfo is the descriptive CPU/platform payload.
type SystemInfo struct {
	Hostname        string  `json:"hostname"`
	OS              string  `json:"os"`
	Platform        string  `json:"platform"`
	PlatformVersion string  `json:"platform_version"`
	Arch            string  `json:"arch"`
	CPUModel        string  `json:"cpu_model"`
	CPUCores        int     `json:"cpu_cores"`
	CPUMhz          float64 `json:"cpu_mhz"`
	GoVersion       string  `json:"go_version"`
}

// ProcessInfo is one row of the process listing.
type ProcessInfo struct {
	PID      int32  `json:"pid"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// processAllowList holds the process-name substrings the listing is limited
// to, so the endpoint cannot leak unrelated host processes.
var processAllowList = []string{
	"go",
	"api",
	"userbase",
	"postgres",
	"sqlite",
	"caddy",
	"nginx",
}

// GetSystemInfo collects CPU and platform data.
func GetSystemInfo(ctx context.Context) (*SystemInfo, error) {
	hostInfo, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read host info: %w", err)
	}

	info := &SystemInfo{
		Hostname:        hostInfo.Hostname,
		OS:              hostInfo.OS,
		Platform:        hostInfo.Platform,
		PlatformVersion: hostInfo.PlatformVersion,
		Arch:            runtime.GOARCH,
		GoVersion:       runtime.Version(),
	}

	cpus, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cpu info: %w", err)
	}
	if len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
		info.CPUMhz = cpus[0].Mhz
	}

	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count cpus: %w", err)
	}
	info.CPUCores = cores

	return info, nil
}

// GetProcesses enumerates OS processes whose name matches the allow-list.
func GetProcesses(ctx context.Context) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	result := make([]ProcessInfo, 0)
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || !Allowed(name) {
			continue
		}
		// Username can be unavailable for foreign processes; keep the row.
		username, _ := p.UsernameWithContext(ctx)
		result = append(result, ProcessInfo{
			PID:      p.Pid,
			Name:     name,
			Username: username,
		})
	}

	return result, nil
}

// Allowed reports whether a process name matches the allow-list.
func Allowed(name string) bool {
	lowered := strings.ToLower(name)
	for _, substr := range processAllowList {
		if strings.Contains(lowered, substr) {
			return true
		}
	}
	return false
}
