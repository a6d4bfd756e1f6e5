package utils

import "github.com/shirou/gopsutil/cpu"

// CPUUsagePercent samples the instantaneous system-wide CPU load. Errors
// degrade to zero; the status endpoint treats the figure as advisory.
func CPUUsagePercent() float64 {
	usage, err := cpu.Percent(0, false)
	if err != nil || len(usage) == 0 {
		return 0
	}
	return usage[0]
}
