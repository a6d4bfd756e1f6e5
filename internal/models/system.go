package models

// QueueStats is a point-in-time summary of one orchestrator instance.
type QueueStats struct {
	Active             int     `json:"active"`
	Queued             int     `json:"queued"`
	Completed          int     `json:"completed"`
	Failed             int     `json:"failed"`
	Cancelled          int     `json:"cancelled"`
	Total              int     `json:"total"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

type SystemStatus struct {
	Status           string     `json:"status"`
	Version          string     `json:"version"`
	UptimeSeconds    int64      `json:"uptime_seconds"`
	Downloads        QueueStats `json:"downloads"`
	Conversions      QueueStats `json:"conversions"`
	TempDirBytes     int64      `json:"temp_dir_bytes"`
	DiskUsagePercent float64    `json:"disk_usage_percent"`
	CPUUsagePercent  float64    `json:"cpu_usage_percent"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
