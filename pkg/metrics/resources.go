package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage is a snapshot of the process' resource consumption.
type ResourceUsage struct {
	RSSBytes   uint64
	CPUSeconds float64
	Threads    int32
}

// SampleResources reads the current process statistics and updates
// ProcessRSS.
func SampleResources() (ResourceUsage, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // pid fits in int32
	if err != nil {
		return ResourceUsage{}, err
	}

	var usage ResourceUsage
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return ResourceUsage{}, err
	}
	usage.RSSBytes = memInfo.RSS
	ProcessRSS.Set(float64(memInfo.RSS))

	if cpuTime, err := proc.Times(); err == nil {
		usage.CPUSeconds = cpuTime.User + cpuTime.System
	}
	usage.Threads, _ = proc.NumThreads()
	return usage, nil
}

// WriteTextfile writes every metric of the default registry to path in the
// Prometheus text format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
