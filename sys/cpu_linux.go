//go:build linux

// Package sys provides methods to read system information used by the
// Task Manager to size its default parallelism and sample per-thread
// CPU occupancy.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package sys

import (
	"errors"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/kappasdr/streamcore/cmn/cos"
	"github.com/kappasdr/streamcore/cmn/nlog"
)

const (
	rootProcess     = "/proc/1/cgroup"
	contCPULimit    = "/sys/fs/cgroup/cpu/cpu.cfs_quota_us"
	contCPUPeriod   = "/sys/fs/cgroup/cpu/cpu.cfs_period_us"
	hostLoadAvgPath = "/proc/loadavg"
)

// isContainerized returns true if the process is running inside a
// container (docker/lxc/k8s).
// https://stackoverflow.com/questions/20010199/how-to-determine-if-a-process-runs-inside-lxc-docker
func isContainerized() (yes bool) {
	err := cos.ReadLines(rootProcess, func(line string) error {
		if strings.Contains(line, "docker") || strings.Contains(line, "lxc") || strings.Contains(line, "kube") {
			yes = true
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		nlog.Errorf("failed to read system info: %v", err)
	}
	return
}

// containerNumCPU returns an approximate number of CPUs allocated to
// the container. An unset quota (-1, the default) means unlimited.
func containerNumCPU() (int, error) {
	quotaInt, err := cos.ReadOneInt64(contCPULimit)
	if err != nil {
		return 0, err
	}
	if quotaInt <= 0 {
		return runtime.NumCPU(), nil
	}
	quota := uint64(quotaInt)
	period, err := cos.ReadOneUint64(contCPUPeriod)
	if err != nil {
		return 0, err
	}
	if period == 0 {
		return 0, errors.New("failed to read container CPU info")
	}
	approx := (quota + period - 1) / period
	return int(cos.MaxU64(approx, 1)), nil
}

// LoadAverage returns the host's 1/5/15-minute load average.
func LoadAverage() (avg LoadAvg, err error) {
	line, err := cos.ReadOneLine(hostLoadAvgPath)
	if err != nil {
		return avg, err
	}
	fields := strings.Fields(line)
	if avg.One, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return avg, err
	}
	if avg.Five, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return avg, err
	}
	avg.Fifteen, err = strconv.ParseFloat(fields[2], 64)
	return avg, err
}
