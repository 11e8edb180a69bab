//go:build !linux

// Package sys provides methods to read system information used by the
// Task Manager to size its default parallelism and sample per-thread
// CPU occupancy.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package sys

import "errors"

func isContainerized() bool { return false }

func containerNumCPU() (int, error) { return 0, errors.New("container CPU detection: linux only") }

func LoadAverage() (LoadAvg, error) { return LoadAvg{}, errors.New("load average: linux only") }
