// Package nlog - file naming, creation, and rotation bookkeeping.
/*
 * Copyright (c) 2023, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	host string
	pid  = os.Getpid()
)

func init() {
	if h, err := os.Hostname(); err == nil {
		host = h
	} else {
		host = "localhost"
	}
}

var sevText = [3]string{sevInfo: "INFO", sevWarn: "WARN", sevErr: "ERROR"}

func sname() string {
	if aisrole != "" {
		return aisrole
	}
	return "streamcore"
}

func logfname(tag string, t time.Time) string {
	return fmt.Sprintf("%s.%s.%s.%s.%d.log", sname(), host, tag, t.Format("20060102-150405"), pid)
}

func fcreate(sev severity, t time.Time) (*os.File, error) {
	dir := logDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, logfname(sevText[sev], t))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	if title != "" {
		f.WriteString(title + "\n")
	}
	return f, nil
}
