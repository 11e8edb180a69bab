// Package nlog is the runtime's logger: severity-leveled, buffered,
// timestamped, with size-based rotation and an optional stderr mirror.
/*
 * Copyright (c) 2023, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kappasdr/streamcore/cmn/mono"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

const severityChars = "IWE"

type nlog struct {
	mw      sync.Mutex
	w       *bufio.Writer
	file    *os.File
	sev     severity
	written atomic.Int64
	last    atomic.Int64
	erred   atomic.Bool
}

var (
	nlogs = [3]*nlog{
		sevInfo: newNlog(sevInfo),
		sevWarn: nil, // warnings fan into both info and error logs, like the upstream logger
		sevErr:  newNlog(sevErr),
	}

	toStderr     bool
	alsoToStderr bool

	logDir, aisrole string
	title           string

	onceInitFiles sync.Once
)

func newNlog(sev severity) *nlog { return &nlog{sev: sev} }

func (n *nlog) since(now int64) time.Duration { return time.Duration(now - n.last.Load()) }

func initFiles() {
	for _, sev := range []severity{sevInfo, sevErr} {
		n := nlogs[sev]
		if n == nil {
			continue
		}
		f, err := fcreate(sev, time.Now())
		if err != nil {
			n.erred.Store(true)
			continue
		}
		n.file = f
		n.w = bufio.NewWriterSize(f, fixedSize)
	}
}

const fixedSize = 64 * 1024

func log(sev severity, depth int, format string, args ...any) {
	onceInitFiles.Do(initFiles)

	line := sprintf(sev, depth+1, format, args...)

	switch {
	case !flag.Parsed():
		os.Stderr.WriteString("Error: logging before flag.Parse: ")
		os.Stderr.WriteString(line)
	case toStderr:
		os.Stderr.WriteString(line)
	default:
		if alsoToStderr || sev >= sevErr {
			os.Stderr.WriteString(line)
		}
		if sev >= sevWarn {
			write(nlogs[sevErr], line)
		}
		write(nlogs[sevInfo], line)
	}
}

func write(n *nlog, line string) {
	if n == nil || n.w == nil {
		return
	}
	n.mw.Lock()
	defer n.mw.Unlock()

	nw, _ := n.w.WriteString(line)
	n.written.Add(int64(nw))
	n.last.Store(mono.NanoTime())

	if n.written.Load() >= MaxSize {
		n.w.Flush()
		n.file.Close()
		if f, err := fcreate(n.sev, time.Now()); err == nil {
			n.file = f
			n.w = bufio.NewWriterSize(f, fixedSize)
			n.written.Store(0)
			n.erred.Store(false)
		} else {
			n.erred.Store(true)
		}
	}
}

func sprintf(sev severity, depth int, format string, args ...any) string {
	var sb strings.Builder
	formatHdr(sev, depth+1, &sb)
	if format == "" {
		fmt.Fprintln(&sb, args...)
	} else {
		fmt.Fprintf(&sb, format, args...)
		if !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func formatHdr(sev severity, depth int, sb *strings.Builder) {
	_, fn, ln, ok := runtime.Caller(depth + 1)
	sb.WriteByte(severityChars[sev])
	sb.WriteByte(' ')
	sb.WriteString(time.Now().Format("15:04:05.000000"))
	sb.WriteByte(' ')
	if !ok {
		return
	}
	if idx := strings.LastIndexByte(fn, filepath.Separator); idx >= 0 {
		fn = fn[idx+1:]
	}
	sb.WriteString(fn)
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(ln))
	sb.WriteByte(' ')
}
