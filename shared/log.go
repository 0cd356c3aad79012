// =================================================================================
//
//			digidaw - a terminal front end for the DigiDAW audio engine
//
//		 DigiDAW configures audio backends and devices and verifies them with
//	  a short test tone, using PortAudio or the JACK audio server
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package shared

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type LogHandler func(slog.Level, string)

var (
	stockStderr *os.File
	stockStdout *os.File
	logSinks    = make([]LogHandler, 0)
)

//------------------------------------------------------------------
// public functions
//------------------------------------------------------------------

// HijackLogging points stdout and stderr at pipes whose lines are handed to
// the log sinks. PortAudio and JACK print straight to the standard streams,
// which would otherwise tear up the TUI. The returned function restores the
// original streams.
func HijackLogging() func() {
	stockStdout = os.Stdout
	stockStderr = os.Stderr

	stdout_r, stdout_w, err := os.Pipe()
	if err != nil {
		fmt.Fprintln(stockStderr, err)
		return func() {}
	}
	go logProcessor(stdout_r, slog.LevelInfo)

	stderr_r, stderr_w, err := os.Pipe()
	if err != nil {
		fmt.Fprintln(stockStderr, err)
		stdout_w.Close()
		return func() {}
	}
	go logProcessor(stderr_r, slog.LevelWarn)

	os.Stdout = stdout_w
	os.Stderr = stderr_w

	return func() {
		os.Stdout = stockStdout
		os.Stderr = stockStderr

		stdout_w.Close()
		stderr_w.Close()
	}
}

func EnableSlogLogging() {
	AddLogSink(slogLogger)
}

func EnableStderrLogging() {
	AddLogSink(stderrLogger)
}

func AddLogSink(fn LogHandler) {
	logSinks = append(logSinks, fn)
}

//------------------------------------------------------------------
// private functions
//------------------------------------------------------------------

func stderrLogger(level slog.Level, message string) {
	dtm := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(stockStderr, "[%s] [%s] %s\n", dtm, level.String(), message)
}

func slogLogger(level slog.Level, message string) {
	slog.Log(context.Background(), level, "native: "+message)
}

func logProcessor(pipe *os.File, level slog.Level) {
	scanner := bufio.NewScanner(pipe)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		for _, logger := range logSinks {
			logger(level, line)
		}
	}
}
