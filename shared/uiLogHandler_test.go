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
	"log/slog"
	"testing"

	"digidaw/display"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logLine struct {
	level   slog.Level
	message string
}

type fakeUI struct {
	lines  []logLine
	errors int
}

func (ui *fakeUI) Initalize()                                         {}
func (ui *fakeUI) Start()                                             {}
func (ui *fakeUI) Shutdown()                                          {}
func (ui *fakeUI) IsShutdown() bool                                   { return false }
func (ui *fakeUI) WaitForShutdown()                                   {}
func (ui *fakeUI) SetSettingsFactory(factory display.SettingsFactory) {}
func (ui *fakeUI) OpenSettings()                                      {}
func (ui *fakeUI) CloseSettings()                                     {}
func (ui *fakeUI) IncrementErrorCount()                               { ui.errors++ }

func (ui *fakeUI) WriteLevelLog(level slog.Level, message string) {
	ui.lines = append(ui.lines, logLine{level: level, message: message})
}

func TestUiLogHandler(t *testing.T) {
	ui := &fakeUI{}
	errors := make([]string, 0)

	logger := slog.New(NewUiLogHandler(ui, slog.LevelInfo, func(message string) {
		errors = append(errors, message)
	}))

	logger.Debug("hidden")
	logger.Info("engine started", "api", "ALSA")
	logger.With("device", 2).WithGroup("stream").Error("open failed", "rate", 48000)

	require.Len(t, ui.lines, 2)
	assert.Equal(t, "engine started api=ALSA", ui.lines[0].message)
	assert.Equal(t, slog.LevelError, ui.lines[1].level)
	assert.Equal(t, "open failed stream.device=2 stream.rate=48000", ui.lines[1].message)

	assert.Equal(t, 1, ui.errors)
	assert.Equal(t, []string{"open failed stream.device=2 stream.rate=48000"}, errors)
}

func TestUiLogHandlerDynamicLevel(t *testing.T) {
	ui := &fakeUI{}
	level := &slog.LevelVar{}
	level.Set(slog.LevelWarn)

	logger := slog.New(NewUiLogHandler(ui, level, nil))

	logger.Info("skipped")
	level.Set(slog.LevelDebug)
	logger.Debug("shown")

	require.Len(t, ui.lines, 1)
	assert.Equal(t, "shown", ui.lines[0].message)
}
