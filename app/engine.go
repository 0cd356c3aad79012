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
package app

import (
	"fmt"
	"log/slog"
	"os"

	"digidaw/audio"
	"digidaw/audio/driver"
	"digidaw/display"
	"digidaw/events"
	"digidaw/model"
	"digidaw/reaper"
	"digidaw/settings"
	"digidaw/shared"
	"digidaw/util"
)

func loadConfig() (*model.Config, error) {
	config, err := util.ReadConfig(&args)
	if err != nil {
		return nil, err
	}

	return config, nil
}

func newLevelVar(config *model.Config) *slog.LevelVar {
	levelVar := new(slog.LevelVar)

	level, err := util.ParseLogLevel(config.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	levelVar.Set(level)

	return levelVar
}

func ConfigureTextLogger(level slog.Leveler) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.LevelKey && attr.Value.Any() == util.LevelTrace {
				attr.Value = slog.StringValue("TRACE")
			}

			return attr
		},
	}))
	slog.SetDefault(logger)
}

func ConfigureUiLogger(ui display.UI, level slog.Leveler) func() {
	handler := shared.NewUiLogHandler(ui, level, nil)
	slog.SetDefault(slog.New(handler))

	restore := shared.HijackLogging()
	shared.EnableSlogLogging()

	return restore
}

func newEngine(config *model.Config, mixer *audio.ToneMixer) (driver.Engine, error) {
	switch config.GetEngineType() {
	case model.EngineJack:
		engine, err := audio.NewJackEngine(config.JackClientName, mixer)
		if err != nil {
			return nil, err
		}
		return engine, nil

	case model.EngineSimulated:
		return audio.NewSimulatedEngine(mixer, config.SimulationOptions, config.PreferredAPI, config.BufferSize), nil

	default:
		engine, err := audio.NewPortAudioEngine(mixer, config.PreferredAPI, config.BufferSize)
		if err != nil {
			return nil, err
		}
		return engine, nil
	}
}

func newUI(config *model.Config, bus *events.Bus, stdout *os.File) display.UI {
	if config.GetOutputType() == model.OutputJSON {
		return display.NewJsonUI(os.Stdin, stdout, bus, reaper.Reap)
	}

	return display.NewTui()
}

// traceEvents writes every bus event to the log at trace level
func traceEvents(bus *events.Bus) {
	bus.Subscribe(func(e events.CatalogFetchedEvent) {
		util.TraceLog("catalog fetched", "api", e.API, "devices", e.Devices, "sample_rates", e.SampleRates)
	})
	bus.Subscribe(func(e events.SelectionCommittedEvent) {
		util.TraceLog("selection committed", "control", e.Control, "value", e.Value, "refetch", e.Refetch)
	})
	bus.Subscribe(func(e events.CommitFailedEvent) {
		util.TraceLog("commit failed", "control", e.Control, "value", e.Value, "error", e.Error)
	})
	bus.Subscribe(func(e events.TestToneEvent) {
		util.TraceLog("test tone", "playing", e.Playing, "reason", e.Reason)
	})
	bus.Subscribe(func(e events.PanelClosedEvent) {
		util.TraceLog("settings panel closed")
	})
}

func runSettings(config *model.Config) error {
	levelVar := newLevelVar(config)

	// the json ui writes to the real stdout, which is hijacked below
	stdout := os.Stdout

	bus := events.New()
	ui := newUI(config, bus, stdout)
	ui.Initalize()

	restoreLogging := ConfigureUiLogger(ui, levelVar)
	traceEvents(bus)

	mixer := audio.NewToneMixer()
	engine, err := newEngine(config, mixer)
	if err != nil {
		restoreLogging()
		_ = bus.Close()
		return fmt.Errorf("failed to start the %s audio engine: %w", config.GetEngineType(), err)
	}

	slog.Info(fmt.Sprintf("Using the %s audio engine", config.GetEngineType()))

	ui.SetSettingsFactory(func(renderer settings.Renderer, dispatch func(func())) display.SettingsController {
		return settings.NewPanel(settings.PanelOptions{
			Engine:    engine,
			Mixer:     mixer,
			Renderer:  renderer,
			Scheduler: settings.NewScheduler(),
			Dispatch:  dispatch,
			Bus:       bus,
		})
	})

	// callbacks run in reverse, so "app" is released last
	reaper.Register("app")
	reaper.Callback("app", func() { reaper.Done("app") })
	reaper.Callback("audio engine", func() {
		if err := engine.Close(); err != nil {
			slog.Warn(fmt.Sprintf("Failed to close the audio engine: %s", err.Error()))
		}
	})
	reaper.Callback("event bus", func() { _ = bus.Close() })
	reaper.Callback("restore logging", func() {
		restoreLogging()
		ConfigureTextLogger(levelVar)
	})
	reaper.Callback("ui", ui.Shutdown)

	stopSignals := shared.CatchSignals(func() {
		slog.Info("Caught signal, calling reaper")
		reaper.Reap()
	})
	defer stopSignals()

	ui.Start()

	if config.GetOutputType() == model.OutputTUI {
		slog.Info("Press F2 to open the audio settings")
	}

	reaper.Wait()
	slog.Debug("Shut down cleanly")

	return nil
}
