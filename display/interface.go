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
package display

import (
	"log/slog"

	"digidaw/settings"
)

// SettingsController is the part of the settings panel a UI drives
type SettingsController interface {
	Show()
	HandleChange(control settings.ControlID, optionID int) error
	PressTestButton() error
	Teardown()
}

// SettingsFactory builds a fresh settings panel each time the UI opens one.
// dispatch runs a function on the UI's event goroutine.
type SettingsFactory func(renderer settings.Renderer, dispatch func(func())) SettingsController

type UI interface {
	Initalize()
	Start()
	Shutdown()
	IsShutdown() bool
	WaitForShutdown()
	SetSettingsFactory(factory SettingsFactory)
	OpenSettings()
	CloseSettings()
	IncrementErrorCount()
	WriteLevelLog(level slog.Level, message string)
}

// StatusText summarizes the engine configuration shown by a settings view
func StatusText(view settings.View) string {
	api := "None"
	sampleRate := "-"
	bufferSize := "-"

	if selector, ok := view.Selector(settings.ControlAPI); ok {
		if option, ok := selector.SelectedOption(); ok {
			api = option.Label
		}
	}

	if selector, ok := view.Selector(settings.ControlSampleRate); ok {
		if option, ok := selector.SelectedOption(); ok {
			sampleRate = option.Label
		}
	}

	if selector, ok := view.Selector(settings.ControlBufferSize); ok {
		if option, ok := selector.SelectedOption(); ok {
			bufferSize = option.Label
		}
	}

	return "Current API: " + api + "   Sample Rate: " + sampleRate + "   Buffer Size: " + bufferSize
}
