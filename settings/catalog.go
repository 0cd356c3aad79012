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
package settings

import (
	"fmt"
	"log/slog"

	"digidaw/audio/driver"
	"digidaw/model"
)

// FetchCatalog takes a fresh snapshot of what the engine reports. It never
// fails: a query the engine cannot answer leaves that part of the catalog
// empty.
func FetchCatalog(engine driver.Engine) model.DeviceCatalog {
	apis := make([]model.AudioAPI, 0)

	apiIDs, err := engine.SupportedAPIs()
	if err != nil {
		slog.Warn(fmt.Sprintf("Failed to query supported audio APIs: %s", err.Error()))
	}

	for _, id := range apiIDs {
		apis = append(apis, model.AudioAPI{
			ID:   id,
			Name: engine.APIDisplayName(id),
		})
	}

	devices, err := engine.QueryDevices()
	if err != nil {
		slog.Warn(fmt.Sprintf("Failed to query audio devices: %s", err.Error()))
		devices = nil
	}

	sampleRates, err := engine.SupportedSampleRates()
	if err != nil {
		slog.Warn(fmt.Sprintf("Failed to query supported sample rates: %s", err.Error()))
		sampleRates = nil
	}

	catalog := model.NewDeviceCatalog(apis, devices, sampleRates)

	slog.Debug(fmt.Sprintf("Fetched device catalog: %d apis, %d devices, %d sample rates", len(apis), len(devices), len(sampleRates)))

	return catalog
}

// ReadSelection builds a selection from the engine's current configuration
func ReadSelection(engine driver.Engine, page model.Page) model.SelectionState {
	return model.SelectionState{
		API:          engine.CurrentAPI(),
		OutputDevice: engine.OutputDevice(),
		InputDevice:  engine.InputDevice(),
		SampleRate:   engine.SampleRate(),
		BufferSize:   engine.BufferSize(),
		Page:         page,
	}
}
