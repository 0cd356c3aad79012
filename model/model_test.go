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
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferSizes(t *testing.T) {
	assert.Equal(t, []uint{64, 128, 256, 512, 1024, 2048, 4096}, BufferSizes())
}

func TestIsValidBufferSize(t *testing.T) {
	for _, size := range BufferSizes() {
		assert.True(t, IsValidBufferSize(size), size)
	}

	for _, size := range []uint{0, 1, 32, 63, 100, 500, 8192} {
		assert.False(t, IsValidBufferSize(size), size)
	}
}

func TestCatalogIsACopy(t *testing.T) {
	devices := []AudioDevice{{Index: 0, Name: "card", OutputChannels: 2, Probed: true}}
	rates := []uint{48000}

	catalog := NewDeviceCatalog([]AudioAPI{{ID: 1, Name: "ALSA"}}, devices, rates)
	devices[0].Name = "changed"
	rates[0] = 1

	assert.Equal(t, "card", catalog.Devices()[0].Name)
	assert.Equal(t, []uint{48000}, catalog.SampleRates())

	catalog.Devices()[0].Name = "changed again"
	device, ok := catalog.Device(0)
	assert.True(t, ok)
	assert.Equal(t, "card", device.Name)

	_, ok = catalog.Device(4)
	assert.False(t, ok)

	assert.False(t, catalog.IsEmpty())
	assert.True(t, NewDeviceCatalog(nil, nil, nil).IsEmpty())
}

func TestDeviceUsability(t *testing.T) {
	assert.True(t, AudioDevice{OutputChannels: 2, Probed: true}.IsOutput())
	assert.False(t, AudioDevice{OutputChannels: 2}.IsOutput())
	assert.False(t, AudioDevice{InputChannels: 2, Probed: true}.IsOutput())
	assert.True(t, AudioDevice{InputChannels: 2, Probed: true}.IsInput())
}

func TestSelectionHasDevice(t *testing.T) {
	assert.False(t, SelectionState{OutputDevice: NoDevice, InputDevice: NoDevice}.HasDevice())
	assert.True(t, SelectionState{OutputDevice: NoDevice, InputDevice: 0}.HasDevice())
}

func TestConfigTypes(t *testing.T) {
	config := &Config{Engine: "JACK", OutputType: "json"}
	assert.Equal(t, EngineJack, config.GetEngineType())
	assert.Equal(t, OutputJSON, config.GetOutputType())

	config = &Config{Engine: "winmm", OutputType: ""}
	assert.Equal(t, EnginePortAudio, config.GetEngineType())
	assert.Equal(t, OutputTUI, config.GetOutputType())

	assert.Equal(t, "simulate", EngineSimulated.String())
	assert.Equal(t, "Audio Engine", PageAudioEngine.String())
}
