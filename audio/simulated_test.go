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
package audio

import (
	"testing"

	"digidaw/audio/driver"
	"digidaw/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedEngineDefaults(t *testing.T) {
	engine := NewSimulatedEngine(NewToneMixer(), nil, "", 256)
	defer engine.Close()

	apis, err := engine.SupportedAPIs()
	require.NoError(t, err)
	assert.Equal(t, []model.APIID{0, 1}, apis)
	assert.Equal(t, "ALSA", engine.APIDisplayName(engine.CurrentAPI()))
	assert.Equal(t, "Unknown", engine.APIDisplayName(9))

	devices, err := engine.QueryDevices()
	require.NoError(t, err)
	assert.Len(t, devices, 5)
	assert.False(t, devices[4].Probed)

	assert.Equal(t, 0, engine.OutputDevice())
	assert.Equal(t, model.NoDevice, engine.InputDevice())
	assert.Equal(t, uint(96000), engine.SampleRate())
	assert.Equal(t, uint(256), engine.BufferSize())
}

func TestSimulatedEnginePreferredAPI(t *testing.T) {
	engine := NewSimulatedEngine(NewToneMixer(), model.DefaultSimulationOptions(), "jack", 512)
	defer engine.Close()

	assert.Equal(t, "JACK", engine.APIDisplayName(engine.CurrentAPI()))

	devices, _ := engine.QueryDevices()
	require.Len(t, devices, 1)
	assert.Equal(t, "system", devices[0].Name)
}

func TestSimulatedEngineChangeBackend(t *testing.T) {
	engine := NewSimulatedEngine(NewToneMixer(), nil, "", 512)
	defer engine.Close()

	require.NoError(t, engine.SetInputDevice(3))
	require.NoError(t, engine.ChangeBackend(1))

	assert.Equal(t, model.APIID(1), engine.CurrentAPI())
	assert.Equal(t, 0, engine.OutputDevice())
	assert.Equal(t, model.NoDevice, engine.InputDevice())
	assert.Equal(t, uint(48000), engine.SampleRate())

	assert.ErrorIs(t, engine.ChangeBackend(5), driver.ErrUnknownAPI)
}

func TestSimulatedEngineHidesEmptyAPIs(t *testing.T) {
	options := &model.SimulationOptions{
		APIs: []model.SimulatedAPI{{Name: "OSS"}, {Name: "ALSA"}},
		Devices: []model.SimulatedDevice{
			{API: "ALSA", Name: "card", OutputChannels: 2, SampleRates: []uint{48000}},
		},
	}

	engine := NewSimulatedEngine(NewToneMixer(), options, "alsa", 512)
	defer engine.Close()

	apis, _ := engine.SupportedAPIs()
	assert.Equal(t, []model.APIID{1}, apis)
	assert.Equal(t, 0, engine.OutputDevice())
}

func TestSimulatedEngineStream(t *testing.T) {
	engine := NewSimulatedEngine(NewToneMixer(), nil, "", 64)
	defer engine.Close()

	require.NoError(t, engine.Start())
	require.NoError(t, engine.Start())

	// changing the rate of a running stream restarts it
	require.NoError(t, engine.SetSampleRate(44100))
	require.NoError(t, engine.Stop())
	require.NoError(t, engine.Stop())

	require.NoError(t, engine.SetOutputDevice(model.NoDevice))
	assert.ErrorIs(t, engine.Start(), driver.ErrNoOutputDevice)
}

func TestSimulatedEngineDeviceChangeResetsRate(t *testing.T) {
	engine := NewSimulatedEngine(NewToneMixer(), nil, "ALSA", 256)
	defer engine.Close()

	require.NoError(t, engine.SetSampleRate(44100))
	require.NoError(t, engine.SetOutputDevice(2))
	assert.Equal(t, uint(48000), engine.SampleRate())
}

func TestSimulatedEngineRestoresConfigWhenRestartFails(t *testing.T) {
	engine := NewSimulatedEngine(NewToneMixer(), nil, "ALSA", 256)
	defer engine.Close()

	require.NoError(t, engine.Start())

	err := engine.SetOutputDevice(model.NoDevice)
	assert.ErrorIs(t, err, driver.ErrNoOutputDevice)

	assert.Equal(t, 0, engine.OutputDevice())
	assert.Equal(t, uint(96000), engine.SampleRate())
	assert.True(t, engine.running)
}

func TestSimulatedEngineSkipsAPIsWithoutDevices(t *testing.T) {
	options := &model.SimulationOptions{
		APIs: []model.SimulatedAPI{{Name: "OSS"}, {Name: "ALSA"}},
		Devices: []model.SimulatedDevice{
			{API: "ALSA", Name: "card", OutputChannels: 2, SampleRates: []uint{48000}},
		},
	}

	for _, preferred := range []string{"", "oss", "alsa"} {
		engine := NewSimulatedEngine(NewToneMixer(), options, preferred, 512)

		assert.Equal(t, model.APIID(1), engine.CurrentAPI(), preferred)
		assert.Equal(t, 0, engine.OutputDevice(), preferred)

		require.NoError(t, engine.Close())
	}
}

