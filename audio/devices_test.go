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

func testDevices() []probedDevice {
	return []probedDevice{
		{info: model.AudioDevice{Index: 0, Name: "mic", InputChannels: 1, Probed: true}, sampleRates: []uint{16000, 48000, 44100}},
		{info: model.AudioDevice{Index: 1, Name: "card", OutputChannels: 2, InputChannels: 2, Probed: true}, sampleRates: []uint{96000, 44100, 48000}},
		{info: model.AudioDevice{Index: 2, Name: "hdmi", OutputChannels: 8, Probed: true}, sampleRates: []uint{32000, 48000}},
		{info: model.AudioDevice{Index: 3, Name: "loop", OutputChannels: 2, InputChannels: 2}, sampleRates: []uint{}},
	}
}

func TestDeviceTableLoadPicksOutput(t *testing.T) {
	table := newDeviceTable(256)

	table.load(testDevices(), 2)
	assert.Equal(t, 2, table.output)
	assert.Equal(t, model.NoDevice, table.input)
	assert.Equal(t, uint(48000), table.sampleRate)

	// the preferred device has no outputs, so the first output is used
	table.load(testDevices(), 0)
	assert.Equal(t, 1, table.output)
	assert.Equal(t, uint(96000), table.sampleRate)

	table.load(nil, 0)
	assert.Equal(t, model.NoDevice, table.output)
	assert.Equal(t, uint(0), table.sampleRate)
}

func TestNewDeviceTableBufferSize(t *testing.T) {
	assert.Equal(t, uint(256), newDeviceTable(256).bufferSize)
	assert.Equal(t, uint(512), newDeviceTable(300).bufferSize)
	assert.Equal(t, uint(512), newDeviceTable(0).bufferSize)
}

func TestPairSampleRates(t *testing.T) {
	tests := []struct {
		name   string
		output int
		input  int
		want   []uint
	}{
		{"none", model.NoDevice, model.NoDevice, []uint{}},
		{"output only", 1, model.NoDevice, []uint{44100, 48000, 96000}},
		{"input only", model.NoDevice, 0, []uint{16000, 44100, 48000}},
		{"intersection", 2, 0, []uint{48000}},
		{"unprobed side ignored", 2, 3, []uint{32000, 48000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newDeviceTable(512)
			table.devices = testDevices()
			table.output = tt.output
			table.input = tt.input

			assert.Equal(t, tt.want, table.pairSampleRates())
		})
	}
}

func TestDeviceTableSetters(t *testing.T) {
	table := newDeviceTable(512)
	table.load(testDevices(), 1)
	require.Equal(t, uint(96000), table.sampleRate)

	assert.ErrorIs(t, table.setOutput(0), driver.ErrNoOutputChannels)
	assert.ErrorIs(t, table.setOutput(3), driver.ErrNoOutputChannels)
	assert.ErrorIs(t, table.setOutput(9), driver.ErrUnknownDevice)
	assert.ErrorIs(t, table.setInput(2), driver.ErrNoInputChannels)
	assert.Equal(t, 1, table.output)

	// the pair only shares 44100 and 48000, so the rate drops to the best of those
	require.NoError(t, table.setInput(0))
	assert.Equal(t, uint(48000), table.sampleRate)

	require.NoError(t, table.setSampleRate(44100))
	assert.ErrorIs(t, table.setSampleRate(96000), driver.ErrUnsupportedSampleRate)
	assert.Equal(t, uint(44100), table.sampleRate)

	// a device change always goes back to the best rate of the new pair
	require.NoError(t, table.setInput(model.NoDevice))
	assert.Equal(t, uint(96000), table.sampleRate)

	require.NoError(t, table.setOutput(model.NoDevice))
	assert.Equal(t, uint(0), table.sampleRate)

	require.NoError(t, table.setBufferSize(1024))
	assert.ErrorIs(t, table.setBufferSize(1000), driver.ErrInvalidBufferSize)
	assert.Equal(t, uint(1024), table.bufferSize)
}

func TestDeviceTableListKeepsOrder(t *testing.T) {
	table := newDeviceTable(512)
	table.load(testDevices(), 1)

	names := make([]string, 0)
	for _, device := range table.list() {
		names = append(names, device.Name)
	}

	assert.Equal(t, []string{"mic", "card", "hdmi", "loop"}, names)
}

func TestDeviceTableDeviceChangeResetsRate(t *testing.T) {
	table := newDeviceTable(512)
	table.load(testDevices(), 1)

	require.NoError(t, table.setSampleRate(44100))
	require.NoError(t, table.setOutput(2))
	assert.Equal(t, uint(48000), table.sampleRate)

	require.NoError(t, table.setSampleRate(32000))
	table.load(testDevices(), 2)
	assert.Equal(t, uint(48000), table.sampleRate)
}
