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
	"fmt"
	"slices"

	"digidaw/audio/driver"
	"digidaw/model"
)

// standard rates tried when probing a device
var standardSampleRates = []uint{
	8000, 11025, 16000, 22050, 32000, 44100,
	48000, 88200, 96000, 176400, 192000}

type probedDevice struct {
	info        model.AudioDevice
	sampleRates []uint
}

// deviceTable holds the device list of one backend together with the
// current device pair, sample rate and buffer size. All engines share it.
type deviceTable struct {
	devices    []probedDevice
	output     int
	input      int
	sampleRate uint
	bufferSize uint
}

func newDeviceTable(bufferSize uint) deviceTable {
	if !model.IsValidBufferSize(bufferSize) {
		bufferSize = 512
	}

	return deviceTable{
		devices:    make([]probedDevice, 0),
		output:     model.NoDevice,
		input:      model.NoDevice,
		bufferSize: bufferSize,
	}
}

// load replaces the device list and selects the preferred devices, falling
// back to the first usable device for output. Input starts out as None.
func (table *deviceTable) load(devices []probedDevice, preferredOutput int) {
	table.devices = devices
	table.output = model.NoDevice
	table.input = model.NoDevice

	if device, ok := table.get(preferredOutput); ok && device.info.IsOutput() {
		table.output = preferredOutput
	} else {
		for _, device := range table.devices {
			if device.info.IsOutput() {
				table.output = device.info.Index
				break
			}
		}
	}

	table.resetSampleRate()
}

func (table *deviceTable) list() []model.AudioDevice {
	devices := make([]model.AudioDevice, len(table.devices))

	for i, device := range table.devices {
		devices[i] = device.info
	}

	return devices
}

func (table *deviceTable) get(index int) (probedDevice, bool) {
	for _, device := range table.devices {
		if device.info.Index == index {
			return device, true
		}
	}

	return probedDevice{}, false
}

// pairSampleRates returns the rates usable by the current device pair. With
// one side None or unprobed the other side's rates are used, otherwise the
// sorted intersection of both.
func (table *deviceTable) pairSampleRates() []uint {
	output, hasOutput := table.get(table.output)
	input, hasInput := table.get(table.input)

	hasOutput = hasOutput && output.info.Probed
	hasInput = hasInput && input.info.Probed

	switch {
	case hasOutput && !hasInput:
		return sortedRates(output.sampleRates)
	case hasInput && !hasOutput:
		return sortedRates(input.sampleRates)
	case !hasInput && !hasOutput:
		return []uint{}
	}

	common := make([]uint, 0)
	for _, rate := range sortedRates(output.sampleRates) {
		if slices.Contains(input.sampleRates, rate) {
			common = append(common, rate)
		}
	}

	return common
}

// resetSampleRate picks the highest rate the device pair has in common, or 0
// when there is none. It runs on every backend and device change, so a rate
// chosen for the previous pair is not carried over.
func (table *deviceTable) resetSampleRate() {
	rates := table.pairSampleRates()

	if len(rates) == 0 {
		table.sampleRate = 0
		return
	}

	table.sampleRate = slices.Max(rates)
}

func (table *deviceTable) setOutput(index int) error {
	if index != model.NoDevice {
		device, ok := table.get(index)
		if !ok {
			return fmt.Errorf("%w: %d", driver.ErrUnknownDevice, index)
		}

		if !device.info.IsOutput() {
			return fmt.Errorf("%w: %s", driver.ErrNoOutputChannels, device.info.Name)
		}
	}

	table.output = index
	table.resetSampleRate()

	return nil
}

func (table *deviceTable) setInput(index int) error {
	if index != model.NoDevice {
		device, ok := table.get(index)
		if !ok {
			return fmt.Errorf("%w: %d", driver.ErrUnknownDevice, index)
		}

		if !device.info.IsInput() {
			return fmt.Errorf("%w: %s", driver.ErrNoInputChannels, device.info.Name)
		}
	}

	table.input = index
	table.resetSampleRate()

	return nil
}

func (table *deviceTable) setSampleRate(rate uint) error {
	if !slices.Contains(table.pairSampleRates(), rate) {
		return fmt.Errorf("%w: %dhz", driver.ErrUnsupportedSampleRate, rate)
	}

	table.sampleRate = rate

	return nil
}

func (table *deviceTable) setBufferSize(size uint) error {
	if !model.IsValidBufferSize(size) {
		return fmt.Errorf("%w: %d", driver.ErrInvalidBufferSize, size)
	}

	table.bufferSize = size

	return nil
}

func sortedRates(rates []uint) []uint {
	sorted := slices.Clone(rates)
	slices.Sort(sorted)

	return slices.Compact(sorted)
}
