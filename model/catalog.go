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

import "slices"

// NoDevice is the device index of the "None" option in both device selectors
const NoDevice = -1

type APIID int

type AudioAPI struct {
	ID   APIID
	Name string
}

type AudioDevice struct {
	Index               int
	Name                string
	OutputChannels      uint
	InputChannels       uint
	PreferredSampleRate uint

	// Probed is false when the engine could not query channel and rate
	// metadata for the device. Unprobed devices never contribute sample rates.
	Probed bool
}

func (device AudioDevice) IsOutput() bool {
	return device.Probed && device.OutputChannels > 0
}

func (device AudioDevice) IsInput() bool {
	return device.Probed && device.InputChannels > 0
}

// DeviceCatalog is one snapshot of what the engine reported for the device
// pair that was active when it was fetched. It is never modified after
// NewDeviceCatalog returns; every accessor hands out a copy.
type DeviceCatalog struct {
	apis        []AudioAPI
	devices     []AudioDevice
	sampleRates []uint
}

func NewDeviceCatalog(apis []AudioAPI, devices []AudioDevice, sampleRates []uint) DeviceCatalog {
	return DeviceCatalog{
		apis:        slices.Clone(apis),
		devices:     slices.Clone(devices),
		sampleRates: slices.Clone(sampleRates),
	}
}

func (catalog DeviceCatalog) APIs() []AudioAPI {
	return slices.Clone(catalog.apis)
}

func (catalog DeviceCatalog) Devices() []AudioDevice {
	return slices.Clone(catalog.devices)
}

func (catalog DeviceCatalog) SampleRates() []uint {
	return slices.Clone(catalog.sampleRates)
}

// Device looks a device up by its engine index
func (catalog DeviceCatalog) Device(index int) (AudioDevice, bool) {
	for _, device := range catalog.devices {
		if device.Index == index {
			return device, true
		}
	}

	return AudioDevice{}, false
}

func (catalog DeviceCatalog) IsEmpty() bool {
	return len(catalog.apis) == 0 && len(catalog.devices) == 0 && len(catalog.sampleRates) == 0
}
