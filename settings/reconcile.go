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

	"digidaw/model"
	"digidaw/util"
)

const noneLabel = "None"

// APIOptions lists one option per api in the catalog
func APIOptions(catalog model.DeviceCatalog, state model.SelectionState) []Option {
	apis := catalog.APIs()
	options := make([]Option, 0, len(apis))

	for _, api := range apis {
		options = append(options, Option{
			ID:       int(api.ID),
			Label:    api.Name,
			Selected: api.ID == state.API,
		})
	}

	return options
}

// OutputOptions lists "None" followed by every probed device with at least
// one output channel, in catalog order
func OutputOptions(catalog model.DeviceCatalog, state model.SelectionState) []Option {
	return deviceOptions(catalog, state.OutputDevice, model.AudioDevice.IsOutput)
}

// InputOptions lists "None" followed by every probed device with at least
// one input channel, in catalog order
func InputOptions(catalog model.DeviceCatalog, state model.SelectionState) []Option {
	return deviceOptions(catalog, state.InputDevice, model.AudioDevice.IsInput)
}

// SampleRateOptions is empty unless a device is selected and every selected
// device is known and probed
func SampleRateOptions(catalog model.DeviceCatalog, state model.SelectionState) []Option {
	options := make([]Option, 0)

	if !sampleRatesAvailable(catalog, state) {
		return options
	}

	for _, rate := range catalog.SampleRates() {
		options = append(options, Option{
			ID:       int(rate),
			Label:    util.FormatSampleRate(rate),
			Selected: rate == state.SampleRate,
		})
	}

	return options
}

func BufferSizeOptions(catalog model.DeviceCatalog, state model.SelectionState) []Option {
	sizes := model.BufferSizes()
	options := make([]Option, 0, len(sizes))

	for _, size := range sizes {
		options = append(options, Option{
			ID:       int(size),
			Label:    util.FormatBufferSize(size, state.SampleRate),
			Selected: size == state.BufferSize,
		})
	}

	return options
}

// Reconcile derives the whole panel from a catalog and a selection. It has no
// side effects; calling it twice with the same inputs gives the same view.
func Reconcile(catalog model.DeviceCatalog, state model.SelectionState) View {
	view := View{
		Page:     state.Page,
		PageName: state.Page.String(),
		Tabs: []Button{
			{ID: ControlAudioPage, Label: model.PageAudioEngine.String(), Enabled: true, Active: state.Page == model.PageAudioEngine},
			{ID: ControlMidiPage, Label: model.PageMidi.String(), Enabled: true, Active: state.Page == model.PageMidi},
		},
	}

	switch state.Page {
	case model.PageMidi:
		view.Text = MidiPageText
	case model.PageNone:
		view.Text = NoPageText
	}

	output := OutputOptions(catalog, state)
	input := InputOptions(catalog, state)

	view.Selectors = []Selector{
		{ID: ControlAPI, Label: "API Backend", Options: APIOptions(catalog, state)},
		{ID: ControlOutputDevice, Label: "Output Device", Options: output, Tooltip: deviceTooltip(catalog, output)},
		{ID: ControlInputDevice, Label: "Input Device", Options: input, Tooltip: deviceTooltip(catalog, input)},
		{ID: ControlSampleRate, Label: "Sample Rate", Options: SampleRateOptions(catalog, state)},
		{ID: ControlBufferSize, Label: "Buffer Size", Options: BufferSizeOptions(catalog, state)},
	}

	outputSelected := false
	if selected, ok := (Selector{Options: output}).SelectedOption(); ok && selected.ID != model.NoDevice {
		outputSelected = true
	}

	view.TestButton = Button{
		ID:      ControlTestButton,
		Label:   "Test",
		Enabled: outputSelected && !state.TestToneActive,
		Active:  state.TestToneActive,
	}

	if state.TestToneActive {
		view.TestButton.Label = "Playing..."
	}

	return view
}

//
// private functions
//

func deviceOptions(catalog model.DeviceCatalog, selected int, usable func(model.AudioDevice) bool) []Option {
	options := []Option{{
		ID:       model.NoDevice,
		Label:    noneLabel,
		Selected: selected == model.NoDevice,
	}}

	for _, device := range catalog.Devices() {
		if !usable(device) {
			continue
		}

		options = append(options, Option{
			ID:       device.Index,
			Label:    device.Name,
			Selected: device.Index == selected,
		})
	}

	return options
}

func sampleRatesAvailable(catalog model.DeviceCatalog, state model.SelectionState) bool {
	if !state.HasDevice() {
		return false
	}

	for _, index := range []int{state.OutputDevice, state.InputDevice} {
		if index == model.NoDevice {
			continue
		}

		device, ok := catalog.Device(index)
		if !ok || !device.Probed {
			return false
		}
	}

	return true
}

func deviceTooltip(catalog model.DeviceCatalog, options []Option) string {
	selected, ok := (Selector{Options: options}).SelectedOption()
	if !ok {
		return ""
	}

	if selected.ID == model.NoDevice {
		return noneLabel
	}

	device, _ := catalog.Device(selected.ID)

	return fmt.Sprintf("Output Channels: %d\nInput Channels: %d\nPreferred Sample Rate: %d",
		device.OutputChannels, device.InputChannels, device.PreferredSampleRate)
}
