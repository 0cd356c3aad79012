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

import "digidaw/model"

type ControlID string

const (
	ControlAPI          ControlID = "api-dropdown"
	ControlOutputDevice ControlID = "output-dropdown"
	ControlInputDevice  ControlID = "input-dropdown"
	ControlSampleRate   ControlID = "samplerate-dropdown"
	ControlBufferSize   ControlID = "buffersize-dropdown"
	ControlTestButton   ControlID = "test-button"
	ControlAudioPage    ControlID = "audio-button"
	ControlMidiPage     ControlID = "midi-button"
)

// SelectorOrder is the order the panel lays its selectors out in
var SelectorOrder = []ControlID{
	ControlAPI,
	ControlOutputDevice,
	ControlInputDevice,
	ControlSampleRate,
	ControlBufferSize,
}

const (
	MidiPageText = "[WIP]"
	NoPageText   = "Select an option on the left"
)

type Option struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type Selector struct {
	ID      ControlID `json:"id"`
	Label   string    `json:"label"`
	Options []Option  `json:"options"`
	Tooltip string    `json:"tooltip,omitempty"`
}

// SelectedIndex returns the position of the selected option, or -1 when no
// option is selected
func (selector Selector) SelectedIndex() int {
	for i, option := range selector.Options {
		if option.Selected {
			return i
		}
	}

	return -1
}

func (selector Selector) SelectedOption() (Option, bool) {
	index := selector.SelectedIndex()
	if index < 0 {
		return Option{}, false
	}

	return selector.Options[index], true
}

func (selector Selector) Contains(id int) bool {
	for _, option := range selector.Options {
		if option.ID == id {
			return true
		}
	}

	return false
}

type Button struct {
	ID      ControlID `json:"id"`
	Label   string    `json:"label"`
	Enabled bool      `json:"enabled"`
	Active  bool      `json:"active"`
}

// View is everything a renderer needs to draw the settings panel. It is
// derived from a catalog and a selection and carries no other state.
type View struct {
	Page       model.Page `json:"page"`
	PageName   string     `json:"page_name"`
	Tabs       []Button   `json:"tabs"`
	Selectors  []Selector `json:"selectors"`
	TestButton Button     `json:"test_button"`
	Text       string     `json:"text,omitempty"`
}

func (view View) Selector(id ControlID) (Selector, bool) {
	for _, selector := range view.Selectors {
		if selector.ID == id {
			return selector, true
		}
	}

	return Selector{}, false
}
