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

type Page int8

const (
	PageNone Page = iota
	PageAudioEngine
	PageMidi
)

var pageNames = map[Page]string{
	PageNone:        "None",
	PageAudioEngine: "Audio Engine",
	PageMidi:        "MIDI",
}

func (page Page) String() string {
	if name, ok := pageNames[page]; ok {
		return name
	}

	return "unknown"
}

const (
	MinBufferSize uint = 64
	MaxBufferSize uint = 4096
)

// SelectionState is the settings panel's record of what is currently chosen.
// A SampleRate of 0 means unset.
type SelectionState struct {
	API            APIID
	OutputDevice   int
	InputDevice    int
	SampleRate     uint
	BufferSize     uint
	Page           Page
	TestToneActive bool
}

// BufferSizes lists every selectable buffer size, smallest first
func BufferSizes() []uint {
	sizes := make([]uint, 0)

	for size := MinBufferSize; size <= MaxBufferSize; size *= 2 {
		sizes = append(sizes, size)
	}

	return sizes
}

func IsValidBufferSize(size uint) bool {
	if size < MinBufferSize || size > MaxBufferSize {
		return false
	}

	return size&(size-1) == 0
}

func (state SelectionState) HasDevice() bool {
	return state.OutputDevice != NoDevice || state.InputDevice != NoDevice
}
