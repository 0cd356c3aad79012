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

// Package driver holds the audio engine contract shared by the native
// engines and the settings panel. It has no cgo dependencies.
package driver

import (
	"errors"

	"digidaw/model"
)

var (
	ErrUnknownAPI            = errors.New("unknown audio api")
	ErrUnknownDevice         = errors.New("unknown audio device")
	ErrNoOutputChannels      = errors.New("device has no usable output channels")
	ErrNoInputChannels       = errors.New("device has no usable input channels")
	ErrUnsupportedSampleRate = errors.New("sample rate not supported by the selected devices")
	ErrInvalidBufferSize     = errors.New("buffer size must be a power of two between 64 and 4096")
	ErrNoOutputDevice        = errors.New("no output device selected")
	ErrFixedByServer         = errors.New("value is controlled by the audio server")
)

// Engine is the audio subsystem as seen by the settings panel. The device and
// stream configuration behind it is process wide; callers must not mutate it
// from more than one goroutine at a time.
type Engine interface {
	SupportedAPIs() ([]model.APIID, error)
	CurrentAPI() model.APIID
	APIDisplayName(api model.APIID) string
	ChangeBackend(api model.APIID) error

	QueryDevices() ([]model.AudioDevice, error)
	SupportedSampleRates() ([]uint, error)

	OutputDevice() int
	SetOutputDevice(index int) error
	InputDevice() int
	SetInputDevice(index int) error
	SampleRate() uint
	SetSampleRate(rate uint) error
	BufferSize() uint
	SetBufferSize(size uint) error

	Start() error
	Stop() error
	Pause() error
	Close() error
}

// Mixer is the part of the mixer the settings panel drives
type Mixer interface {
	StartTestTone()
	EndTestTone()
}
