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

import "strings"

type OutputType int

const (
	OutputTUI OutputType = iota
	OutputJSON
)

var OutputTypeMap = map[string]OutputType{
	"tui":  OutputTUI,
	"json": OutputJSON,
}

type EngineType int

const (
	EnginePortAudio EngineType = iota
	EngineJack
	EngineSimulated
)

var EngineTypeMap = map[string]EngineType{
	"portaudio": EnginePortAudio,
	"jack":      EngineJack,
	"simulate":  EngineSimulated,
}

func (engineType EngineType) String() string {
	for name, value := range EngineTypeMap {
		if value == engineType {
			return name
		}
	}

	return "unknown"
}

type CommandLineArgs struct {
	Simulate   bool
	Engine     string
	ConfigFile string
	OutputType string
	API        string
	BufferSize uint
	LogLevel   string
}

type Config struct {
	Engine         string `yaml:"engine,omitempty" toml:"engine,omitempty"`
	PreferredAPI   string `yaml:"preferred_api,omitempty" toml:"preferred_api,omitempty"`
	BufferSize     uint   `yaml:"buffer_size,omitempty" toml:"buffer_size,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty" toml:"log_level,omitempty"`
	OutputType     string `yaml:"output_type,omitempty" toml:"output_type,omitempty"`
	JackClientName string `yaml:"jack_client_name,omitempty" toml:"jack_client_name,omitempty"`

	SimulationOptions *SimulationOptions `yaml:"simulation_options" toml:"simulation_options"`
}

type SimulationOptions struct {
	APIs    []SimulatedAPI    `yaml:"apis" toml:"apis"`
	Devices []SimulatedDevice `yaml:"devices" toml:"devices"`
}

type SimulatedAPI struct {
	Name string `yaml:"name" toml:"name"`
}

type SimulatedDevice struct {
	API                 string `yaml:"api" toml:"api"`
	Name                string `yaml:"name" toml:"name"`
	OutputChannels      uint   `yaml:"output_channels" toml:"output_channels"`
	InputChannels       uint   `yaml:"input_channels" toml:"input_channels"`
	SampleRates         []uint `yaml:"sample_rates" toml:"sample_rates"`
	PreferredSampleRate uint   `yaml:"preferred_sample_rate" toml:"preferred_sample_rate"`
	Unprobed            bool   `yaml:"unprobed,omitempty" toml:"unprobed,omitempty"`
	Default             bool   `yaml:"default,omitempty" toml:"default,omitempty"`
}

func (config *Config) GetEngineType() EngineType {
	if engineType, ok := EngineTypeMap[strings.ToLower(config.Engine)]; ok {
		return engineType
	}

	return EnginePortAudio
}

func (config *Config) GetOutputType() OutputType {
	if outputType, ok := OutputTypeMap[strings.ToLower(config.OutputType)]; ok {
		return outputType
	}

	return OutputTUI
}

// DefaultSimulationOptions describes a small, believable studio setup
func DefaultSimulationOptions() *SimulationOptions {
	return &SimulationOptions{
		APIs: []SimulatedAPI{
			{Name: "ALSA"},
			{Name: "JACK"},
		},
		Devices: []SimulatedDevice{
			{API: "ALSA", Name: "HDA Intel PCH: ALC892 Analog", OutputChannels: 2, InputChannels: 2, SampleRates: []uint{44100, 48000, 96000}, PreferredSampleRate: 48000, Default: true},
			{API: "ALSA", Name: "BEHRINGER X-USB", OutputChannels: 32, InputChannels: 32, SampleRates: []uint{44100, 48000}, PreferredSampleRate: 48000},
			{API: "ALSA", Name: "HDMI 0", OutputChannels: 8, SampleRates: []uint{32000, 44100, 48000}, PreferredSampleRate: 48000},
			{API: "ALSA", Name: "USB Microphone", InputChannels: 1, SampleRates: []uint{16000, 44100, 48000}, PreferredSampleRate: 44100},
			{API: "ALSA", Name: "Loopback", OutputChannels: 2, InputChannels: 2, Unprobed: true},
			{API: "JACK", Name: "system", OutputChannels: 2, InputChannels: 2, SampleRates: []uint{48000}, PreferredSampleRate: 48000, Default: true},
		},
	}
}
