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
package util

import (
	"os"
	"path/filepath"
	"testing"

	"digidaw/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))

	return filePath
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() { os.Chdir(cwd) })
}

func TestReadConfigYaml(t *testing.T) {
	filePath := writeFile(t, "digidaw.yml", `
engine: simulate
preferred_api: JACK
buffer_size: 128
log_level: debug
simulation_options:
  apis:
    - name: CoreAudio
  devices:
    - api: CoreAudio
      name: Built-in Output
      output_channels: 2
      sample_rates: [44100, 48000]
      default: true
`)

	config, err := ReadConfig(&model.CommandLineArgs{ConfigFile: filePath})
	require.NoError(t, err)

	assert.Equal(t, model.EngineSimulated, config.GetEngineType())
	assert.Equal(t, "JACK", config.PreferredAPI)
	assert.Equal(t, uint(128), config.BufferSize)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, AppName, config.JackClientName)
	require.NotNil(t, config.SimulationOptions)
	require.Len(t, config.SimulationOptions.Devices, 1)
	assert.Equal(t, []uint{44100, 48000}, config.SimulationOptions.Devices[0].SampleRates)
	assert.True(t, config.SimulationOptions.Devices[0].Default)
}

func TestReadConfigToml(t *testing.T) {
	filePath := writeFile(t, "digidaw.toml", `
engine = "jack"
jack_client_name = "studio"
buffer_size = 1024
`)

	config, err := ReadConfig(&model.CommandLineArgs{ConfigFile: filePath})
	require.NoError(t, err)

	assert.Equal(t, model.EngineJack, config.GetEngineType())
	assert.Equal(t, "studio", config.JackClientName)
	assert.Equal(t, uint(1024), config.BufferSize)
	assert.Nil(t, config.SimulationOptions)
}

func TestReadConfigFlagsOverrideFile(t *testing.T) {
	filePath := writeFile(t, "digidaw.yml", "engine: jack\nbuffer_size: 128\noutput_type: tui\n")

	config, err := ReadConfig(&model.CommandLineArgs{
		ConfigFile: filePath,
		Simulate:   true,
		BufferSize: 2048,
		OutputType: "json",
		API:        "ALSA",
	})
	require.NoError(t, err)

	assert.Equal(t, model.EngineSimulated, config.GetEngineType())
	assert.Equal(t, uint(2048), config.BufferSize)
	assert.Equal(t, model.OutputJSON, config.GetOutputType())
	assert.Equal(t, "ALSA", config.PreferredAPI)
	assert.NotNil(t, config.SimulationOptions)
}

func TestReadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args model.CommandLineArgs
	}{
		{"output type", model.CommandLineArgs{OutputType: "html"}},
		{"engine", model.CommandLineArgs{Engine: "asio"}},
		{"buffer size", model.CommandLineArgs{BufferSize: 100}},
		{"log level", model.CommandLineArgs{LogLevel: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())

			_, err := ReadConfig(&tt.args)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(&model.CommandLineArgs{ConfigFile: "/does/not/exist.yml"})
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestReadConfigBrokenFile(t *testing.T) {
	filePath := writeFile(t, "digidaw.yml", "engine: [jack\n")

	_, err := ReadConfig(&model.CommandLineArgs{ConfigFile: filePath})
	assert.Error(t, err)
}

func TestFindConfigFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yml"), []byte("engine: jack\n"), 0644))
	chdir(t, dir)

	filePath, err := FindConfigFile("custom.yml")
	require.NoError(t, err)
	assert.Equal(t, "custom.yml", filepath.Base(filePath))
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("TRACE")
	require.NoError(t, err)
	assert.Equal(t, LevelTrace, level)

	_, err = ParseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "48000hz", FormatSampleRate(48000))
	assert.Equal(t, "64 Samples", FormatBufferSize(64, 0))
	assert.Equal(t, "512 Samples (10.67ms)", FormatBufferSize(512, 48000))
	assert.InDelta(t, 23.22, LatencyMS(1024, 44100), 0.01)
}
