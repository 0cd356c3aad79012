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
	"log/slog"
	"strings"
	"time"

	"digidaw/audio/driver"
	"digidaw/model"
)

// SimulatedEngine pretends to be audio hardware described by the
// configuration. Its stream runs the mixer on a ticker and throws the
// output away.
type SimulatedEngine struct {
	mixer   *ToneMixer
	options *model.SimulationOptions

	current model.APIID
	table   deviceTable

	running    bool
	stopStream chan bool
}

var _ driver.Engine = (*SimulatedEngine)(nil)

func NewSimulatedEngine(mixer *ToneMixer, options *model.SimulationOptions, preferredAPI string, bufferSize uint) *SimulatedEngine {
	if options == nil || len(options.APIs) == 0 {
		options = model.DefaultSimulationOptions()
	}

	engine := &SimulatedEngine{
		mixer:   mixer,
		options: options,
		table:   newDeviceTable(bufferSize),
	}

	engine.current = engine.firstUsableAPI()
	for i, api := range options.APIs {
		if strings.EqualFold(api.Name, preferredAPI) && engine.deviceCount(api.Name) > 0 {
			engine.current = model.APIID(i)
		}
	}

	engine.initializeDevices()

	return engine
}

func (engine *SimulatedEngine) SupportedAPIs() ([]model.APIID, error) {
	apis := make([]model.APIID, 0)

	for i, api := range engine.options.APIs {
		// like the real backends, an api without devices is not offered
		if engine.deviceCount(api.Name) > 0 {
			apis = append(apis, model.APIID(i))
		}
	}

	return apis, nil
}

func (engine *SimulatedEngine) CurrentAPI() model.APIID {
	return engine.current
}

func (engine *SimulatedEngine) APIDisplayName(api model.APIID) string {
	if int(api) < 0 || int(api) >= len(engine.options.APIs) {
		return "Unknown"
	}

	return engine.options.APIs[api].Name
}

func (engine *SimulatedEngine) ChangeBackend(api model.APIID) error {
	if int(api) < 0 || int(api) >= len(engine.options.APIs) {
		return fmt.Errorf("%w: %d", driver.ErrUnknownAPI, api)
	}

	if err := engine.Stop(); err != nil {
		return err
	}

	engine.current = api
	engine.initializeDevices()

	return nil
}

func (engine *SimulatedEngine) QueryDevices() ([]model.AudioDevice, error) {
	return engine.table.list(), nil
}

func (engine *SimulatedEngine) SupportedSampleRates() ([]uint, error) {
	return engine.table.pairSampleRates(), nil
}

func (engine *SimulatedEngine) OutputDevice() int {
	return engine.table.output
}

func (engine *SimulatedEngine) SetOutputDevice(index int) error {
	return engine.reconfigure(func() error { return engine.table.setOutput(index) })
}

func (engine *SimulatedEngine) InputDevice() int {
	return engine.table.input
}

func (engine *SimulatedEngine) SetInputDevice(index int) error {
	return engine.reconfigure(func() error { return engine.table.setInput(index) })
}

func (engine *SimulatedEngine) SampleRate() uint {
	return engine.table.sampleRate
}

func (engine *SimulatedEngine) SetSampleRate(rate uint) error {
	return engine.reconfigure(func() error { return engine.table.setSampleRate(rate) })
}

func (engine *SimulatedEngine) BufferSize() uint {
	return engine.table.bufferSize
}

func (engine *SimulatedEngine) SetBufferSize(size uint) error {
	return engine.reconfigure(func() error { return engine.table.setBufferSize(size) })
}

func (engine *SimulatedEngine) Start() error {
	if engine.running {
		return nil
	}

	if engine.table.output == model.NoDevice {
		return driver.ErrNoOutputDevice
	}

	device, _ := engine.table.get(engine.table.output)
	sampleRate := engine.table.sampleRate
	bufferSize := engine.table.bufferSize

	if sampleRate == 0 {
		return fmt.Errorf("%w: no common sample rate", driver.ErrUnsupportedSampleRate)
	}

	engine.stopStream = make(chan bool, 1)
	engine.running = true

	go engine.runStream(engine.stopStream, int(device.info.OutputChannels), sampleRate, bufferSize)

	slog.Debug(fmt.Sprintf("Simulation: stream started on %s at %dhz / %d frames", device.info.Name, sampleRate, bufferSize))

	return nil
}

func (engine *SimulatedEngine) Stop() error {
	if !engine.running {
		return nil
	}

	engine.stopStream <- true
	engine.running = false

	slog.Debug("Simulation: stream stopped")

	return nil
}

func (engine *SimulatedEngine) Pause() error {
	return engine.Stop()
}

func (engine *SimulatedEngine) Close() error {
	return engine.Stop()
}

//
// private functions
//

func (engine *SimulatedEngine) deviceCount(apiName string) int {
	count := 0

	for _, device := range engine.options.Devices {
		if strings.EqualFold(device.API, apiName) {
			count++
		}
	}

	return count
}

// firstUsableAPI returns the first api that has devices, or 0 when none has
func (engine *SimulatedEngine) firstUsableAPI() model.APIID {
	for i, api := range engine.options.APIs {
		if engine.deviceCount(api.Name) > 0 {
			return model.APIID(i)
		}
	}

	return 0
}

func (engine *SimulatedEngine) initializeDevices() {
	apiName := engine.APIDisplayName(engine.current)
	devices := make([]probedDevice, 0)
	preferredOutput := model.NoDevice

	for _, device := range engine.options.Devices {
		if !strings.EqualFold(device.API, apiName) {
			continue
		}

		index := len(devices)
		probed := probedDevice{
			info: model.AudioDevice{
				Index:               index,
				Name:                device.Name,
				OutputChannels:      device.OutputChannels,
				InputChannels:       device.InputChannels,
				PreferredSampleRate: device.PreferredSampleRate,
				Probed:              !device.Unprobed,
			},
			sampleRates: device.SampleRates,
		}

		if device.Unprobed {
			probed.sampleRates = []uint{}
		}

		if device.Default {
			preferredOutput = index
		}

		devices = append(devices, probed)
	}

	engine.table.load(devices, preferredOutput)
}

// reconfigure applies a change and restarts the stream if it was running.
// When the stream cannot restart with the new configuration the previous one
// is put back, so a refused change leaves the engine as it was.
func (engine *SimulatedEngine) reconfigure(change func() error) error {
	wasRunning := engine.running
	previous := engine.table

	if err := change(); err != nil {
		engine.table = previous
		return err
	}

	if !wasRunning {
		return nil
	}

	if err := engine.Stop(); err != nil {
		return err
	}

	if err := engine.Start(); err != nil {
		engine.table = previous

		if restartErr := engine.Start(); restartErr != nil {
			slog.Warn(fmt.Sprintf("Simulation: failed to restart stream: %s", restartErr.Error()))
		}

		return err
	}

	return nil
}

func (engine *SimulatedEngine) runStream(stop chan bool, channels int, sampleRate uint, bufferSize uint) {
	buffers := make([][]float32, channels)
	for i := range buffers {
		buffers[i] = make([]float32, bufferSize)
	}

	period := time.Duration(float64(bufferSize) / float64(sampleRate) * float64(time.Second))
	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			engine.mixer.Mix(buffers, sampleRate)
		}
	}
}
