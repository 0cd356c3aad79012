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

	"digidaw/audio/driver"
	"digidaw/model"

	"github.com/gordonklaus/portaudio"
)

// PortAudioEngine exposes every PortAudio host API that reports at least one
// device as a selectable backend
type PortAudioEngine struct {
	mixer *ToneMixer

	hostApis  []*portaudio.HostApiInfo
	current   *portaudio.HostApiInfo
	paDevices []*portaudio.DeviceInfo
	table     deviceTable

	stream  *portaudio.Stream
	running bool
}

var _ driver.Engine = (*PortAudioEngine)(nil)

func NewPortAudioEngine(mixer *ToneMixer, preferredAPI string, bufferSize uint) (*PortAudioEngine, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	hostApis, err := portaudio.HostApis()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to enumerate host apis: %w", err)
	}

	engine := &PortAudioEngine{
		mixer:    mixer,
		hostApis: make([]*portaudio.HostApiInfo, 0),
		table:    newDeviceTable(bufferSize),
	}

	for _, hostApi := range hostApis {
		if len(hostApi.Devices) > 0 {
			engine.hostApis = append(engine.hostApis, hostApi)
		}
	}

	for _, hostApi := range engine.hostApis {
		if preferredAPI != "" && strings.EqualFold(hostApi.Name, preferredAPI) {
			engine.current = hostApi
			break
		}
	}

	if engine.current == nil {
		if engine.current, err = portaudio.DefaultHostApi(); err != nil {
			portaudio.Terminate()
			return nil, fmt.Errorf("failed to find default host api: %w", err)
		}
	}

	engine.initializeDevices()

	return engine, nil
}

func (engine *PortAudioEngine) SupportedAPIs() ([]model.APIID, error) {
	apis := make([]model.APIID, len(engine.hostApis))

	for i, hostApi := range engine.hostApis {
		apis[i] = model.APIID(hostApi.Type)
	}

	return apis, nil
}

func (engine *PortAudioEngine) CurrentAPI() model.APIID {
	return model.APIID(engine.current.Type)
}

func (engine *PortAudioEngine) APIDisplayName(api model.APIID) string {
	if hostApi := engine.findHostApi(api); hostApi != nil {
		return hostApi.Name
	}

	return "Unknown"
}

func (engine *PortAudioEngine) ChangeBackend(api model.APIID) error {
	hostApi := engine.findHostApi(api)
	if hostApi == nil {
		return fmt.Errorf("%w: %d", driver.ErrUnknownAPI, api)
	}

	if err := engine.closeStream(); err != nil {
		return err
	}

	engine.current = hostApi
	engine.initializeDevices()

	slog.Info("PortAudio: switched backend to " + hostApi.Name)

	return nil
}

func (engine *PortAudioEngine) QueryDevices() ([]model.AudioDevice, error) {
	return engine.table.list(), nil
}

func (engine *PortAudioEngine) SupportedSampleRates() ([]uint, error) {
	return engine.table.pairSampleRates(), nil
}

func (engine *PortAudioEngine) OutputDevice() int {
	return engine.table.output
}

func (engine *PortAudioEngine) SetOutputDevice(index int) error {
	return engine.reconfigure(func() error { return engine.table.setOutput(index) })
}

func (engine *PortAudioEngine) InputDevice() int {
	return engine.table.input
}

func (engine *PortAudioEngine) SetInputDevice(index int) error {
	return engine.reconfigure(func() error { return engine.table.setInput(index) })
}

func (engine *PortAudioEngine) SampleRate() uint {
	return engine.table.sampleRate
}

func (engine *PortAudioEngine) SetSampleRate(rate uint) error {
	return engine.reconfigure(func() error { return engine.table.setSampleRate(rate) })
}

func (engine *PortAudioEngine) BufferSize() uint {
	return engine.table.bufferSize
}

func (engine *PortAudioEngine) SetBufferSize(size uint) error {
	return engine.reconfigure(func() error { return engine.table.setBufferSize(size) })
}

func (engine *PortAudioEngine) Start() error {
	if engine.running {
		return nil
	}

	if engine.stream == nil {
		if err := engine.openStream(); err != nil {
			return err
		}
	}

	if err := engine.stream.Start(); err != nil {
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	engine.running = true
	slog.Debug("PortAudio: stream started")

	return nil
}

func (engine *PortAudioEngine) Stop() error {
	return engine.closeStream()
}

func (engine *PortAudioEngine) Pause() error {
	if !engine.running {
		return nil
	}

	if err := engine.stream.Stop(); err != nil {
		return fmt.Errorf("failed to pause audio stream: %w", err)
	}

	engine.running = false

	return nil
}

func (engine *PortAudioEngine) Close() error {
	err := engine.closeStream()

	if termErr := portaudio.Terminate(); termErr != nil && err == nil {
		err = termErr
	}

	return err
}

//
// private functions
//

func (engine *PortAudioEngine) findHostApi(api model.APIID) *portaudio.HostApiInfo {
	for _, hostApi := range engine.hostApis {
		if model.APIID(hostApi.Type) == api {
			return hostApi
		}
	}

	return nil
}

func (engine *PortAudioEngine) initializeDevices() {
	engine.paDevices = engine.current.Devices
	devices := make([]probedDevice, len(engine.paDevices))
	preferredOutput := model.NoDevice

	for i, device := range engine.paDevices {
		devices[i] = probePortAudioDevice(i, device)

		if device == engine.current.DefaultOutputDevice {
			preferredOutput = i
		}
	}

	engine.table.load(devices, preferredOutput)
}

// reconfigure applies a change and reopens the stream if it was running. A
// stream that will not reopen with the new configuration puts the previous
// configuration back before the error is returned.
func (engine *PortAudioEngine) reconfigure(change func() error) error {
	wasRunning := engine.running
	previous := engine.table

	if err := change(); err != nil {
		engine.table = previous
		return err
	}

	if engine.stream == nil {
		return nil
	}

	if err := engine.closeStream(); err != nil {
		return err
	}

	if !wasRunning {
		return nil
	}

	if err := engine.Start(); err != nil {
		engine.table = previous

		if restartErr := engine.Start(); restartErr != nil {
			slog.Warn("PortAudio: failed to restart stream: " + restartErr.Error())
		}

		return err
	}

	return nil
}

func (engine *PortAudioEngine) openStream() error {
	if engine.table.output == model.NoDevice {
		return driver.ErrNoOutputDevice
	}

	output := engine.paDevices[engine.table.output]
	sampleRate := engine.table.sampleRate

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   output,
			Channels: output.MaxOutputChannels,
			Latency:  output.DefaultLowOutputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: int(engine.table.bufferSize),
	}

	var stream *portaudio.Stream
	var err error

	if engine.table.input != model.NoDevice {
		input := engine.paDevices[engine.table.input]
		params.Input = portaudio.StreamDeviceParameters{
			Device:   input,
			Channels: input.MaxInputChannels,
			Latency:  input.DefaultLowInputLatency,
		}

		stream, err = portaudio.OpenStream(params, func(in, out [][]float32) {
			engine.mixer.Mix(out, sampleRate)
		})
	} else {
		stream, err = portaudio.OpenStream(params, func(out [][]float32) {
			engine.mixer.Mix(out, sampleRate)
		})
	}

	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	engine.stream = stream
	slog.Debug(fmt.Sprintf("PortAudio: opened stream on %s at %dhz / %d frames", output.Name, sampleRate, engine.table.bufferSize))

	return nil
}

func (engine *PortAudioEngine) closeStream() error {
	if engine.stream == nil {
		return nil
	}

	if engine.running {
		if err := engine.stream.Stop(); err != nil {
			slog.Warn("PortAudio: failed to stop stream: " + err.Error())
		}
		engine.running = false
	}

	err := engine.stream.Close()
	engine.stream = nil

	if err != nil {
		return fmt.Errorf("failed to close audio stream: %w", err)
	}

	return nil
}

// probePortAudioDevice asks PortAudio which of the standard rates the device
// accepts. A device that accepts none of them is reported as not probed.
func probePortAudioDevice(index int, device *portaudio.DeviceInfo) probedDevice {
	probed := probedDevice{
		info: model.AudioDevice{
			Index:               index,
			Name:                device.Name,
			OutputChannels:      uint(max(device.MaxOutputChannels, 0)),
			InputChannels:       uint(max(device.MaxInputChannels, 0)),
			PreferredSampleRate: uint(device.DefaultSampleRate),
		},
		sampleRates: make([]uint, 0),
	}

	for _, rate := range standardSampleRates {
		if portAudioSupportsRate(device, rate) {
			probed.sampleRates = append(probed.sampleRates, rate)
		}
	}

	probed.info.Probed = len(probed.sampleRates) > 0

	if !probed.info.Probed {
		slog.Debug("PortAudio: could not probe device " + device.Name)
	}

	return probed
}

func portAudioSupportsRate(device *portaudio.DeviceInfo, rate uint) bool {
	params := portaudio.StreamParameters{
		SampleRate: float64(rate),
	}

	// duplex devices are probed on their output side
	if device.MaxOutputChannels > 0 {
		params.Output = portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: device.MaxOutputChannels,
			Latency:  device.DefaultLowOutputLatency,
		}

		return portaudio.IsFormatSupported(params, func(out []float32) {}) == nil
	}

	if device.MaxInputChannels > 0 {
		params.Input = portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: device.MaxInputChannels,
			Latency:  device.DefaultLowInputLatency,
		}

		return portaudio.IsFormatSupported(params, func(in []float32) {}) == nil
	}

	return false
}
