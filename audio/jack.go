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
	"sync/atomic"

	"digidaw/audio/driver"
	"digidaw/model"

	"github.com/hairlesshobo/go-jack"
)

const (
	jackAPI        model.APIID = 0
	jackSystemName             = "system"
)

// JackEngine talks to an already running JACK server. JACK owns the sample
// rate, so the engine offers exactly one API and one "system" device made of
// the server's physical ports. The client stays active once started; Stop
// disconnects the playback ports and the process callback writes silence.
type JackEngine struct {
	clientName string
	mixer      *ToneMixer

	jackClient    *jack.Client
	playbackPorts []string
	capturePorts  []string
	outputPorts   []*jack.Port
	mixBuffers    [][]float32
	connections   [][2]string

	table     deviceTable
	activated bool

	// read from the JACK process thread
	running atomic.Bool
}

var _ driver.Engine = (*JackEngine)(nil)

func NewJackEngine(clientName string, mixer *ToneMixer) (*JackEngine, error) {
	engine := &JackEngine{
		clientName:  clientName,
		mixer:       mixer,
		outputPorts: make([]*jack.Port, 0),
	}

	if err := engine.connect(); err != nil {
		return nil, err
	}

	return engine, nil
}

func jackError(message string) {
	slog.Error("JACK: " + message)
}

func jackInfo(message string) {
	slog.Info("JACK: " + message)
}

func (engine *JackEngine) connect() error {
	slog.Info("Connecting to JACK server")

	jack.SetErrorFunction(jackError)
	jack.SetInfoFunction(jackInfo)

	var jackStatus int
	engine.jackClient, jackStatus = jack.ClientOpen(engine.clientName, jack.NoStartServer)

	if jackStatus != 0 {
		return fmt.Errorf("failed to connect to JACK server: %s", jack.StrError(jackStatus))
	}

	engine.jackClient.OnShutdown(func() {
		slog.Warn("JACK server shut down")
		engine.running.Store(false)
	})
	engine.jackClient.SetXRunCallback(func() int {
		slog.Warn("JACK: xrun")
		return 0
	})

	if code := engine.jackClient.SetProcessCallback(engine.process); code != 0 {
		engine.jackClient.Close()
		return fmt.Errorf("failed to set process callback: %s", jack.StrError(code))
	}

	slog.Info("JACK server connected")
	engine.initializeDevices()

	return nil
}

func (engine *JackEngine) SupportedAPIs() ([]model.APIID, error) {
	return []model.APIID{jackAPI}, nil
}

func (engine *JackEngine) CurrentAPI() model.APIID {
	return jackAPI
}

func (engine *JackEngine) APIDisplayName(api model.APIID) string {
	if api == jackAPI {
		return "JACK"
	}

	return "Unknown"
}

func (engine *JackEngine) ChangeBackend(api model.APIID) error {
	if api != jackAPI {
		return fmt.Errorf("%w: %d", driver.ErrUnknownAPI, api)
	}

	// re-reading the port list is the closest thing JACK has to a new backend
	if err := engine.Stop(); err != nil {
		return err
	}
	engine.initializeDevices()

	return nil
}

func (engine *JackEngine) QueryDevices() ([]model.AudioDevice, error) {
	return engine.table.list(), nil
}

func (engine *JackEngine) SupportedSampleRates() ([]uint, error) {
	return engine.table.pairSampleRates(), nil
}

func (engine *JackEngine) OutputDevice() int {
	return engine.table.output
}

func (engine *JackEngine) SetOutputDevice(index int) error {
	wasRunning := engine.running.Load()
	previous := engine.table

	if err := engine.table.setOutput(index); err != nil {
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
			slog.Warn("JACK: failed to restart playback: " + restartErr.Error())
		}

		return err
	}

	return nil
}

func (engine *JackEngine) InputDevice() int {
	return engine.table.input
}

func (engine *JackEngine) SetInputDevice(index int) error {
	return engine.table.setInput(index)
}

func (engine *JackEngine) SampleRate() uint {
	return engine.table.sampleRate
}

func (engine *JackEngine) SetSampleRate(rate uint) error {
	if rate != engine.table.sampleRate {
		return fmt.Errorf("%w: sample rate is %dhz", driver.ErrFixedByServer, engine.table.sampleRate)
	}

	return nil
}

func (engine *JackEngine) BufferSize() uint {
	return engine.table.bufferSize
}

// SetBufferSize asks the server for a new period size. Every client of the
// server sees the change.
func (engine *JackEngine) SetBufferSize(size uint) error {
	if !model.IsValidBufferSize(size) {
		return fmt.Errorf("%w: %d", driver.ErrInvalidBufferSize, size)
	}

	if size == engine.table.bufferSize {
		return nil
	}

	if code := engine.jackClient.SetBufferSize(uint32(size)); code != 0 {
		return fmt.Errorf("failed to set buffer size to %d: %s", size, jack.StrError(code))
	}

	engine.table.bufferSize = uint(engine.jackClient.GetBufferSize())

	if engine.table.bufferSize != size {
		return fmt.Errorf("%w: buffer size is %d", driver.ErrFixedByServer, engine.table.bufferSize)
	}

	return nil
}

func (engine *JackEngine) Start() error {
	if engine.running.Load() {
		return nil
	}

	if engine.table.output == model.NoDevice {
		return driver.ErrNoOutputDevice
	}

	engine.registerPorts()

	if !engine.activated {
		if code := engine.jackClient.Activate(); code != 0 {
			return fmt.Errorf("failed to activate client: %s", jack.StrError(code))
		}
		engine.activated = true
	}

	engine.connectPorts()
	engine.running.Store(true)

	return nil
}

func (engine *JackEngine) Stop() error {
	if !engine.running.Load() {
		return nil
	}

	engine.running.Store(false)
	engine.disconnectPorts()

	return nil
}

func (engine *JackEngine) Pause() error {
	return engine.Stop()
}

func (engine *JackEngine) Close() error {
	err := engine.Stop()

	if engine.jackClient != nil {
		engine.jackClient.Close()
		engine.jackClient = nil
	}

	return err
}

//
// private functions
//

func (engine *JackEngine) initializeDevices() {
	engine.playbackPorts = engine.jackClient.GetPorts("", "", jack.PortIsPhysical|jack.PortIsInput)
	engine.capturePorts = engine.jackClient.GetPorts("", "", jack.PortIsPhysical|jack.PortIsOutput)

	sampleRate := uint(engine.jackClient.GetSampleRate())
	// JACK may run with buffer sizes outside what the settings panel offers
	engine.table = newDeviceTable(0)
	engine.table.bufferSize = uint(engine.jackClient.GetBufferSize())

	devices := make([]probedDevice, 0)

	if len(engine.playbackPorts) > 0 || len(engine.capturePorts) > 0 {
		devices = append(devices, probedDevice{
			info: model.AudioDevice{
				Index:               0,
				Name:                jackSystemName,
				OutputChannels:      uint(len(engine.playbackPorts)),
				InputChannels:       uint(len(engine.capturePorts)),
				PreferredSampleRate: sampleRate,
				Probed:              sampleRate > 0,
			},
			sampleRates: []uint{sampleRate},
		})
	}

	engine.table.load(devices, 0)

	slog.Info(fmt.Sprintf("JACK: %d playback ports, %d capture ports at %dhz", len(engine.playbackPorts), len(engine.capturePorts), sampleRate))
}

func (engine *JackEngine) registerPorts() {
	for i := len(engine.outputPorts); i < len(engine.playbackPorts); i++ {
		portName := fmt.Sprintf("out_%d", i+1)
		port := engine.jackClient.PortRegister(portName, jack.DEFAULT_AUDIO_TYPE, jack.PortIsOutput, 0)

		slog.Debug("Registered port " + portName)
		engine.outputPorts = append(engine.outputPorts, port)
	}
}

func (engine *JackEngine) connectPorts() {
	// JACK renames a client whose name is taken, so ask for the real one
	clientName := engine.jackClient.GetName()

	for i := range engine.outputPorts {
		if i >= len(engine.playbackPorts) {
			break
		}

		inName := fmt.Sprintf("%s:out_%d", clientName, i+1)
		outName := engine.playbackPorts[i]

		if code := engine.jackClient.Connect(inName, outName); code != 0 {
			slog.Warn(fmt.Sprintf("Failed to connect port %s to port %s: %s", inName, outName, jack.StrError(code)))
			continue
		}

		engine.connections = append(engine.connections, [2]string{inName, outName})
		slog.Debug(fmt.Sprintf("Connected port %s to port %s", inName, outName))
	}
}

func (engine *JackEngine) disconnectPorts() {
	for _, connection := range engine.connections {
		if code := engine.jackClient.Disconnect(connection[0], connection[1]); code != 0 {
			slog.Warn(fmt.Sprintf("Failed to disconnect port %s from port %s: %s", connection[0], connection[1], jack.StrError(code)))
			continue
		}

		slog.Debug(fmt.Sprintf("Disconnected port %s from port %s", connection[0], connection[1]))
	}

	engine.connections = engine.connections[:0]
}

func (engine *JackEngine) process(nframes uint32) int {
	if len(engine.mixBuffers) != len(engine.outputPorts) || (len(engine.mixBuffers) > 0 && len(engine.mixBuffers[0]) != int(nframes)) {
		engine.mixBuffers = make([][]float32, len(engine.outputPorts))
		for i := range engine.mixBuffers {
			engine.mixBuffers[i] = make([]float32, nframes)
		}
	}

	if engine.running.Load() {
		engine.mixer.Mix(engine.mixBuffers, engine.table.sampleRate)
	} else {
		for _, buffer := range engine.mixBuffers {
			clear(buffer)
		}
	}

	for i, port := range engine.outputPorts {
		samplesOut := port.GetBuffer(nframes)

		for frame := range samplesOut {
			samplesOut[frame] = jack.AudioSample(engine.mixBuffers[i][frame])
		}
	}

	return 0
}
