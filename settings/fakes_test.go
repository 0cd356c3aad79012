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
	"time"

	"digidaw/model"
)

// callLog is shared by the fake engine and mixer so tests can assert the
// order of calls across both
type callLog struct {
	calls []string
}

func (log *callLog) add(call string) {
	log.calls = append(log.calls, call)
}

func (log *callLog) count(call string) int {
	count := 0

	for _, c := range log.calls {
		if c == call {
			count++
		}
	}

	return count
}

func (log *callLog) since(mark int) []string {
	return append([]string{}, log.calls[mark:]...)
}

type fakeEngine struct {
	log *callLog

	apis    map[model.APIID]string
	devices map[model.APIID][]model.AudioDevice
	rates   []uint

	current    model.APIID
	output     int
	input      int
	sampleRate uint
	bufferSize uint

	fail map[string]error
}

func newFakeEngine(log *callLog) *fakeEngine {
	return &fakeEngine{
		log: log,
		apis: map[model.APIID]string{
			0: "WASAPI",
			1: "ASIO",
		},
		devices: map[model.APIID][]model.AudioDevice{
			0: {
				{Index: 0, Name: "Speakers", OutputChannels: 2, PreferredSampleRate: 48000, Probed: true},
				{Index: 1, Name: "Microphone", InputChannels: 2, PreferredSampleRate: 44100, Probed: true},
				{Index: 2, Name: "Headset", OutputChannels: 2, InputChannels: 1, PreferredSampleRate: 48000, Probed: true},
				{Index: 3, Name: "Broken", OutputChannels: 2, InputChannels: 2, Probed: false},
			},
			1: {
				{Index: 0, Name: "Interface", OutputChannels: 8, InputChannels: 8, PreferredSampleRate: 96000, Probed: true},
			},
		},
		rates:      []uint{44100, 48000},
		output:     0,
		input:      model.NoDevice,
		sampleRate: 48000,
		bufferSize: 512,
		fail:       map[string]error{},
	}
}

func (engine *fakeEngine) call(name string) error {
	engine.log.add(name)
	return engine.fail[name]
}

func (engine *fakeEngine) SupportedAPIs() ([]model.APIID, error) {
	if err := engine.call("SupportedAPIs"); err != nil {
		return nil, err
	}

	return []model.APIID{0, 1}, nil
}

func (engine *fakeEngine) CurrentAPI() model.APIID { return engine.current }

func (engine *fakeEngine) APIDisplayName(api model.APIID) string { return engine.apis[api] }

func (engine *fakeEngine) ChangeBackend(api model.APIID) error {
	if err := engine.call("ChangeBackend"); err != nil {
		return err
	}

	engine.current = api
	engine.output = engine.devices[api][0].Index
	engine.input = model.NoDevice
	engine.sampleRate = engine.devices[api][0].PreferredSampleRate

	return nil
}

func (engine *fakeEngine) QueryDevices() ([]model.AudioDevice, error) {
	if err := engine.call("QueryDevices"); err != nil {
		return nil, err
	}

	return engine.devices[engine.current], nil
}

func (engine *fakeEngine) SupportedSampleRates() ([]uint, error) {
	if err := engine.call("SupportedSampleRates"); err != nil {
		return nil, err
	}

	return engine.rates, nil
}

func (engine *fakeEngine) OutputDevice() int { return engine.output }

func (engine *fakeEngine) SetOutputDevice(index int) error {
	if err := engine.call("SetOutputDevice"); err != nil {
		return err
	}

	engine.output = index
	return nil
}

func (engine *fakeEngine) InputDevice() int { return engine.input }

func (engine *fakeEngine) SetInputDevice(index int) error {
	if err := engine.call("SetInputDevice"); err != nil {
		return err
	}

	engine.input = index
	return nil
}

func (engine *fakeEngine) SampleRate() uint { return engine.sampleRate }

func (engine *fakeEngine) SetSampleRate(rate uint) error {
	if err := engine.call("SetSampleRate"); err != nil {
		return err
	}

	engine.sampleRate = rate
	return nil
}

func (engine *fakeEngine) BufferSize() uint { return engine.bufferSize }

func (engine *fakeEngine) SetBufferSize(size uint) error {
	if err := engine.call("SetBufferSize"); err != nil {
		return err
	}

	engine.bufferSize = size
	return nil
}

func (engine *fakeEngine) Start() error { return engine.call("Start") }
func (engine *fakeEngine) Stop() error  { return engine.call("Stop") }
func (engine *fakeEngine) Pause() error { return engine.call("Pause") }
func (engine *fakeEngine) Close() error { return engine.call("Close") }

type fakeMixer struct {
	log *callLog
}

func (mixer *fakeMixer) StartTestTone() { mixer.log.add("StartTestTone") }
func (mixer *fakeMixer) EndTestTone()   { mixer.log.add("EndTestTone") }

type manualTimer struct {
	duration time.Duration
	callback func()
	stopped  bool
	fired    bool
}

func (timer *manualTimer) Stop() bool {
	wasPending := !timer.stopped && !timer.fired
	timer.stopped = true

	return wasPending
}

// manualScheduler only fires timers when the test says so
type manualScheduler struct {
	timers []*manualTimer
}

func (scheduler *manualScheduler) AfterFunc(duration time.Duration, callback func()) Timer {
	timer := &manualTimer{duration: duration, callback: callback}
	scheduler.timers = append(scheduler.timers, timer)

	return timer
}

// elapse fires every pending timer
func (scheduler *manualScheduler) elapse() {
	for _, timer := range scheduler.timers {
		if !timer.stopped && !timer.fired {
			timer.fired = true
			timer.callback()
		}
	}
}

func (scheduler *manualScheduler) pending() int {
	count := 0

	for _, timer := range scheduler.timers {
		if !timer.stopped && !timer.fired {
			count++
		}
	}

	return count
}

type recordingRenderer struct {
	views []View
}

func (renderer *recordingRenderer) Render(view View) {
	renderer.views = append(renderer.views, view)
}

func (renderer *recordingRenderer) last() View {
	return renderer.views[len(renderer.views)-1]
}

func optionIDs(options []Option) []int {
	ids := make([]int, len(options))

	for i, option := range options {
		ids[i] = option.ID
	}

	return ids
}

func selectedID(t interface{ Helper() }, view View, control ControlID) (int, bool) {
	t.Helper()

	selector, ok := view.Selector(control)
	if !ok {
		return 0, false
	}

	option, ok := selector.SelectedOption()

	return option.ID, ok
}
