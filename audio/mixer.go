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
	"math"
	"sync/atomic"

	"digidaw/audio/driver"
)

const (
	TestToneFrequency = 440.0
	TestToneAmplitude = 0.10
	TestToneSeconds   = 1.0
)

// ToneMixer is the output stage used while the settings panel is open. It
// stays silent until a test tone is started and is safe to drive from a UI
// goroutine while Mix runs on the audio callback.
type ToneMixer struct {
	playing atomic.Bool
	restart atomic.Bool

	// only touched from the audio callback
	toneFrame uint64
}

var _ driver.Mixer = (*ToneMixer)(nil)

func NewToneMixer() *ToneMixer {
	return &ToneMixer{}
}

func (mixer *ToneMixer) StartTestTone() {
	mixer.restart.Store(true)
	mixer.playing.Store(true)
}

func (mixer *ToneMixer) EndTestTone() {
	mixer.playing.Store(false)
}

func (mixer *ToneMixer) IsPlaying() bool {
	return mixer.playing.Load()
}

// Mix renders one cycle into non-interleaved output buffers. The tone is
// written to the first two channels, everything else is silence.
func (mixer *ToneMixer) Mix(out [][]float32, sampleRate uint) {
	for _, channel := range out {
		clear(channel)
	}

	if !mixer.playing.Load() || len(out) == 0 || sampleRate == 0 {
		return
	}

	if mixer.restart.Swap(false) {
		mixer.toneFrame = 0
	}

	frames := len(out[0])

	for frame := range frames {
		sampleTime := float64(mixer.toneFrame) / float64(sampleRate)
		sample := float32(ToneSample(sampleTime))

		out[0][frame] = sample
		if len(out) > 1 {
			out[1][frame] = sample
		}

		mixer.toneFrame++
	}
}

// ToneSample is the test tone value at the given number of seconds after
// the tone started: a 440hz sine fading out linearly over one second
func ToneSample(sampleTime float64) float64 {
	fade := math.Min(math.Max(TestToneSeconds-sampleTime, 0.0), 1.0)

	return TestToneAmplitude * fade * math.Sin(2*math.Pi*TestToneFrequency*sampleTime)
}
