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
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/transforms"
	"github.com/go-audio/wav"
)

// ToneBuffer renders the full test tone as interleaved float samples
func ToneBuffer(sampleRate int, channels int) *goaudio.Float32Buffer {
	frames := int(float64(sampleRate) * TestToneSeconds)
	data := make([]float32, frames*channels)

	for frame := range frames {
		sample := float32(ToneSample(float64(frame) / float64(sampleRate)))

		for channel := range channels {
			data[frame*channels+channel] = sample
		}
	}

	return &goaudio.Float32Buffer{
		Data: data,
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
	}
}

// WriteTestTone writes the test tone to a PCM wav file
func WriteTestTone(filePath string, sampleRate int, bitDepth int, channels int) error {
	if channels < 1 {
		return fmt.Errorf("invalid channel count: %d", channels)
	}

	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	buffer := ToneBuffer(sampleRate, channels)

	if err := transforms.PCMScaleF32(buffer, bitDepth); err != nil {
		return fmt.Errorf("failed to scale test tone: %w", err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)

	if err := encoder.Write(buffer.AsIntBuffer()); err != nil {
		return fmt.Errorf("failed to write test tone: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}

	slog.Info(fmt.Sprintf("Wrote %d bit / %dhz test tone to %s", bitDepth, sampleRate, filePath))

	return nil
}
