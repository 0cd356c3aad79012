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
package app

import (
	"fmt"
	"log/slog"

	"digidaw/audio"
	"digidaw/model"
	"digidaw/settings"
)

func writeTone(filePath string, sampleRate int, bitDepth int, channels int) error {
	if err := audio.WriteTestTone(filePath, sampleRate, bitDepth, channels); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("Wrote %s of test tone to %s", settings.TestToneDuration, filePath))

	return nil
}

// playTone plays one test tone through the configured engine and returns once
// the tone has ended
func playTone(config *model.Config) error {
	ConfigureTextLogger(newLevelVar(config))

	mixer := audio.NewToneMixer()
	engine, err := newEngine(config, mixer)
	if err != nil {
		return err
	}
	defer engine.Close()

	finished := make(chan bool, 1)
	session := settings.NewTestToneSession(engine, mixer, settings.NewScheduler(), nil)

	if err := session.Start(func() { finished <- true }); err != nil {
		return fmt.Errorf("failed to play the test tone: %w", err)
	}

	slog.Info(fmt.Sprintf("Playing test tone on %s at %dhz", engine.APIDisplayName(engine.CurrentAPI()), engine.SampleRate()))
	<-finished

	return nil
}
