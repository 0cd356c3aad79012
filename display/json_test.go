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
package display

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"digidaw/model"
	"digidaw/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	renderer settings.Renderer
	calls    []string
}

func (controller *fakeController) Show() {
	controller.calls = append(controller.calls, "Show")

	catalog := model.NewDeviceCatalog(
		[]model.AudioAPI{{ID: 0, Name: "ALSA"}},
		[]model.AudioDevice{{Index: 0, Name: "card", OutputChannels: 2, Probed: true}},
		[]uint{48000},
	)

	controller.renderer.Render(settings.Reconcile(catalog, model.SelectionState{
		OutputDevice: 0,
		InputDevice:  model.NoDevice,
		SampleRate:   48000,
		BufferSize:   256,
		Page:         model.PageAudioEngine,
	}))
}

func (controller *fakeController) HandleChange(control settings.ControlID, optionID int) error {
	controller.calls = append(controller.calls, string(control))

	if control == settings.ControlSampleRate {
		return errors.New("rejected")
	}

	return nil
}

func (controller *fakeController) PressTestButton() error {
	controller.calls = append(controller.calls, "PressTestButton")
	return nil
}

func (controller *fakeController) Teardown() {
	controller.calls = append(controller.calls, "Teardown")
}

func runJsonUI(t *testing.T, commands ...string) (*fakeController, []map[string]any) {
	t.Helper()

	output := &bytes.Buffer{}
	controller := &fakeController{}
	quit := make(chan bool, 1)

	ui := NewJsonUI(strings.NewReader(strings.Join(commands, "\n")+"\n"), output, nil, func() { quit <- true })
	ui.SetSettingsFactory(func(renderer settings.Renderer, dispatch func(func())) SettingsController {
		controller.renderer = renderer
		return controller
	})

	ui.Initalize()
	ui.Start()

	select {
	case <-quit:
	case <-time.After(time.Second):
		t.Fatal("input was not consumed")
	}

	processed := make(chan bool)
	ui.dispatch(func() { close(processed) })
	<-processed

	ui.Shutdown()
	assert.True(t, ui.IsShutdown())

	messages := make([]map[string]any, 0)
	for _, line := range strings.Split(strings.TrimSpace(output.String()), "\n") {
		message := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &message), line)
		messages = append(messages, message)
	}

	return controller, messages
}

func messagesOfType(messages []map[string]any, messageType string) []map[string]any {
	found := make([]map[string]any, 0)

	for _, message := range messages {
		if message["message_type"] == messageType {
			found = append(found, message)
		}
	}

	return found
}

func TestJsonUIDrivesPanel(t *testing.T) {
	controller, messages := runJsonUI(t,
		`{"command":"open"}`,
		`{"command":"change","control":"buffersize-dropdown","option":512}`,
		`{"command":"change","control":"samplerate-dropdown","option":44100}`,
		`{"command":"test"}`,
		`{"command":"close"}`,
		`{"command":"quit"}`,
	)

	assert.Equal(t, []string{"Show", "buffersize-dropdown", "samplerate-dropdown", "PressTestButton", "Teardown"}, controller.calls)

	views := messagesOfType(messages, "view")
	require.Len(t, views, 1)
	assert.Equal(t, "Current API: ALSA   Sample Rate: 48000hz   Buffer Size: 256 Samples (5.33ms)", views[0]["status"])

	results := messagesOfType(messages, "result")
	require.Len(t, results, 5)
	assert.Equal(t, true, results[1]["ok"])
	assert.Equal(t, false, results[2]["ok"])
	assert.Equal(t, "rejected", results[2]["error"])
}

func TestJsonUIRejectsCommandsWithoutPanel(t *testing.T) {
	controller, messages := runJsonUI(t,
		`{"command":"test"}`,
		`not json`,
		`{"command":"dance"}`,
	)

	assert.Empty(t, controller.calls)

	results := messagesOfType(messages, "result")
	require.Len(t, results, 3)
	for _, result := range results {
		assert.Equal(t, false, result["ok"])
	}
}

func TestJsonUIShutdownClosesPanel(t *testing.T) {
	controller, _ := runJsonUI(t, `{"command":"open"}`)

	assert.Equal(t, []string{"Show", "Teardown"}, controller.calls)
}

func TestJsonUIWritesLogs(t *testing.T) {
	output := &bytes.Buffer{}
	ui := NewJsonUI(strings.NewReader(""), output, nil, nil)

	ui.WriteLevelLog(slog.LevelWarn, "device busy")

	message := JsonLog{}
	require.NoError(t, json.Unmarshal(output.Bytes(), &message))
	assert.Equal(t, "log", message.MessageType)
	assert.Equal(t, "WARN", message.Level)
	assert.Equal(t, "device busy", message.Message)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Current API: None   Sample Rate: -   Buffer Size: -", StatusText(settings.View{}))
}
