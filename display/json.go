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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"digidaw/events"
	"digidaw/settings"
)

const (
	CommandOpen   = "open"
	CommandClose  = "close"
	CommandChange = "change"
	CommandTest   = "test"
	CommandQuit   = "quit"
)

//
// types
//

// JsonUI drives the settings panel from newline delimited JSON commands and
// prints every view, log line and panel event as a JSON object
type JsonUI struct {
	shutdownChannel chan bool
	doneChannel     chan bool
	updates         chan func()
	shutdownOnce    sync.Once

	input  io.Reader
	output io.Writer
	lock   sync.Mutex

	bus         *events.Bus
	unsubscribe []func()

	factory    SettingsFactory
	controller SettingsController
	errorCount int
	quit       func()
}

//
// constructor
//

// NewJsonUI creates the ui. quit is called when a quit command arrives or
// the input ends.
func NewJsonUI(input io.Reader, output io.Writer, bus *events.Bus, quit func()) *JsonUI {
	jsonUi := &JsonUI{
		shutdownChannel: make(chan bool, 1),
		doneChannel:     make(chan bool, 1),
		updates:         make(chan func(), 64),

		input:  input,
		output: output,

		bus:         bus,
		unsubscribe: make([]func(), 0),
		quit:        quit,
	}

	return jsonUi
}

func (j *JsonUI) Initalize() {
	j.unsubscribe = append(j.unsubscribe,
		j.bus.Subscribe(func(e events.CatalogFetchedEvent) { j.printEvent("catalog_fetched", e) }),
		j.bus.Subscribe(func(e events.SelectionCommittedEvent) { j.printEvent("selection_committed", e) }),
		j.bus.Subscribe(func(e events.CommitFailedEvent) { j.printEvent("commit_failed", e) }),
		j.bus.Subscribe(func(e events.TestToneEvent) { j.printEvent("test_tone", e) }),
	)
}

func (j *JsonUI) Start() {
	go j.excecuteLoop()
	go j.readCommands()
}

func (j *JsonUI) Shutdown() {
	slog.Debug("Shutting down JSON UI")
	j.shutdownOnce.Do(func() { j.shutdownChannel <- true })

	slog.Debug("Waiting for JSON UI to shut down")
	j.WaitForShutdown()
}

func (j *JsonUI) IsShutdown() bool {
	return len(j.shutdownChannel) > 0 || len(j.doneChannel) > 0
}

func (j *JsonUI) WaitForShutdown() {
	<-j.doneChannel
	j.doneChannel <- true
}

func (j *JsonUI) SetSettingsFactory(factory SettingsFactory) {
	j.factory = factory
}

// OpenSettings must run on the ui loop
func (j *JsonUI) OpenSettings() {
	if j.controller != nil || j.factory == nil {
		return
	}

	j.controller = j.factory(j, j.dispatch)
	j.controller.Show()
}

// CloseSettings must run on the ui loop
func (j *JsonUI) CloseSettings() {
	if j.controller == nil {
		return
	}

	j.controller.Teardown()
	j.controller = nil
}

func (j *JsonUI) Render(view settings.View) {
	j.printJson(JsonView{
		MessageType: "view",
		Status:      StatusText(view),
		ErrorCount:  j.getErrorCount(),
		View:        view,
	})
}

func (j *JsonUI) IncrementErrorCount() {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.errorCount += 1
}

func (j *JsonUI) WriteLevelLog(level slog.Level, message string) {
	logObj := JsonLog{
		MessageType: "log",

		Date:    time.Now().Format(time.RFC3339),
		Level:   level.String(),
		Message: message,
	}

	j.printJson(logObj)
}

//
// private functions
//

func (j *JsonUI) excecuteLoop() {
	slog.Debug("JSON loop started")

	for {
		select {
		case <-j.shutdownChannel:
			j.CloseSettings()

			for _, unsubscribe := range j.unsubscribe {
				unsubscribe()
			}

			slog.Info("JSON UI shut down")
			j.doneChannel <- true
			return

		case update := <-j.updates:
			update()
		}
	}
}

func (j *JsonUI) dispatch(f func()) {
	select {
	case j.updates <- f:
	case <-j.doneChannel:
		j.doneChannel <- true
	}
}

func (j *JsonUI) readCommands() {
	scanner := bufio.NewScanner(j.input)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		command := JsonCommand{}
		if err := json.Unmarshal(line, &command); err != nil {
			j.printJson(JsonResult{MessageType: "result", OK: false, Error: "invalid command: " + err.Error()})
			continue
		}

		if command.Command == CommandQuit {
			break
		}

		j.dispatch(func() { j.runCommand(command) })
	}

	if j.quit != nil {
		j.quit()
	}
}

func (j *JsonUI) runCommand(command JsonCommand) {
	var err error

	switch command.Command {
	case CommandOpen:
		j.OpenSettings()
	case CommandClose:
		j.CloseSettings()
	case CommandChange:
		err = j.withController(func(controller SettingsController) error {
			return controller.HandleChange(settings.ControlID(command.Control), command.Option)
		})
	case CommandTest:
		err = j.withController(func(controller SettingsController) error {
			return controller.PressTestButton()
		})
	default:
		err = fmt.Errorf("unknown command: %s", command.Command)
	}

	result := JsonResult{
		MessageType: "result",
		Command:     command.Command,
		OK:          err == nil,
	}

	if err != nil {
		result.Error = err.Error()
	}

	j.printJson(result)
}

func (j *JsonUI) withController(f func(controller SettingsController) error) error {
	if j.controller == nil {
		return settings.ErrPanelClosed
	}

	return f(j.controller)
}

func (j *JsonUI) getErrorCount() int {
	j.lock.Lock()
	defer j.lock.Unlock()

	return j.errorCount
}

func (j *JsonUI) printEvent(name string, data any) {
	j.printJson(JsonEvent{
		MessageType: "event",
		Event:       name,
		Data:        data,
	})
}

func (j *JsonUI) printJson(v any) {
	jsonBytes, err := json.Marshal(v)

	if err != nil {
		// logging here would recurse into WriteLevelLog
		jsonBytes = []byte(fmt.Sprintf(`{"message_type":"error","error":%q}`, err.Error()))
	}

	j.lock.Lock()
	defer j.lock.Unlock()

	fmt.Fprintln(j.output, string(jsonBytes))
}
