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
	"errors"
	"fmt"
	"log/slog"

	"digidaw/audio/driver"
	"digidaw/events"
	"digidaw/model"
)

var ErrPanelClosed = errors.New("settings panel is closed")

type Renderer interface {
	Render(view View)
}

type RendererFunc func(view View)

func (f RendererFunc) Render(view View) {
	f(view)
}

type PanelOptions struct {
	Engine    driver.Engine
	Mixer     driver.Mixer
	Renderer  Renderer
	Scheduler Scheduler

	// Dispatch posts work onto the goroutine that owns the panel
	Dispatch func(func())

	// Bus is optional
	Bus *events.Bus
}

// Panel is the audio settings panel. Every method must be called from the
// same goroutine; the tone deadline is routed back onto it through Dispatch.
type Panel struct {
	engine    driver.Engine
	committer *Committer
	session   *TestToneSession
	renderer  Renderer
	bus       *events.Bus

	catalog  model.DeviceCatalog
	state    model.SelectionState
	view     View
	shown    bool
	tornDown bool
}

func NewPanel(options PanelOptions) *Panel {
	return &Panel{
		engine:    options.Engine,
		committer: NewCommitter(options.Engine),
		session:   NewTestToneSession(options.Engine, options.Mixer, options.Scheduler, options.Dispatch),
		renderer:  options.Renderer,
		bus:       options.Bus,
		state: model.SelectionState{
			OutputDevice: model.NoDevice,
			InputDevice:  model.NoDevice,
			Page:         model.PageNone,
		},
	}
}

// Show fetches the catalog, reads the engine's configuration and renders
func (panel *Panel) Show() {
	if panel.tornDown {
		return
	}

	panel.shown = true

	panel.update(true, func(state *model.SelectionState) {
		*state = ReadSelection(panel.engine, state.Page)
	})
}

func (panel *Panel) SelectPage(page model.Page) {
	panel.update(false, func(state *model.SelectionState) {
		state.Page = page
	})
}

// HandleChange commits the option the user picked in a selector. When the
// engine refuses the change the panel re-renders the previous selection.
func (panel *Panel) HandleChange(control ControlID, optionID int) error {
	if panel.tornDown {
		return ErrPanelClosed
	}

	switch control {
	case ControlAudioPage:
		panel.SelectPage(model.PageAudioEngine)
		return nil
	case ControlMidiPage:
		panel.SelectPage(model.PageMidi)
		return nil
	case ControlTestButton:
		return panel.PressTestButton()
	}

	field, ok := FieldForControl(control)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, control)
	}

	next, refetch, err := panel.committer.ApplyChange(panel.catalog, panel.state, field, optionID)
	if err != nil {
		slog.Error(fmt.Sprintf("Failed to change %s: %s", control, err.Error()))

		panel.bus.Publish(events.CommitFailedEvent{
			Control:   string(control),
			Value:     optionID,
			Error:     err.Error(),
			Timestamp: events.Timestamp(),
		})

		panel.update(false, nil)
		return err
	}

	panel.bus.Publish(events.SelectionCommittedEvent{
		Control:   string(control),
		Value:     optionID,
		Refetch:   refetch,
		Timestamp: events.Timestamp(),
	})

	panel.update(refetch, func(state *model.SelectionState) {
		*state = next
	})

	return nil
}

func (panel *Panel) PressTestButton() error {
	if panel.tornDown {
		return ErrPanelClosed
	}

	err := panel.session.Start(panel.toneFinished)
	if err != nil {
		slog.Warn(fmt.Sprintf("Could not play test tone: %s", err.Error()))
		return err
	}

	panel.bus.Publish(events.TestToneEvent{
		Playing:   true,
		Reason:    "started",
		Timestamp: events.Timestamp(),
	})

	panel.update(false, nil)

	return nil
}

// Teardown stops a playing tone and detaches the panel from its renderer.
// Nothing is rendered afterwards.
func (panel *Panel) Teardown() {
	if panel.tornDown {
		return
	}

	panel.tornDown = true
	playing := panel.session.IsPlaying()

	panel.session.Teardown()
	panel.state.TestToneActive = false

	if playing {
		panel.bus.Publish(events.TestToneEvent{
			Playing:   false,
			Reason:    "panel closed",
			Timestamp: events.Timestamp(),
		})
	}

	panel.bus.Publish(events.PanelClosedEvent{Timestamp: events.Timestamp()})

	slog.Debug("Settings panel closed")
}

func (panel *Panel) View() View {
	return panel.view
}

func (panel *Panel) Catalog() model.DeviceCatalog {
	return panel.catalog
}

func (panel *Panel) Selection() model.SelectionState {
	return panel.state
}

func (panel *Panel) ToneState() ToneState {
	return panel.session.State()
}

//
// private functions
//

// update is the only place panel state changes. The catalog is refetched
// before the view is derived so the view never pairs a new selection with
// an old catalog.
func (panel *Panel) update(refetch bool, change func(state *model.SelectionState)) {
	if panel.tornDown {
		return
	}

	if change != nil {
		change(&panel.state)
	}

	panel.state.TestToneActive = panel.session.IsPlaying()

	if refetch {
		panel.catalog = FetchCatalog(panel.engine)

		panel.bus.Publish(events.CatalogFetchedEvent{
			API:         panel.engine.APIDisplayName(panel.state.API),
			Devices:     len(panel.catalog.Devices()),
			SampleRates: panel.catalog.SampleRates(),
			Timestamp:   events.Timestamp(),
		})
	}

	panel.view = Reconcile(panel.catalog, panel.state)

	if panel.shown && panel.renderer != nil {
		panel.renderer.Render(panel.view)
	}
}

func (panel *Panel) toneFinished() {
	panel.bus.Publish(events.TestToneEvent{
		Playing:   false,
		Reason:    "finished",
		Timestamp: events.Timestamp(),
	})

	panel.update(false, nil)
}
