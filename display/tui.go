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
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"digidaw/display/custom"
	"digidaw/display/theme"
	"digidaw/model"
	"digidaw/reaper"
	"digidaw/settings"

	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

//
// constants
//

const (
	layoutLabelWidth     = 16
	layoutTooltipRows    = 3
	layoutTabWidth       = 16
	layoutSettingsWidth  = 76
	layoutSettingsHeight = 24
	layoutTimelineBars   = 32

	panelMain     = "main"
	panelSettings = "settings"
	panelAbout    = "about"

	pageAudio = "audio"
	pageMidi  = "midi"
	pageNone  = "none"
)

//
// types
//

type Tui struct {
	app             *cview.Application
	shutdownChannel chan bool

	errorCount atomic.Int64
	status     atomic.Value

	factory    SettingsFactory
	controller SettingsController

	panelsRoot  *cview.Panels
	panelsPages *cview.Panels

	tvMenuBar  *cview.TextView
	tvTimeline *cview.TextView
	tvStatus   *cview.TextView
	tvLogs     *cview.TextView
	tvMidi     *cview.TextView
	tvNoPage   *cview.TextView

	btnAudio *cview.Button
	btnMidi  *cview.Button
	btnTest  *cview.Button

	selectorFields map[settings.ControlID]*custom.SelectorField
	focusables     []cview.Primitive
	focusIndex     int
}

//
// constructor
//

func NewTui() *Tui {
	tui := &Tui{
		shutdownChannel: make(chan bool, 1),
		selectorFields:  make(map[settings.ControlID]*custom.SelectorField),
	}

	tui.status.Store("Press F2 to open the audio settings")

	return tui
}

//
// lifecycle managment
//

func (tui *Tui) Initalize() {
	tui.app = cview.NewApplication()
	defer tui.app.HandlePanic()

	tui.app.EnableMouse(true)

	//
	// menu bar
	tui.tvMenuBar = cview.NewTextView()
	tui.tvMenuBar.SetDynamicColors(true)
	tui.tvMenuBar.SetBackgroundColor(theme.MenuBarBackgroundColor)
	tui.tvMenuBar.SetText(" [::b]File[::-]   [::b]Edit[::-] > Settings (F2)   [::b]Help[::-] > About (F1)")

	//
	// timeline stub
	tui.tvTimeline = cview.NewTextView()
	tui.tvTimeline.SetBorder(true)
	tui.tvTimeline.SetBorderColor(theme.BorderColor)
	tui.tvTimeline.SetTitle(" Timeline ")
	tui.tvTimeline.SetTextColor(theme.TimelineGridColor)
	tui.tvTimeline.SetText(timelineRuler(layoutTimelineBars))

	//
	// log output view
	tui.tvLogs = cview.NewTextView()
	tui.tvLogs.SetBorder(true)
	tui.tvLogs.SetBorderColor(theme.BorderColor)
	tui.tvLogs.SetTitle(" Log ")
	tui.tvLogs.SetDynamicColors(true)

	gridMain := cview.NewGrid()
	gridMain.SetPadding(0, 0, 0, 0)
	gridMain.SetColumns(-1)
	gridMain.SetRows(-2, -1)
	gridMain.AddItem(tui.tvTimeline, 0, 0, 1, 1, 0, 0, false)
	gridMain.AddItem(tui.tvLogs, 1, 0, 1, 1, 0, 0, true)

	//
	// status bar
	tui.tvStatus = cview.NewTextView()
	tui.tvStatus.SetDynamicColors(true)
	tui.tvStatus.SetBackgroundColor(theme.MenuBarBackgroundColor)
	tui.refreshStatus()

	//
	// about box
	about := cview.NewModal()
	about.SetText("DigiDAW\n\nF2: Audio settings   Esc: Close   Ctrl+C: Quit")
	about.AddButtons([]string{"OK"})
	about.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		tui.panelsRoot.HidePanel(panelAbout)
	})

	tui.panelsRoot = cview.NewPanels()
	tui.panelsRoot.AddPanel(panelMain, gridMain, true, true)
	tui.panelsRoot.AddPanel(panelSettings, centered(tui.buildSettings(), layoutSettingsWidth, layoutSettingsHeight), true, false)
	tui.panelsRoot.AddPanel(panelAbout, about, true, false)

	flexRoot := cview.NewFlex()
	flexRoot.SetDirection(cview.FlexRow)
	flexRoot.AddItem(tui.tvMenuBar, 1, 0, false)
	flexRoot.AddItem(tui.panelsRoot, 0, 1, true)
	flexRoot.AddItem(tui.tvStatus, 1, 0, false)

	tui.app.SetRoot(flexRoot, true)
}

func (tui *Tui) Start() {
	reaper.Register("tui")

	go func() {
		defer tui.app.HandlePanic()

		// Capture user input
		tui.app.SetInputCapture(tui.eventHandler)

		if err := tui.app.Run(); err != nil {
			panic(err)
		}

		tui.shutdownChannel <- true
		reaper.Done("tui")
	}()

	go tui.excecuteLoop()
}

func (tui *Tui) Shutdown() {
	slog.Debug("Shutting down TUI")

	// the settings panel lives on the event goroutine, so close it there
	closed := make(chan bool, 1)
	go tui.app.QueueUpdate(func() {
		tui.CloseSettings()
		closed <- true
	})

	select {
	case <-closed:
	case <-time.After(time.Second):
		slog.Warn("Timed out closing the settings panel")
	}

	tui.app.Stop()

	slog.Debug("Waiting for TUI to shut down")
	tui.WaitForShutdown()
}

func (tui *Tui) IsShutdown() bool {
	return len(tui.shutdownChannel) > 0
}

func (tui *Tui) WaitForShutdown() {
	<-tui.shutdownChannel
}

//
// settings panel
//

func (tui *Tui) SetSettingsFactory(factory SettingsFactory) {
	tui.factory = factory
}

// OpenSettings creates a settings panel and shows it. Must run on the event
// goroutine.
func (tui *Tui) OpenSettings() {
	if tui.controller != nil || tui.factory == nil {
		return
	}

	tui.controller = tui.factory(tui, tui.dispatch)
	tui.panelsRoot.ShowPanel(panelSettings)
	tui.controller.Show()

	tui.focusIndex = 0
	tui.app.SetFocus(tui.focusables[0])
}

// CloseSettings tears the settings panel down. Must run on the event
// goroutine.
func (tui *Tui) CloseSettings() {
	if tui.controller == nil {
		return
	}

	tui.controller.Teardown()
	tui.controller = nil

	tui.panelsRoot.HidePanel(panelSettings)
	tui.app.SetFocus(tui.tvLogs)
}

// Render draws a settings view. Called by the panel on the event goroutine.
func (tui *Tui) Render(view settings.View) {
	for _, selector := range view.Selectors {
		if field, ok := tui.selectorFields[selector.ID]; ok {
			field.SetSelector(selector)
		}
	}

	for _, tab := range view.Tabs {
		button := tui.btnAudio
		if tab.ID == settings.ControlMidiPage {
			button = tui.btnMidi
		}

		if tab.Active {
			button.SetBackgroundColor(theme.TabActiveColor)
		} else {
			button.SetBackgroundColor(theme.TabBackgroundColor)
		}
	}

	icon := theme.RunePlay
	if view.TestButton.Active {
		icon = theme.RuneStop
	}

	tui.btnTest.SetLabel(string(icon) + " " + view.TestButton.Label)

	if view.TestButton.Enabled || view.TestButton.Active {
		tui.btnTest.SetLabelColor(tcell.ColorWhite)
	} else {
		tui.btnTest.SetLabelColor(theme.Gray)
	}

	switch view.Page {
	case model.PageAudioEngine:
		tui.panelsPages.SetCurrentPanel(pageAudio)
	case model.PageMidi:
		tui.tvMidi.SetText(view.Text)
		tui.panelsPages.SetCurrentPanel(pageMidi)
	default:
		tui.tvNoPage.SetText(view.Text)
		tui.panelsPages.SetCurrentPanel(pageNone)
	}

	tui.status.Store(StatusText(view))
	tui.refreshStatus()
}

func (tui *Tui) IncrementErrorCount() {
	tui.errorCount.Add(1)
	tui.refreshStatus()
}

//
// logging
//

func (tui *Tui) WriteLevelLog(level slog.Level, message string) {
	color := "-"

	if level == slog.LevelWarn {
		color = "#" + theme.YellowRGB
	} else if level == slog.LevelError {
		color = "#" + theme.RedRGB + "::b"
	} else if level < slog.LevelInfo {
		color = "#" + theme.GrayRGB
	}

	tui.tvLogs.Write([]byte(fmt.Sprintf("[%s][%s[] [%s[] %s[-:-:-]\n", color, time.Now().Format("2006-01-02 15:04:05"), level.String(), cview.Escape(message))))
}

//
// private functions
//

func (tui *Tui) buildSettings() *cview.Grid {
	//
	// page tabs
	tui.btnAudio = cview.NewButton("Audio Engine")
	tui.btnAudio.SetBackgroundColor(theme.TabBackgroundColor)
	tui.btnAudio.SetSelectedFunc(func() {
		tui.queue(func() { tui.handleChange(settings.ControlAudioPage, 0) })
	})

	tui.btnMidi = cview.NewButton("MIDI")
	tui.btnMidi.SetBackgroundColor(theme.TabBackgroundColor)
	tui.btnMidi.SetSelectedFunc(func() {
		tui.queue(func() { tui.handleChange(settings.ControlMidiPage, 0) })
	})

	tui.focusables = append(tui.focusables, tui.btnAudio, tui.btnMidi)

	flexTabs := cview.NewFlex()
	flexTabs.SetDirection(cview.FlexRow)
	flexTabs.AddItem(tui.btnAudio, 1, 0, true)
	flexTabs.AddItem(cview.NewBox(), 1, 0, false)
	flexTabs.AddItem(tui.btnMidi, 1, 0, false)
	flexTabs.AddItem(cview.NewBox(), 0, 1, false)

	//
	// audio engine page
	flexAudio := cview.NewFlex()
	flexAudio.SetDirection(cview.FlexRow)
	flexAudio.SetPadding(1, 0, 2, 2)

	for i, selector := range settings.Reconcile(model.DeviceCatalog{}, model.SelectionState{}).Selectors {
		control := selector.ID

		tooltipRows := 0
		if control == settings.ControlOutputDevice || control == settings.ControlInputDevice {
			tooltipRows = layoutTooltipRows
		}

		field := custom.NewSelectorField(layoutLabelWidth, selector.Label+":", tooltipRows, func(optionID int) {
			tui.queue(func() { tui.handleChange(control, optionID) })
		})
		tui.selectorFields[control] = field

		tui.focusables = append(tui.focusables, field.GetDropDown())
		flexAudio.AddItem(field.GetGrid(), 1+tooltipRows, 0, i == 0)
		flexAudio.AddItem(cview.NewBox(), 1, 0, false)
	}

	tui.btnTest = cview.NewButton(string(theme.RunePlay) + " Test")
	tui.btnTest.SetSelectedFunc(func() {
		tui.queue(func() {
			if tui.controller != nil {
				tui.controller.PressTestButton()
			}
		})
	})

	tui.focusables = append(tui.focusables, tui.btnTest)

	flexButton := cview.NewFlex()
	flexButton.AddItem(cview.NewBox(), layoutLabelWidth, 0, false)
	flexButton.AddItem(tui.btnTest, 16, 0, false)
	flexButton.AddItem(cview.NewBox(), 0, 1, false)

	flexAudio.AddItem(flexButton, 1, 0, false)
	flexAudio.AddItem(cview.NewBox(), 0, 1, false)

	//
	// placeholder pages
	tui.tvMidi = cview.NewTextView()
	tui.tvMidi.SetTextAlign(cview.AlignCenter)
	tui.tvMidi.SetPadding(1, 0, 0, 0)

	tui.tvNoPage = cview.NewTextView()
	tui.tvNoPage.SetTextAlign(cview.AlignCenter)
	tui.tvNoPage.SetTextColor(theme.Gray)
	tui.tvNoPage.SetPadding(layoutSettingsHeight/2-2, 0, 0, 0)
	tui.tvNoPage.SetText(settings.NoPageText)

	tui.panelsPages = cview.NewPanels()
	tui.panelsPages.AddPanel(pageAudio, flexAudio, true, false)
	tui.panelsPages.AddPanel(pageMidi, tui.tvMidi, true, false)
	tui.panelsPages.AddPanel(pageNone, tui.tvNoPage, true, true)

	gridSettings := cview.NewGrid()
	gridSettings.SetBorder(true)
	gridSettings.SetBorderColor(theme.BorderColor)
	gridSettings.SetTitle(" " + string(theme.RuneGear) + " Settings ")
	gridSettings.SetColumns(layoutTabWidth, -1)
	gridSettings.SetRows(-1)
	gridSettings.AddItem(flexTabs, 0, 0, 1, 1, 0, 0, true)
	gridSettings.AddItem(tui.panelsPages, 0, 1, 1, 1, 0, 0, false)

	return gridSettings
}

func (tui *Tui) handleChange(control settings.ControlID, optionID int) {
	if tui.controller == nil {
		return
	}

	// failures are logged by the panel, which also re-renders the old value
	tui.controller.HandleChange(control, optionID)
}

// queue defers work from a widget callback to the next event loop turn,
// outside of the widget's own locks
func (tui *Tui) queue(f func()) {
	go tui.app.QueueUpdateDraw(f)
}

func (tui *Tui) dispatch(f func()) {
	tui.app.QueueUpdateDraw(f)
}

func (tui *Tui) refreshStatus() {
	status := tui.status.Load().(string)

	errors := ""
	if count := tui.errorCount.Load(); count > 0 {
		errors = fmt.Sprintf("   [#%s::b]Errors: %d[-:-:-]", theme.RedRGB, count)
	}

	tui.tvStatus.SetText(" " + cview.Escape(status) + errors)
}

func (tui *Tui) eventHandler(event *tcell.EventKey) *tcell.EventKey {
	// Anything handled here will be executed on the main thread
	switch event.Key() {
	case tcell.KeyF1:
		tui.panelsRoot.ShowPanel(panelAbout)
		return nil
	case tcell.KeyF2:
		tui.OpenSettings()
		return nil
	case tcell.KeyTab, tcell.KeyBacktab:
		if tui.controller == nil {
			return event
		}

		step := 1
		if event.Key() == tcell.KeyBacktab {
			step = len(tui.focusables) - 1
		}

		tui.focusIndex = (tui.focusIndex + step) % len(tui.focusables)
		tui.app.SetFocus(tui.focusables[tui.focusIndex])
		return nil
	case tcell.KeyEsc:
		tui.panelsRoot.HidePanel(panelAbout)
		tui.CloseSettings()
		return nil
	case tcell.KeyCtrlC:
		go reaper.Reap()
		return nil
	}

	return event
}

func (tui *Tui) excecuteLoop() {
	defer tui.app.HandlePanic()

	slog.Debug("TUI loop started")

	// log lines arrive from any goroutine, so redraw periodically
	for {
		if len(tui.shutdownChannel) > 0 {
			slog.Info("TUI shutting down")
			break
		}

		tui.app.QueueUpdateDraw(func() {})
		time.Sleep(100 * time.Millisecond)
	}
}

func centered(primitive cview.Primitive, width int, height int) *cview.Grid {
	grid := cview.NewGrid()
	grid.SetColumns(0, width, 0)
	grid.SetRows(0, height, 0)
	grid.AddItem(primitive, 1, 1, 1, 1, 0, 0, true)

	return grid
}

func timelineRuler(bars int) string {
	var ruler strings.Builder
	var grid strings.Builder

	for bar := 1; bar <= bars; bar++ {
		ruler.WriteString(fmt.Sprintf("%-8d", bar))
		grid.WriteString("|.......")
	}

	return ruler.String() + "\n" + grid.String() + "\n\n" + "No tracks"
}
