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
package custom

import (
	"digidaw/settings"

	"code.rocketnine.space/tslocum/cview"
)

// SelectorField is a labelled dropdown bound to one settings selector, with
// an optional tooltip line underneath
type SelectorField struct {
	grid        *cview.Grid
	dropDown    *cview.DropDown
	tooltipView *cview.TextView

	optionIDs []int

	// set while the field is being filled from a view, so the dropdown's
	// own selection callbacks are not taken for user input
	updating bool
	changed  func(optionID int)
}

func NewSelectorField(labelWidth int, label string, tooltipRows int, changed func(optionID int)) *SelectorField {
	field := SelectorField{
		grid:      cview.NewGrid(),
		dropDown:  cview.NewDropDown(),
		optionIDs: make([]int, 0),
		changed:   changed,
	}

	field.grid.SetPadding(0, 0, 0, 0)
	field.grid.SetColumns(-1)

	field.dropDown.SetLabel(label)
	field.dropDown.SetLabelWidth(labelWidth)
	field.dropDown.SetSelectedFunc(field.selected)
	field.grid.AddItem(field.dropDown, 0, 0, 1, 1, 0, 0, true)

	if tooltipRows > 0 {
		field.grid.SetRows(1, tooltipRows)

		field.tooltipView = cview.NewTextView()
		field.tooltipView.SetPadding(0, 0, labelWidth, 0)
		field.tooltipView.SetDynamicColors(true)
		field.grid.AddItem(field.tooltipView, 1, 0, 1, 1, 0, 0, false)
	} else {
		field.grid.SetRows(1)
	}

	return &field
}

// SetSelector replaces the options and selection. A selector with nothing
// selected leaves the dropdown blank.
func (field *SelectorField) SetSelector(selector settings.Selector) {
	field.updating = true
	defer func() { field.updating = false }()

	field.dropDown.ClearOptions()
	field.optionIDs = make([]int, len(selector.Options))

	for i, option := range selector.Options {
		field.optionIDs[i] = option.ID
		field.dropDown.AddOptions(cview.NewDropDownOption(option.Label))
	}

	field.dropDown.SetCurrentOption(selector.SelectedIndex())

	if field.tooltipView != nil {
		field.tooltipView.Clear()
		field.tooltipView.Write([]byte("[::d]" + cview.Escape(selector.Tooltip) + "[::-]"))
	}
}

func (field *SelectorField) GetGrid() *cview.Grid {
	return field.grid
}

func (field *SelectorField) GetDropDown() *cview.DropDown {
	return field.dropDown
}

func (field *SelectorField) selected(index int, option *cview.DropDownOption) {
	if field.updating || index < 0 || index >= len(field.optionIDs) {
		return
	}

	field.changed(field.optionIDs[index])
}
