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
	"digidaw/model"
)

var (
	ErrUnknownField     = errors.New("unknown settings field")
	ErrInvalidSelection = errors.New("value is not one of the offered options")
	ErrCommitFailed     = errors.New("audio engine rejected the change")
)

type Field int8

const (
	FieldAPI Field = iota
	FieldOutputDevice
	FieldInputDevice
	FieldSampleRate
	FieldBufferSize
)

var fieldControls = map[Field]ControlID{
	FieldAPI:          ControlAPI,
	FieldOutputDevice: ControlOutputDevice,
	FieldInputDevice:  ControlInputDevice,
	FieldSampleRate:   ControlSampleRate,
	FieldBufferSize:   ControlBufferSize,
}

func (field Field) Control() ControlID {
	return fieldControls[field]
}

func (field Field) String() string {
	if control, ok := fieldControls[field]; ok {
		return string(control)
	}

	return "unknown"
}

// FieldForControl maps a selector id back to the field it edits
func FieldForControl(control ControlID) (Field, bool) {
	for field, id := range fieldControls {
		if id == control {
			return field, true
		}
	}

	return 0, false
}

// Committer pushes one selection change at a time into the engine
type Committer struct {
	engine driver.Engine
}

func NewCommitter(engine driver.Engine) *Committer {
	return &Committer{
		engine: engine,
	}
}

// ApplyChange validates value against the options currently offered for
// field and applies it to the engine. It returns the new selection and
// whether the device catalog has to be fetched again. On error the returned
// selection is the one passed in.
func (committer *Committer) ApplyChange(catalog model.DeviceCatalog, state model.SelectionState, field Field, value int) (model.SelectionState, bool, error) {
	options, err := fieldOptions(catalog, state, field)
	if err != nil {
		return state, false, err
	}

	if !(Selector{Options: options}).Contains(value) {
		return state, false, fmt.Errorf("%w: %d for %s", ErrInvalidSelection, value, field)
	}

	next := state
	refetch := false

	switch field {
	case FieldAPI:
		err = committer.engine.ChangeBackend(model.APIID(value))
		if err == nil {
			// a new backend brings its own devices and stream settings
			next.API = committer.engine.CurrentAPI()
			next.OutputDevice = committer.engine.OutputDevice()
			next.InputDevice = committer.engine.InputDevice()
			next.SampleRate = committer.engine.SampleRate()
			next.BufferSize = committer.engine.BufferSize()
		}
		refetch = true

	case FieldOutputDevice:
		err = committer.engine.SetOutputDevice(value)
		if err == nil {
			next.OutputDevice = value
			next.SampleRate = committer.engine.SampleRate()
		}
		refetch = true

	case FieldInputDevice:
		err = committer.engine.SetInputDevice(value)
		if err == nil {
			next.InputDevice = value
			next.SampleRate = committer.engine.SampleRate()
		}
		refetch = true

	case FieldSampleRate:
		err = committer.engine.SetSampleRate(uint(value))
		if err == nil {
			next.SampleRate = uint(value)
		}

	case FieldBufferSize:
		err = committer.engine.SetBufferSize(uint(value))
		if err == nil {
			next.BufferSize = uint(value)
		}
	}

	if err != nil {
		return state, false, fmt.Errorf("%w: %s: %w", ErrCommitFailed, field, err)
	}

	slog.Debug(fmt.Sprintf("Committed %s = %d (refetch: %t)", field, value, refetch))

	return next, refetch, nil
}

func fieldOptions(catalog model.DeviceCatalog, state model.SelectionState, field Field) ([]Option, error) {
	switch field {
	case FieldAPI:
		return APIOptions(catalog, state), nil
	case FieldOutputDevice:
		return OutputOptions(catalog, state), nil
	case FieldInputDevice:
		return InputOptions(catalog, state), nil
	case FieldSampleRate:
		return SampleRateOptions(catalog, state), nil
	case FieldBufferSize:
		return BufferSizeOptions(catalog, state), nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownField, field)
}
