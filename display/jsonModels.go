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

import "digidaw/settings"

type JsonView struct {
	MessageType string `json:"message_type"`

	Status     string        `json:"status"`
	ErrorCount int           `json:"error_count"`
	View       settings.View `json:"view"`
}

type JsonLog struct {
	MessageType string `json:"message_type"`

	Date    string `json:"date"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type JsonEvent struct {
	MessageType string `json:"message_type"`

	Event string `json:"event"`
	Data  any    `json:"data"`
}

type JsonResult struct {
	MessageType string `json:"message_type"`

	Command string `json:"command"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// JsonCommand is one line read from the input stream, for example
// {"command":"change","control":"output-dropdown","option":2}
type JsonCommand struct {
	Command string `json:"command"`
	Control string `json:"control,omitempty"`
	Option  int    `json:"option,omitempty"`
}
