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
package theme

import (
	"github.com/gdamore/tcell/v2"
)

const (
	Blue      = tcell.ColorBlue
	BlueRGB   = "0000FF"
	Green     = tcell.Color71
	GreenRGB  = "5FAF5F"
	Red       = tcell.Color124
	RedRGB    = "AF0000"
	Yellow    = tcell.Color142
	YellowRGB = "AFAF00"
	Gray      = tcell.ColorGray
	GrayRGB   = "808080"

	BorderColor = tcell.Color243

	MenuBarBackgroundColor = tcell.Color236
	TabBackgroundColor     = tcell.Color238
	TabActiveColor         = tcell.Color24
	TimelineGridColor      = tcell.Color240
)

const (
	RunePlay   = rune(9205) // ⏵
	RuneStop   = rune(9209) // ⏹
	RuneFailed = rune(9932) // ⛌
	RuneGear   = rune(9881) // ⚙
)
