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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"digidaw/audio"
	"digidaw/model"
	"digidaw/settings"
	"digidaw/util"
)

type devicesReport struct {
	Engine  string              `json:"engine"`
	Devices []model.AudioDevice `json:"devices"`
	View    settings.View       `json:"view"`
}

func listDevices(config *model.Config, format string, out io.Writer) error {
	ConfigureTextLogger(newLevelVar(config))

	engine, err := newEngine(config, audio.NewToneMixer())
	if err != nil {
		return err
	}
	defer engine.Close()

	catalog := settings.FetchCatalog(engine)
	view := settings.Reconcile(catalog, settings.ReadSelection(engine, model.PageAudioEngine))

	report := devicesReport{
		Engine:  config.GetEngineType().String(),
		Devices: catalog.Devices(),
		View:    view,
	}

	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)

	case "text", "":
		writeDevicesText(out, report)
		return nil

	default:
		return fmt.Errorf("unknown format '%s'", format)
	}
}

func writeDevicesText(out io.Writer, report devicesReport) {
	fmt.Fprintf(out, "Engine: %s\n\n", report.Engine)

	fmt.Fprintln(out, "Devices:")
	if len(report.Devices) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, device := range report.Devices {
		if !device.Probed {
			fmt.Fprintf(out, "  [%d] %s (not probed)\n", device.Index, device.Name)
			continue
		}

		fmt.Fprintf(out, "  [%d] %s  out: %d  in: %d  preferred: %s\n",
			device.Index, device.Name, device.OutputChannels, device.InputChannels, formatRate(device.PreferredSampleRate))
	}

	for _, selector := range report.View.Selectors {
		fmt.Fprintf(out, "\n%s:\n", selector.Label)

		if len(selector.Options) == 0 {
			fmt.Fprintln(out, "  (none)")
		}

		for _, option := range selector.Options {
			marker := " "
			if option.Selected {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %s\n", marker, option.Label)
		}
	}
}

func formatRate(rate uint) string {
	if rate == 0 {
		return "-"
	}

	return util.FormatSampleRate(rate)
}
