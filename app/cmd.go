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
	"os"

	"digidaw/model"

	"github.com/spf13/cobra"
)

var (
	// arguments
	args model.CommandLineArgs

	argDevicesFormat string

	argToneOutput   string
	argToneRate     int
	argToneBitDepth int
	argToneChannels int
	argTonePlay     bool

	rootCmd = &cobra.Command{
		Use:   "digidaw",
		Short: "Terminal front end for the DigiDAW audio engine",
		Long:  "Opens the DigiDAW workspace. Press F2 to configure the audio backend and devices and to play a test tone.",

		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			return runSettings(config)
		},
	}

	devicesCmd = &cobra.Command{
		Use:   "devices",
		Short: "List audio backends, devices and the settings the engine would offer",

		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			return listDevices(config, argDevicesFormat, cmd.OutOrStdout())
		},
	}

	toneCmd = &cobra.Command{
		Use:   "tone",
		Short: "Write the test tone to a wav file, or play it through the configured engine",

		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			if argTonePlay {
				return playTone(config)
			}

			return writeTone(argToneOutput, argToneRate, argToneBitDepth, argToneChannels)
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&args.Simulate, "simulate", false, "Use simulated audio hardware instead of a real backend")
	flags.StringVarP(&args.Engine, "engine", "e", "", "Audio engine to use: portaudio, jack or simulate")
	flags.StringVarP(&args.ConfigFile, "config", "c", "", "Config file to load (yaml or toml), defaults to digidaw.yml")
	flags.StringVarP(&args.OutputType, "output", "o", "", "Output type: tui or json")
	flags.StringVar(&args.API, "api", "", "Name of the audio API backend to start with")
	flags.UintVar(&args.BufferSize, "buffer-size", 0, "Initial buffer size in samples (64 - 4096, power of two)")
	flags.StringVar(&args.LogLevel, "log-level", "", "Log level: trace, debug, info, warn or error")

	devicesCmd.Flags().StringVarP(&argDevicesFormat, "format", "f", "text", "Output format: text or json")

	toneCmd.Flags().StringVar(&argToneOutput, "file", "testtone.wav", "Path of the wav file to write")
	toneCmd.Flags().IntVar(&argToneRate, "rate", 48000, "Sample rate of the wav file")
	toneCmd.Flags().IntVar(&argToneBitDepth, "bit-depth", 24, "Bit depth of the wav file: 8, 16, 24 or 32")
	toneCmd.Flags().IntVar(&argToneChannels, "channels", 2, "Channel count of the wav file")
	toneCmd.Flags().BoolVar(&argTonePlay, "play", false, "Play the tone through the configured engine instead of writing a file")

	rootCmd.AddCommand(devicesCmd, toneCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
