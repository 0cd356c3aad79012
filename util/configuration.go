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
package util

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"digidaw/model"
)

const DefaultConfigFile = "digidaw.yml"

var ErrInvalidArgument = errors.New("invalid argument")

var logLevels = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ReadConfig builds the runtime configuration from defaults, the config file
// and finally the command line, in that order of precedence
func ReadConfig(args *model.CommandLineArgs) (*model.Config, error) {
	config := &model.Config{
		Engine:         model.EnginePortAudio.String(),
		BufferSize:     512,
		LogLevel:       "info",
		OutputType:     "tui",
		JackClientName: AppName,
	}

	configFile := args.ConfigFile
	if configFile == "" {
		configFile = DefaultConfigFile
	}

	if err := ReadConfigFile(config, configFile); err != nil {
		if !errors.Is(err, ErrConfigNotFound) || args.ConfigFile != "" {
			return nil, err
		}

		slog.Debug("No config file found, using defaults")
	}

	if args.Engine != "" {
		config.Engine = args.Engine
	}

	if args.Simulate {
		config.Engine = model.EngineSimulated.String()
	}

	if args.OutputType != "" {
		config.OutputType = args.OutputType
	}

	if args.API != "" {
		config.PreferredAPI = args.API
	}

	if args.BufferSize != 0 {
		config.BufferSize = args.BufferSize
	}

	if args.LogLevel != "" {
		config.LogLevel = args.LogLevel
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	if config.GetEngineType() == model.EngineSimulated && config.SimulationOptions == nil {
		config.SimulationOptions = model.DefaultSimulationOptions()
	}

	return config, nil
}

func ParseLogLevel(level string) (slog.Level, error) {
	if parsed, ok := logLevels[strings.ToLower(level)]; ok {
		return parsed, nil
	}

	return slog.LevelInfo, fmt.Errorf("%w: log level %s. Valid options: %s", ErrInvalidArgument, level, strings.Join(sortedKeys(logLevels), ", "))
}

func validateConfig(config *model.Config) error {
	if _, ok := model.OutputTypeMap[strings.ToLower(config.OutputType)]; !ok {
		return fmt.Errorf("%w: output type %s. Valid options: %s", ErrInvalidArgument, config.OutputType, strings.Join(sortedKeys(model.OutputTypeMap), ", "))
	}

	if _, ok := model.EngineTypeMap[strings.ToLower(config.Engine)]; !ok {
		return fmt.Errorf("%w: engine %s. Valid options: %s", ErrInvalidArgument, config.Engine, strings.Join(sortedKeys(model.EngineTypeMap), ", "))
	}

	if !model.IsValidBufferSize(config.BufferSize) {
		return fmt.Errorf("%w: buffer size %d must be a power of two between %d and %d", ErrInvalidArgument, config.BufferSize, model.MinBufferSize, model.MaxBufferSize)
	}

	if _, err := ParseLogLevel(config.LogLevel); err != nil {
		return err
	}

	return nil
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))

	for key := range values {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
