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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

const (
	AppName    = "digidaw"
	LevelTrace = slog.Level(-10)
)

var ErrConfigNotFound = errors.New("no config file found")

func FileExists(path string) bool {
	// if an error occurred or its a directory, we throw up
	if stat, err := os.Stat(path); err != nil || stat.IsDir() {
		return false
	}

	return true
}

func ResolveHomeDirPath(testPath string) (string, error) {
	if strings.HasPrefix(testPath, "~/") {
		homeDir, err := os.UserHomeDir()

		if err != nil {
			return "", errors.New("could not find user home dir: " + err.Error())
		}

		return path.Join(homeDir, testPath[2:]), nil
	}

	return testPath, nil
}

// FindConfigFile resolves a config file name. Relative names are looked up
// next to the executable, then in the working directory, then in
// ~/.config/digidaw.
func FindConfigFile(fileName string) (string, error) {
	filePath := ""

	if path.IsAbs(fileName) {
		filePath = fileName

	} else {
		if strings.HasPrefix(fileName, "~/") {
			testFilePath, err := ResolveHomeDirPath(fileName)
			if err != nil {
				return "", err
			}

			if FileExists(testFilePath) {
				filePath = testFilePath
			}

		} else {
			// check path where executable lives
			binPath, _ := os.Executable()
			binDir := filepath.Dir(binPath)
			sidecarPath := path.Join(binDir, fileName)

			if FileExists(sidecarPath) {
				filePath = sidecarPath

			} else {
				// check working directory
				cwd, _ := os.Getwd()
				cwdSidecarPath := path.Join(cwd, fileName)

				if FileExists(cwdSidecarPath) {
					filePath = cwdSidecarPath

				} else {
					// check user config directory
					homeDir, err := os.UserHomeDir()
					if err != nil {
						return "", errors.New("could not find user home dir: " + err.Error())
					}

					homeDotConfigPath := path.Join(homeDir, ".config", AppName, fileName)

					if FileExists(homeDotConfigPath) {
						filePath = homeDotConfigPath
					}
				}
			}
		}
	}

	if filePath == "" || !FileExists(filePath) {
		return "", fmt.Errorf("%w: %s", ErrConfigNotFound, fileName)
	}

	return filePath, nil
}

// ReadConfigFile decodes a yaml or toml file into cfg, picking the format
// from the file extension
func ReadConfigFile(cfg interface{}, fileName string) error {
	filePath, err := FindConfigFile(fileName)
	if err != nil {
		return err
	}

	slog.Info("Reading config from " + filePath)

	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		err = toml.NewDecoder(f).Decode(cfg)
	default:
		err = yaml.NewDecoder(f).Decode(cfg)
	}

	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	return nil
}

func TraceLog(message string, args ...any) {
	slog.Log(context.Background(), LevelTrace, message, args...)
}

func FormatSampleRate(rate uint) string {
	return fmt.Sprintf("%dhz", rate)
}

// FormatBufferSize labels a buffer size with the latency it adds at the
// given sample rate. The latency is left out when the rate is unknown.
func FormatBufferSize(size uint, sampleRate uint) string {
	if sampleRate == 0 {
		return fmt.Sprintf("%d Samples", size)
	}

	return fmt.Sprintf("%d Samples (%.2fms)", size, LatencyMS(size, sampleRate))
}

func LatencyMS(size uint, sampleRate uint) float64 {
	if sampleRate == 0 {
		return 0
	}

	return float64(size) / float64(sampleRate) * 1000.0
}
