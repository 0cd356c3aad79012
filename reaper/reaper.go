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
package reaper

import (
	"log/slog"
	"slices"
	"sync"
)

// Reaper runs named shutdown callbacks, newest first, exactly once, and lets
// long running workers hold shutdown open until they report done
type Reaper struct {
	lock          sync.Mutex
	reaped        bool
	callbacks     []callback
	registrations []string
	waitgroup     sync.WaitGroup
}

type callback struct {
	name         string
	callbackFunc func()
}

var defaultReaper = New()

func New() *Reaper {
	return &Reaper{
		callbacks:     make([]callback, 0),
		registrations: make([]string, 0),
	}
}

func (reaper *Reaper) Reaped() bool {
	reaper.lock.Lock()
	defer reaper.lock.Unlock()

	return reaper.reaped
}

func (reaper *Reaper) Reap() {
	reaper.lock.Lock()
	if reaper.reaped {
		reaper.lock.Unlock()
		return
	}

	reaper.reaped = true
	callbacksReversed := slices.Clone(reaper.callbacks)
	reaper.lock.Unlock()

	slices.Reverse(callbacksReversed)

	for _, callback := range callbacksReversed {
		slog.Info("reaper: calling reap callback for '" + callback.name + "'")
		callback.callbackFunc()
	}
}

func (reaper *Reaper) Callback(name string, callbackFunc func()) {
	reaper.lock.Lock()
	defer reaper.lock.Unlock()

	reaper.callbacks = append(reaper.callbacks, callback{
		name:         name,
		callbackFunc: callbackFunc,
	})
}

func (reaper *Reaper) Register(name string) {
	reaper.lock.Lock()
	defer reaper.lock.Unlock()

	if slices.Contains(reaper.registrations, name) {
		slog.Warn("reaper: already registered '" + name + "'")
		return
	}

	reaper.registrations = append(reaper.registrations, name)
	reaper.waitgroup.Add(1)
	slog.Debug("reaper: registered '" + name + "'")
}

func (reaper *Reaper) Done(name string) {
	reaper.lock.Lock()
	defer reaper.lock.Unlock()

	if !slices.Contains(reaper.registrations, name) {
		slog.Warn("reaper: already done or doesn't exist: '" + name + "'")
		return
	}

	reaper.registrations = slices.DeleteFunc(reaper.registrations, func(test string) bool {
		return test == name
	})

	slog.Debug("reaper: done: '" + name + "'")
	reaper.waitgroup.Done()
}

func (reaper *Reaper) Wait() {
	reaper.waitgroup.Wait()
}

//
// process wide reaper
//

func Reaped() bool                              { return defaultReaper.Reaped() }
func Reap()                                     { defaultReaper.Reap() }
func Callback(name string, callbackFunc func()) { defaultReaper.Callback(name, callbackFunc) }
func Register(name string)                      { defaultReaper.Register(name) }
func Done(name string)                          { defaultReaper.Done(name) }
func Wait()                                     { defaultReaper.Wait() }
