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
	"time"

	"digidaw/audio/driver"
)

const TestToneDuration = 1000 * time.Millisecond

var ErrTonePlaying = errors.New("a test tone is already playing")

type Timer interface {
	Stop() bool
}

// Scheduler hands out cancellable one-shot timers. The callback may run on
// any goroutine.
type Scheduler interface {
	AfterFunc(duration time.Duration, callback func()) Timer
}

type clockScheduler struct{}

func NewScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) AfterFunc(duration time.Duration, callback func()) Timer {
	return time.AfterFunc(duration, callback)
}

type ToneState int8

const (
	ToneIdle ToneState = iota
	TonePlaying
)

func (state ToneState) String() string {
	if state == TonePlaying {
		return "playing"
	}

	return "idle"
}

// TestToneSession plays the test tone for a fixed time. It is owned by one
// panel and, apart from the timer callback, only used from that panel's
// event goroutine.
type TestToneSession struct {
	engine    driver.Engine
	mixer     driver.Mixer
	scheduler Scheduler
	dispatch  func(func())

	state      ToneState
	timer      Timer
	generation uint64
	deadline   time.Time
}

// NewTestToneSession creates an idle session. dispatch posts the deadline
// callback onto the owner's event goroutine; nil runs it in place.
func NewTestToneSession(engine driver.Engine, mixer driver.Mixer, scheduler Scheduler, dispatch func(func())) *TestToneSession {
	if scheduler == nil {
		scheduler = NewScheduler()
	}

	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}

	return &TestToneSession{
		engine:    engine,
		mixer:     mixer,
		scheduler: scheduler,
		dispatch:  dispatch,
	}
}

func (session *TestToneSession) State() ToneState {
	return session.state
}

func (session *TestToneSession) IsPlaying() bool {
	return session.state == TonePlaying
}

func (session *TestToneSession) Deadline() time.Time {
	return session.deadline
}

// Start begins playback and arms the deadline. finished runs on the event
// goroutine once the tone ended by itself; it is not called after Teardown.
func (session *TestToneSession) Start(finished func()) error {
	if session.state == TonePlaying {
		return ErrTonePlaying
	}

	if err := session.engine.Start(); err != nil {
		return fmt.Errorf("failed to start audio engine: %w", err)
	}

	session.mixer.StartTestTone()

	session.state = TonePlaying
	session.generation++
	session.deadline = time.Now().Add(TestToneDuration)

	generation := session.generation
	session.timer = session.scheduler.AfterFunc(TestToneDuration, func() {
		session.dispatch(func() {
			session.expire(generation, finished)
		})
	})

	slog.Info("Test tone started")

	return nil
}

// Teardown cancels the deadline and stops the engine if the tone is still
// playing. Safe to call more than once.
func (session *TestToneSession) Teardown() {
	session.cancelTimer()
	session.generation++

	if session.state != TonePlaying {
		return
	}

	session.state = ToneIdle

	if err := session.engine.Stop(); err != nil {
		slog.Warn(fmt.Sprintf("Failed to stop audio engine: %s", err.Error()))
	}

	slog.Info("Test tone cancelled")
}

//
// private functions
//

func (session *TestToneSession) expire(generation uint64, finished func()) {
	// a stale deadline from an earlier tone or one that fired after teardown
	if session.state != TonePlaying || generation != session.generation {
		return
	}

	session.timer = nil
	session.state = ToneIdle

	session.mixer.EndTestTone()

	if err := session.engine.Stop(); err != nil {
		slog.Warn(fmt.Sprintf("Failed to stop audio engine: %s", err.Error()))
	}

	slog.Info("Test tone finished")

	if finished != nil {
		finished()
	}
}

func (session *TestToneSession) cancelTimer() {
	if session.timer != nil {
		session.timer.Stop()
		session.timer = nil
	}
}
