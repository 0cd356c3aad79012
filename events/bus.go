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
package events

import (
	"time"

	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher. Handlers run on the dispatcher's
// goroutines, never on the publisher's.
type Bus struct {
	dispatcher *event.Dispatcher
}

func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish is a no-op on a nil bus so components can treat the bus as optional
func (bus *Bus) Publish(ev Event) {
	if bus == nil {
		return
	}

	switch e := ev.(type) {
	case CatalogFetchedEvent:
		event.Publish(bus.dispatcher, e)
	case SelectionCommittedEvent:
		event.Publish(bus.dispatcher, e)
	case CommitFailedEvent:
		event.Publish(bus.dispatcher, e)
	case TestToneEvent:
		event.Publish(bus.dispatcher, e)
	case PanelClosedEvent:
		event.Publish(bus.dispatcher, e)
	}
}

// Subscribe registers a handler; its parameter type picks the event it
// receives. The returned function unsubscribes.
func (bus *Bus) Subscribe(handler any) func() {
	if bus == nil {
		return func() {}
	}

	switch h := handler.(type) {
	case func(CatalogFetchedEvent):
		return event.Subscribe(bus.dispatcher, h)
	case func(SelectionCommittedEvent):
		return event.Subscribe(bus.dispatcher, h)
	case func(CommitFailedEvent):
		return event.Subscribe(bus.dispatcher, h)
	case func(TestToneEvent):
		return event.Subscribe(bus.dispatcher, h)
	case func(PanelClosedEvent):
		return event.Subscribe(bus.dispatcher, h)
	default:
		return func() {}
	}
}

func (bus *Bus) Close() error {
	if bus == nil {
		return nil
	}

	return bus.dispatcher.Close()
}

func Timestamp() string {
	return time.Now().Format(time.RFC3339)
}
