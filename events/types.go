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

const (
	TypeCatalogFetched uint32 = iota + 1
	TypeSelectionCommitted
	TypeCommitFailed
	TypeTestTone
	TypePanelClosed
)

// Event is what kelindar/event dispatches on
type Event interface {
	Type() uint32
}

type CatalogFetchedEvent struct {
	API         string `json:"api"`
	Devices     int    `json:"devices"`
	SampleRates []uint `json:"sample_rates"`
	Timestamp   string `json:"timestamp"`
}

func (e CatalogFetchedEvent) Type() uint32 { return TypeCatalogFetched }

type SelectionCommittedEvent struct {
	Control   string `json:"control"`
	Value     int    `json:"value"`
	Refetch   bool   `json:"refetch"`
	Timestamp string `json:"timestamp"`
}

func (e SelectionCommittedEvent) Type() uint32 { return TypeSelectionCommitted }

type CommitFailedEvent struct {
	Control   string `json:"control"`
	Value     int    `json:"value"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

func (e CommitFailedEvent) Type() uint32 { return TypeCommitFailed }

// TestToneEvent is published when a test tone starts and when it ends,
// either at its deadline or because the panel closed
type TestToneEvent struct {
	Playing   bool   `json:"playing"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

func (e TestToneEvent) Type() uint32 { return TypeTestTone }

type PanelClosedEvent struct {
	Timestamp string `json:"timestamp"`
}

func (e PanelClosedEvent) Type() uint32 { return TypePanelClosed }
