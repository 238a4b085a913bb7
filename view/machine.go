// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package view

import (
	"net/url"

	snapshots "github.com/jaonoctus/bitcoin-snapshots"
)

// Event is a user interaction that advances the view state
type Event interface {
	Name() string
}

type SelectTab struct {
	Tab Tab
}

func (SelectTab) Name() string { return "selectTab" }

type OpenSnapshotDialog struct {
	NetworkId string
}

func (OpenSnapshotDialog) Name() string { return "openSnapshotDialog" }

type OpenAssumeUtxoDialog struct {
	NetworkId string
}

func (OpenAssumeUtxoDialog) Name() string { return "openAssumeUtxoDialog" }

type CloseDialog struct{}

func (CloseDialog) Name() string { return "closeDialog" }

// ConfirmDownload closes the dialog. The navigation to the download URL happens outside
// the state machine
type ConfirmDownload struct{}

func (ConfirmDownload) Name() string { return "confirmDownload" }

// Source is the read-only view of the network registry. *snapshots.Registry implements it
type Source interface {
	Networks() []snapshots.NetworkDescriptor
	Lookup(id string) (snapshots.NetworkDescriptor, bool)
	DigestsUrl() string
	SignatureUrl() string
}

var _ Source = (*snapshots.Registry)(nil)

// Machine applies events to view states. It only reads the registry and is safe for
// concurrent use
type Machine struct {
	registry Source
}

func NewMachine(registry Source) *Machine {
	return &Machine{
		registry: registry,
	}
}

// Registry returns the registry the machine validates against
func (m *Machine) Registry() Source {
	return m.registry
}

// Apply returns the state that results from the event. On error the input state is
// returned unchanged
func (m *Machine) Apply(s State, e Event) (State, error) {
	switch evt := e.(type) {
	case SelectTab:
		if !evt.Tab.Valid() {
			return s, &UsageError{
				Op:     evt.Name(),
				Reason: "unknown tab " + string(evt.Tab),
			}
		}
		s.ActiveTab = evt.Tab
	case OpenSnapshotDialog:
		if _, ok := m.registry.Lookup(evt.NetworkId); !ok {
			return s, &UsageError{
				Op:        evt.Name(),
				NetworkId: evt.NetworkId,
				Reason:    "unknown network",
			}
		}
		s.OpenDialog = Dialog{Kind: DialogSnapshot, NetworkId: evt.NetworkId}
	case OpenAssumeUtxoDialog:
		network, ok := m.registry.Lookup(evt.NetworkId)
		if !ok {
			return s, &UsageError{
				Op:        evt.Name(),
				NetworkId: evt.NetworkId,
				Reason:    "unknown network",
			}
		}
		if !network.HasAssumeUtxo() {
			return s, &UsageError{
				Op:        evt.Name(),
				NetworkId: evt.NetworkId,
				Reason:    "network has no assume-utxo file",
			}
		}
		s.OpenDialog = Dialog{Kind: DialogAssumeUtxo, NetworkId: evt.NetworkId}
	case CloseDialog, ConfirmDownload:
		s.OpenDialog = Dialog{}
	default:
		return s, &UsageError{
			Op:     "apply",
			Reason: "unsupported event",
		}
	}
	return s, nil
}

// ApplyAll applies the events in order, stopping at the first error. It returns the last
// valid state along with that error
func (m *Machine) ApplyAll(s State, events ...Event) (State, error) {
	for _, e := range events {
		next, err := m.Apply(s, e)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}

// FromQuery rebuilds a state from page query parameters by replaying them as events
// from the initial state
func (m *Machine) FromQuery(values url.Values) (State, error) {
	events := []Event{}
	if tab := values.Get(QueryTab); tab != "" {
		events = append(events, SelectTab{Tab: Tab(tab)})
	}
	networkId := values.Get(QueryNetwork)
	switch kind := DialogKind(values.Get(QueryDialog)); kind {
	case DialogNone:
		if networkId != "" {
			return m.rejectQuery(events, &UsageError{
				Op:        "fromQuery",
				NetworkId: networkId,
				Reason:    "network given without a dialog",
			})
		}
	case DialogSnapshot:
		events = append(events, OpenSnapshotDialog{NetworkId: networkId})
	case DialogAssumeUtxo:
		events = append(events, OpenAssumeUtxoDialog{NetworkId: networkId})
	default:
		return m.rejectQuery(events, &UsageError{
			Op:        "fromQuery",
			NetworkId: networkId,
			Reason:    "unknown dialog " + string(kind),
		})
	}
	return m.ApplyAll(Initial(), events...)
}

// rejectQuery keeps whatever the events before the bad dialog parameters produce. An
// earlier event error takes precedence over err
func (m *Machine) rejectQuery(events []Event, err error) (State, error) {
	s, applyErr := m.ApplyAll(Initial(), events...)
	if applyErr != nil {
		return s, applyErr
	}
	return s, err
}
