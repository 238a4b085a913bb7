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
)

// Query parameters carrying the view state
const (
	QueryTab     = "tab"
	QueryDialog  = "dialog"
	QueryNetwork = "network"
)

// Tab identifies the active page tab
type Tab string

const (
	TabOverview Tab = "overview"
	TabDetails  Tab = "details"
)

// Tabs lists the tabs in display order
var Tabs = []Tab{TabOverview, TabDetails}

func (t Tab) Valid() bool {
	return t == TabOverview || t == TabDetails
}

func (t Tab) String() string {
	return string(t)
}

// Label returns the tab's display title
func (t Tab) Label() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabDetails:
		return "Technical Details"
	default:
		return string(t)
	}
}

// DialogKind identifies which confirmation dialog is open
type DialogKind string

const (
	DialogNone       DialogKind = ""
	DialogSnapshot   DialogKind = "snapshot"
	DialogAssumeUtxo DialogKind = "assumeutxo"
)

func (k DialogKind) String() string {
	if k == DialogNone {
		return "none"
	}
	return string(k)
}

// Dialog is the open confirmation dialog and the network it belongs to. The zero value
// means no dialog is open
type Dialog struct {
	Kind      DialogKind
	NetworkId string
}

func (d Dialog) IsOpen() bool {
	return d.Kind != DialogNone
}

// State is the transient view state of one page view
type State struct {
	ActiveTab  Tab
	OpenDialog Dialog
}

// Initial returns the state of a freshly mounted view
func Initial() State {
	return State{ActiveTab: TabOverview}
}

// Values encodes the state as query parameters, omitting defaults
func (s State) Values() url.Values {
	ret := url.Values{}
	if s.ActiveTab != TabOverview {
		ret.Set(QueryTab, s.ActiveTab.String())
	}
	if s.OpenDialog.IsOpen() {
		ret.Set(QueryDialog, string(s.OpenDialog.Kind))
		ret.Set(QueryNetwork, s.OpenDialog.NetworkId)
	}
	return ret
}

// Href returns the page link that renders this state
func (s State) Href() string {
	values := s.Values()
	if len(values) == 0 {
		return "/"
	}
	return "/?" + values.Encode()
}
