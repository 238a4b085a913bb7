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
	"log/slog"
	"net/url"
	"strings"

	snapshots "github.com/jaonoctus/bitcoin-snapshots"
	"github.com/jaonoctus/bitcoin-snapshots/format"
	"github.com/jinzhu/copier"
)

// Verification commands shown to the user as literal text
const (
	ChecksumCommand  = "sha256sum --check --ignore-missing digests.txt"
	SignatureCommand = "gpg --verify digests.txt.asc"
)

// DownloadPathPrefix is the path under which confirmed downloads are redirected
const DownloadPathPrefix = "/download/"

// notApplicable is shown for optional figures a network does not have
const notApplicable = "-"

// Page is everything needed to render one view of the snapshot listing
type Page struct {
	State        State
	Tabs         []TabLink
	Cards        []Card
	Details      Details
	Verification Verification
	Dialog       *DialogView
}

type TabLink struct {
	Tab    Tab
	Label  string
	Href   string
	Active bool
}

// Card is a network entry in the overview
type Card struct {
	Id              string
	Name            string
	Type            snapshots.SnapshotType
	Color           string
	Size            string
	HeightUrl       string
	HeightText      string
	TxoutsText      string
	SnapshotHref    string
	AssumeUtxoOffer *AssumeUtxoOffer
}

// AssumeUtxoOffer is the assume-utxo control on a card. It is only set for networks that
// publish a UTXO set file
type AssumeUtxoOffer struct {
	HeightText string
	Href       string
}

// Details is the technical details table, one column per network
type Details struct {
	Columns []Column
	Rows    []Row
}

type Column struct {
	Id    string
	Name  string
	Color string
}

type Row struct {
	Label string
	Hint  string
	Cells []Cell
}

type Cell struct {
	Text  string
	Href  string
	Mono  bool
	Badge bool
}

type Verification struct {
	ChecksumCommand  string
	SignatureCommand string
	DigestsUrl       string
	SignatureUrl     string
}

// DialogView is the open confirmation dialog
type DialogView struct {
	Kind        DialogKind
	NetworkId   string
	Name        string
	Size        string
	Color       string
	Title       string
	Url         string
	HeightText  string
	ConfirmHref string
	CancelHref  string
}

// DownloadPath returns the confirmation link that redirects to a network's download
func DownloadPath(networkId string, kind DialogKind) string {
	return DownloadPathPrefix + url.PathEscape(networkId) + "/" + string(kind)
}

type detailsRowDef struct {
	label string
	hint  string
	cell  func(*projector, snapshots.NetworkDescriptor) Cell
}

var detailsRows = []detailsRowDef{
	{
		label: "Size",
		cell: func(_ *projector, n snapshots.NetworkDescriptor) Cell {
			return Cell{Text: n.Size, Badge: true}
		},
	},
	{
		label: "Type",
		cell: func(_ *projector, n snapshots.NetworkDescriptor) Cell {
			return Cell{Text: string(n.Type)}
		},
	},
	{
		label: "Chain",
		cell: func(_ *projector, n snapshots.NetworkDescriptor) Cell {
			params, ok := snapshots.ChainParams(n.Chain)
			if !ok {
				return Cell{Text: n.Chain}
			}
			return Cell{Text: params.Name}
		},
	},
	{
		label: "Prune",
		hint:  "Prune target in MiB",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			if n.Prune == "" {
				return Cell{Text: notApplicable}
			}
			return Cell{Text: p.integer(n.Id, "prune", n.Prune)}
		},
	},
	{
		label: "Prune Height",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			if n.PruneHeight == "" {
				return Cell{Text: notApplicable}
			}
			return Cell{Text: p.integer(n.Id, "pruneHeight", n.PruneHeight)}
		},
	},
	{
		label: "Height",
		hint:  "View block on mempool.space",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			return Cell{
				Text: p.integer(n.Id, "height", n.Height),
				Href: n.HeightUrl,
			}
		},
	},
	{
		label: "Best Block",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			return Cell{Text: p.hash(n.Id, "bestBlock", n.BestBlock), Mono: true}
		},
	},
	{
		label: "MuHash",
		hint:  "UTXO set hash",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			return Cell{Text: p.hash(n.Id, "muhash", n.Muhash), Mono: true}
		},
	},
	{
		label: "Hash Serialized",
		hint:  "hash_serialized_3 value",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			return Cell{Text: p.hash(n.Id, "hashSerialized", n.HashSerialized), Mono: true}
		},
	},
	{
		label: "TXOuts",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			return Cell{Text: p.integer(n.Id, "txouts", n.Txouts)}
		},
	},
	{
		label: "Supply (sats)",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			return Cell{Text: p.integer(n.Id, "supply", n.Supply)}
		},
	},
	{
		label: "Supply (BTC)",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			val, err := p.formatter.Supply(n.Supply)
			return Cell{Text: p.fallback(n.Id, "supply", val, err)}
		},
	},
	{
		label: "AssumeUTXO Height",
		cell: func(p *projector, n snapshots.NetworkDescriptor) Cell {
			if !n.HasAssumeUtxo() {
				return Cell{Text: notApplicable}
			}
			return Cell{Text: p.integer(n.Id, "assumeUtxoHeight", n.AssumeUtxo.Height)}
		},
	},
	{
		label: "Flags",
		cell: func(_ *projector, n snapshots.NetworkDescriptor) Cell {
			if len(n.Flags) == 0 {
				return Cell{Text: notApplicable}
			}
			return Cell{Text: strings.Join(n.Flags, ", "), Mono: true}
		},
	},
}

type projector struct {
	formatter *format.Formatter
	logger    *slog.Logger
}

// Project maps the registry through the formatters into the page for the specified state.
// A figure that fails to format is shown as format.Fallback and logged, so one malformed
// entry never affects the others
func Project(
	registry Source,
	state State,
	formatter *format.Formatter,
	logger *slog.Logger,
) *Page {
	p := &projector{
		formatter: formatter,
		logger:    logger,
	}
	if p.formatter == nil {
		p.formatter = format.NewFormatter(format.DefaultLanguage)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	networks := registry.Networks()
	page := &Page{
		State: state,
		Verification: Verification{
			ChecksumCommand:  ChecksumCommand,
			SignatureCommand: SignatureCommand,
			DigestsUrl:       registry.DigestsUrl(),
			SignatureUrl:     registry.SignatureUrl(),
		},
	}
	for _, tab := range Tabs {
		target := state
		target.ActiveTab = tab
		page.Tabs = append(
			page.Tabs,
			TabLink{
				Tab:    tab,
				Label:  tab.Label(),
				Href:   target.Href(),
				Active: tab == state.ActiveTab,
			},
		)
	}
	for _, network := range networks {
		page.Cards = append(page.Cards, p.card(state, network))
		page.Details.Columns = append(
			page.Details.Columns,
			Column{
				Id:    network.Id,
				Name:  network.Name,
				Color: network.Color,
			},
		)
	}
	for _, rowDef := range detailsRows {
		row := Row{
			Label: rowDef.label,
			Hint:  rowDef.hint,
			Cells: make([]Cell, 0, len(networks)),
		}
		for _, network := range networks {
			row.Cells = append(row.Cells, rowDef.cell(p, network))
		}
		page.Details.Rows = append(page.Details.Rows, row)
	}
	if state.OpenDialog.IsOpen() {
		if network, ok := registry.Lookup(state.OpenDialog.NetworkId); ok {
			page.Dialog = p.dialog(state, network)
		}
	}
	return page
}

func (p *projector) card(state State, network snapshots.NetworkDescriptor) Card {
	var card Card
	if err := copier.Copy(&card, &network); err != nil {
		p.logger.Warn(
			"failed to copy network into card",
			"network", network.Id,
			"error", err,
		)
	}
	card.HeightText = p.integer(network.Id, "height", network.Height)
	card.TxoutsText = p.integer(network.Id, "txouts", network.Txouts)
	card.SnapshotHref = openHref(state, DialogSnapshot, network.Id)
	if network.HasAssumeUtxo() {
		card.AssumeUtxoOffer = &AssumeUtxoOffer{
			HeightText: p.integer(network.Id, "assumeUtxoHeight", network.AssumeUtxo.Height),
			Href:       openHref(state, DialogAssumeUtxo, network.Id),
		}
	}
	return card
}

func (p *projector) dialog(state State, network snapshots.NetworkDescriptor) *DialogView {
	ret := &DialogView{}
	if err := copier.Copy(ret, &network); err != nil {
		p.logger.Warn(
			"failed to copy network into dialog",
			"network", network.Id,
			"error", err,
		)
	}
	ret.Kind = state.OpenDialog.Kind
	ret.NetworkId = network.Id
	closed := state
	closed.OpenDialog = Dialog{}
	ret.CancelHref = closed.Href()
	ret.ConfirmHref = DownloadPath(network.Id, ret.Kind)
	switch ret.Kind {
	case DialogSnapshot:
		ret.Title = "Download " + network.Name + " snapshot"
		ret.Url = network.DownloadUrl
		ret.HeightText = p.integer(network.Id, "height", network.Height)
	case DialogAssumeUtxo:
		ret.Title = "Download " + network.Name + " UTXO set"
		ret.Size = ""
		if network.HasAssumeUtxo() {
			ret.Url = network.AssumeUtxo.Url
			ret.HeightText = p.integer(network.Id, "assumeUtxoHeight", network.AssumeUtxo.Height)
		}
	}
	return ret
}

func (p *projector) integer(networkId, field, val string) string {
	ret, err := p.formatter.Integer(val)
	return p.fallback(networkId, field, ret, err)
}

func (p *projector) hash(networkId, field, val string) string {
	ret, err := format.TruncateHash(val)
	return p.fallback(networkId, field, ret, err)
}

func (p *projector) fallback(networkId, field, val string, err error) string {
	if err != nil {
		p.logger.Warn(
			"failed to format network field",
			"network", networkId,
			"field", field,
			"error", err,
		)
	}
	return format.OrFallback(val, err)
}

func openHref(state State, kind DialogKind, networkId string) string {
	state.OpenDialog = Dialog{Kind: kind, NetworkId: networkId}
	return state.Href()
}
