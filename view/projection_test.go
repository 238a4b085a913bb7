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

package view_test

import (
	"bytes"
	"log/slog"
	"testing"

	snapshots "github.com/jaonoctus/bitcoin-snapshots"
	"github.com/jaonoctus/bitcoin-snapshots/format"
	"github.com/jaonoctus/bitcoin-snapshots/internal/test"
	"github.com/jaonoctus/bitcoin-snapshots/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// unvalidatedSource serves descriptors that never went through registry validation
type unvalidatedSource struct {
	networks []snapshots.NetworkDescriptor
}

func (s unvalidatedSource) Networks() []snapshots.NetworkDescriptor {
	return s.networks
}

func (s unvalidatedSource) Lookup(id string) (snapshots.NetworkDescriptor, bool) {
	for _, network := range s.networks {
		if network.Id == id {
			return network, true
		}
	}
	return snapshots.NetworkDescriptor{}, false
}

func (unvalidatedSource) DigestsUrl() string   { return "https://snapshots.example.com/digests.txt" }
func (unvalidatedSource) SignatureUrl() string { return "https://snapshots.example.com/digests.txt.asc" }

func findRow(t *testing.T, page *view.Page, label string) view.Row {
	t.Helper()
	for _, row := range page.Details.Rows {
		if row.Label == label {
			return row
		}
	}
	require.Failf(t, "row not found", "label %q", label)
	return view.Row{}
}

func TestProjectSignetEndToEnd(t *testing.T) {
	reg := test.RegistryFixture(test.NetworkFixture("signet"))
	page := view.Project(reg, view.Initial(), nil, nil)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "237,052", page.Cards[0].HeightText)
	assert.Equal(t, "11,671,351", page.Cards[0].TxoutsText)
	assert.Equal(t, "11,671,351", findRow(t, page, "TXOuts").Cells[0].Text)
	assert.Equal(t, "237,052", findRow(t, page, "Height").Cells[0].Text)
}

func TestProjectCards(t *testing.T) {
	reg := test.RegistryFixture(
		test.NetworkFixture("signet"),
		test.NetworkFixtureWithAssumeUtxo("mutinynet", "1000000"),
	)
	page := view.Project(reg, view.Initial(), nil, nil)
	require.Len(t, page.Cards, 2)
	signet := page.Cards[0]
	assert.Equal(t, "signet", signet.Id)
	assert.Equal(t, "Signet", signet.Name)
	assert.Equal(t, snapshots.SnapshotTypeFull, signet.Type)
	assert.Equal(t, "indigo", signet.Color)
	assert.Equal(t, "9.3G", signet.Size)
	assert.Contains(t, signet.HeightUrl, "https://mempool.space/signet/block/")
	assert.Equal(t, "/?dialog=snapshot&network=signet", signet.SnapshotHref)
	// The assume-utxo control is never offered without a file
	assert.Nil(t, signet.AssumeUtxoOffer)
	mutinynet := page.Cards[1]
	require.NotNil(t, mutinynet.AssumeUtxoOffer)
	assert.Equal(t, "1,000,000", mutinynet.AssumeUtxoOffer.HeightText)
	assert.Equal(t, "/?dialog=assumeutxo&network=mutinynet", mutinynet.AssumeUtxoOffer.Href)
}

func TestProjectTabs(t *testing.T) {
	reg := snapshots.DefaultRegistry()
	state := view.State{
		ActiveTab:  view.TabDetails,
		OpenDialog: view.Dialog{Kind: view.DialogSnapshot, NetworkId: "mainnet"},
	}
	page := view.Project(reg, state, nil, nil)
	require.Len(t, page.Tabs, 2)
	assert.False(t, page.Tabs[0].Active)
	assert.Equal(t, "Overview", page.Tabs[0].Label)
	assert.Equal(t, "/?dialog=snapshot&network=mainnet", page.Tabs[0].Href)
	assert.True(t, page.Tabs[1].Active)
	assert.Equal(t, "Technical Details", page.Tabs[1].Label)
}

func TestProjectDetails(t *testing.T) {
	page := view.Project(snapshots.DefaultRegistry(), view.Initial(), nil, nil)
	require.Len(t, page.Details.Columns, 3)
	assert.Equal(t, "Mainnet", page.Details.Columns[0].Name)
	labels := []string{}
	for _, row := range page.Details.Rows {
		require.Len(t, row.Cells, 3, "row %s", row.Label)
		labels = append(labels, row.Label)
	}
	assert.Equal(
		t,
		[]string{
			"Size",
			"Type",
			"Chain",
			"Prune",
			"Prune Height",
			"Height",
			"Best Block",
			"MuHash",
			"Hash Serialized",
			"TXOuts",
			"Supply (sats)",
			"Supply (BTC)",
			"AssumeUTXO Height",
			"Flags",
		},
		labels,
	)
	testDefs := []struct {
		label    string
		expected []string
	}{
		{"Size", []string{"12G", "7.6G", "9.3G"}},
		{"Type", []string{"pruned", "pruned", "full"}},
		{"Chain", []string{"mainnet", "testnet3", "signet"}},
		{"Prune", []string{"550", "550", "-"}},
		{"Prune Height", []string{"885,156", "-", "-"}},
		{"Height", []string{"885,445", "2,745,129", "237,052"}},
		{"Best Block", []string{"A27D 2C06 67BA 085C", "59F8 A80A F9BD EA6D", "CA0F D993 0DE2 3F7F"}},
		{"MuHash", []string{"ACB3 7639 EB04 D411", "F8F1 4157 C031 EDDE", "0A28 54DA 805A C8FE"}},
		{"TXOuts", []string{"179,299,972", "103,066,356", "11,671,351"}},
		{"Supply (sats)", []string{"1,982,929,792,652,975", "2,099,663,916,474,610", "1,117,602,719,924,825"}},
		{"Supply (BTC)", []string{"19,829,297.92652975 BTC", "20,996,639.16474610 BTC", "11,176,027.19924825 BTC"}},
		{"AssumeUTXO Height", []string{"-", "2,500,000", "-"}},
	}
	for _, testDef := range testDefs {
		row := findRow(t, page, testDef.label)
		got := []string{}
		for _, cell := range row.Cells {
			got = append(got, cell.Text)
		}
		assert.Equal(t, testDef.expected, got, "row %s", testDef.label)
	}
	height := findRow(t, page, "Height")
	assert.Equal(t, "View block on mempool.space", height.Hint)
	assert.Contains(t, height.Cells[2].Href, "https://mempool.space/signet/block/")
	assert.True(t, findRow(t, page, "MuHash").Cells[0].Mono)
	assert.Equal(t, "UTXO set hash", findRow(t, page, "MuHash").Hint)
	assert.True(t, findRow(t, page, "Size").Cells[0].Badge)
}

func TestProjectVerification(t *testing.T) {
	page := view.Project(snapshots.DefaultRegistry(), view.Initial(), nil, nil)
	assert.Equal(t, "sha256sum --check --ignore-missing digests.txt", page.Verification.ChecksumCommand)
	assert.Equal(t, "gpg --verify digests.txt.asc", page.Verification.SignatureCommand)
	assert.Equal(t, snapshots.DefaultDigestsUrl, page.Verification.DigestsUrl)
	assert.Equal(t, snapshots.DefaultSignatureUrl, page.Verification.SignatureUrl)
}

func TestProjectSnapshotDialog(t *testing.T) {
	reg := test.RegistryFixture(test.NetworkFixture("signet"))
	state := view.State{
		ActiveTab:  view.TabDetails,
		OpenDialog: view.Dialog{Kind: view.DialogSnapshot, NetworkId: "signet"},
	}
	page := view.Project(reg, state, nil, nil)
	require.NotNil(t, page.Dialog)
	assert.Equal(t, view.DialogSnapshot, page.Dialog.Kind)
	assert.Equal(t, "Signet", page.Dialog.Name)
	assert.Equal(t, "9.3G", page.Dialog.Size)
	assert.Equal(t, "https://snapshots.example.com/signet.tar.zst", page.Dialog.Url)
	assert.Equal(t, "237,052", page.Dialog.HeightText)
	assert.Equal(t, "/download/signet/snapshot", page.Dialog.ConfirmHref)
	assert.Equal(t, "/?tab=details", page.Dialog.CancelHref)
}

func TestProjectAssumeUtxoDialog(t *testing.T) {
	reg := test.RegistryFixture(test.NetworkFixtureWithAssumeUtxo("signet", "160000"))
	state := view.State{
		ActiveTab:  view.TabOverview,
		OpenDialog: view.Dialog{Kind: view.DialogAssumeUtxo, NetworkId: "signet"},
	}
	page := view.Project(reg, state, nil, nil)
	require.NotNil(t, page.Dialog)
	assert.Equal(t, "https://snapshots.example.com/utxo-signet-160000.dat.zst", page.Dialog.Url)
	assert.Equal(t, "160,000", page.Dialog.HeightText)
	assert.Empty(t, page.Dialog.Size)
	assert.Equal(t, "/download/signet/assumeutxo", page.Dialog.ConfirmHref)
	assert.Equal(t, "/", page.Dialog.CancelHref)
}

func TestProjectNoDialog(t *testing.T) {
	page := view.Project(snapshots.DefaultRegistry(), view.Initial(), nil, nil)
	assert.Nil(t, page.Dialog)
}

func TestProjectLocale(t *testing.T) {
	reg := test.RegistryFixture(test.NetworkFixture("signet"))
	page := view.Project(reg, view.Initial(), format.NewFormatter(language.German), nil)
	assert.Equal(t, "237.052", page.Cards[0].HeightText)
	assert.Equal(t, "11.176.027,19924825 BTC", findRow(t, page, "Supply (BTC)").Cells[0].Text)
}

func TestProjectFallback(t *testing.T) {
	broken := test.NetworkFixture("broken")
	broken.Txouts = "many"
	broken.Muhash = "abc"
	src := unvalidatedSource{
		networks: []snapshots.NetworkDescriptor{
			broken,
			test.NetworkFixture("signet"),
		},
	}
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	page := view.Project(src, view.Initial(), nil, logger)
	require.Len(t, page.Cards, 2)
	assert.Equal(t, format.Fallback, page.Cards[0].TxoutsText)
	assert.Equal(t, "237,052", page.Cards[0].HeightText)
	// A malformed entry leaves its neighbours alone
	assert.Equal(t, "11,671,351", page.Cards[1].TxoutsText)
	muhash := findRow(t, page, "MuHash")
	assert.Equal(t, format.Fallback, muhash.Cells[0].Text)
	assert.Equal(t, "0A28 54DA 805A C8FE", muhash.Cells[1].Text)
	logs := logBuf.String()
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "network=broken")
	assert.Contains(t, logs, "field=txouts")
	assert.Contains(t, logs, "field=muhash")
	assert.NotContains(t, logs, "network=signet")
}

func TestDownloadPath(t *testing.T) {
	assert.Equal(t, "/download/mainnet/snapshot", view.DownloadPath("mainnet", view.DialogSnapshot))
	assert.Equal(t, "/download/a%2Fb/assumeutxo", view.DownloadPath("a/b", view.DialogAssumeUtxo))
}
