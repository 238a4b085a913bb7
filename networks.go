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

package snapshots

import "slices"

// Snapshot archive locations
const (
	DefaultDigestsUrl   = "https://pub-3fcf0b98b9e64d6381ced6eddee57bbf.r2.dev/022025/digests.txt"
	DefaultSignatureUrl = "https://pub-3fcf0b98b9e64d6381ced6eddee57bbf.r2.dev/022025/digests.txt.asc"
)

// Network definitions
var (
	NetworkMainnet = NetworkDescriptor{
		Id:             "mainnet",
		Name:           "Mainnet",
		Type:           SnapshotTypePruned,
		Chain:          ChainMainnet,
		Color:          "orange",
		DownloadUrl:    "https://pub-3fcf0b98b9e64d6381ced6eddee57bbf.r2.dev/022025/snapshot-bitcoin-mainnet-885445-pruned.tar.zst",
		Size:           "12G",
		Height:         "885445",
		HeightUrl:      "https://mempool.space/block/00000000000000000001344da71dcf873b5d9a00e30d61b6a27d2c0667ba085c",
		BestBlock:      "00000000000000000001344da71dcf873b5d9a00e30d61b6a27d2c0667ba085c",
		Muhash:         "68a7c1b34cbd6ca2fadffd650d2554a3639ddfe284863af5acb37639eb04d411",
		HashSerialized: "4b9f2b488dbbcd80a75f602dfa5aceeb880fab29bbd1b20c567ce373093c83d0",
		Txouts:         "179299972",
		Supply:         "1982929792652975",
		Prune:          "550",
		PruneHeight:    "885156",
	}
	// The testnet commitments were published truncated, so only their last 16 characters are known
	NetworkTestnet = NetworkDescriptor{
		Id:          "testnet",
		Name:        "Testnet3",
		Type:        SnapshotTypePruned,
		Chain:       ChainTestnet,
		Color:       "teal",
		DownloadUrl: "https://eu2.contabostorage.com/3fc7909e0b8744a6a4fb58dc5158ffb6:bitcoin/202404/testnet.tar.zst",
		AssumeUtxo: &AssumeUtxo{
			Url:    "https://eu2.contabostorage.com/3fc7909e0b8744a6a4fb58dc5158ffb6:bitcoin/20231218/utxo-testnet-2500000.dat.zst",
			Height: "2500000",
		},
		Size:           "7.6G",
		Height:         "2745129",
		HeightUrl:      "https://mempool.space/testnet/block/00000000000003acf6e5b8e560ff5c5a97748f9a4279418159f8a80af9bdea6d",
		BestBlock:      "00000000000003acf6e5b8e560ff5c5a97748f9a4279418159f8a80af9bdea6d",
		Muhash:         "f8f14157c031edde",
		HashSerialized: "765205657bc6d834",
		Txouts:         "103066356",
		Supply:         "2099663916474610",
		Prune:          "550",
	}
	NetworkSignet = NetworkDescriptor{
		Id:             "signet",
		Name:           "Signet",
		Type:           SnapshotTypeFull,
		Chain:          ChainSignet,
		Color:          "indigo",
		DownloadUrl:    "https://pub-3fcf0b98b9e64d6381ced6eddee57bbf.r2.dev/022025/snapshot-bitcoin-signet-237052-full.tar.zst",
		Size:           "9.3G",
		Height:         "237052",
		HeightUrl:      "https://mempool.space/signet/block/000000749029989b6df38e62bb2e2e43778a814ba8c13807ca0fd9930de23f7f",
		BestBlock:      "000000749029989b6df38e62bb2e2e43778a814ba8c13807ca0fd9930de23f7f",
		Muhash:         "fe14ef3f472786d9f07b25940a75bc0bac224475e77478f60a2854da805ac8fe",
		HashSerialized: "7f9ec48ab5f54a860bb2b69dbbee45352a3cbe193cae453ef83758092a349849",
		Txouts:         "11671351",
		Supply:         "1117602719924825",
	}
)

// List of published networks, in display order
var networks = []NetworkDescriptor{
	NetworkMainnet,
	NetworkTestnet,
	NetworkSignet,
}

var defaultRegistry = MustNewRegistry(
	DefaultDigestsUrl,
	DefaultSignatureUrl,
	networks,
)

// DefaultRegistry returns the registry built from the published network table
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NetworkById returns a published network by ID
func NetworkById(id string) (NetworkDescriptor, bool) {
	return defaultRegistry.Lookup(id)
}

// SnapshotType describes how complete a snapshot's block data is
type SnapshotType string

const (
	SnapshotTypePruned SnapshotType = "pruned"
	SnapshotTypeFull   SnapshotType = "full"
)

func (t SnapshotType) Valid() bool {
	return t == SnapshotTypePruned || t == SnapshotTypeFull
}

// AssumeUtxo locates a UTXO set file usable with assumeutxo. A descriptor without one has a
// nil AssumeUtxo, so the URL and height are always present together
type AssumeUtxo struct {
	Url    string
	Height string
}

// NetworkDescriptor represents a published snapshot for a Bitcoin network
type NetworkDescriptor struct {
	Id             string
	Name           string
	Type           SnapshotType
	Chain          string
	Color          string // presentation accent
	DownloadUrl    string
	AssumeUtxo     *AssumeUtxo
	Size           string // human-readable, not parsed
	Height         string
	HeightUrl      string
	BestBlock      string
	Muhash         string
	HashSerialized string
	Txouts         string
	Supply         string // satoshis
	Prune          string // prune target in MiB, empty when not pruned
	PruneHeight    string // empty when absent
	Flags          []string
}

func (d NetworkDescriptor) String() string {
	return d.Id
}

// HasAssumeUtxo returns whether the network publishes a UTXO set file
func (d NetworkDescriptor) HasAssumeUtxo() bool {
	return d.AssumeUtxo != nil
}

// Clone returns a deep copy, so callers cannot modify registry-owned data
func (d NetworkDescriptor) Clone() NetworkDescriptor {
	if d.AssumeUtxo != nil {
		tmp := *d.AssumeUtxo
		d.AssumeUtxo = &tmp
	}
	d.Flags = slices.Clone(d.Flags)
	return d
}
