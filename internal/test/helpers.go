package test

import (
	"encoding/hex"
	"fmt"
	"strings"

	snapshots "github.com/jaonoctus/bitcoin-snapshots"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// NetworkFixture returns a valid signet-style descriptor with the specified ID. It has no
// assume-utxo file
func NetworkFixture(id string) snapshots.NetworkDescriptor {
	return snapshots.NetworkDescriptor{
		Id:             id,
		Name:           strings.ToUpper(id[:1]) + id[1:],
		Type:           snapshots.SnapshotTypeFull,
		Chain:          snapshots.ChainSignet,
		Color:          "indigo",
		DownloadUrl:    "https://snapshots.example.com/" + id + ".tar.zst",
		Size:           "9.3G",
		Height:         "237052",
		HeightUrl:      "https://mempool.space/signet/block/000000749029989b6df38e62bb2e2e43778a814ba8c13807ca0fd9930de23f7f",
		BestBlock:      "000000749029989b6df38e62bb2e2e43778a814ba8c13807ca0fd9930de23f7f",
		Muhash:         "fe14ef3f472786d9f07b25940a75bc0bac224475e77478f60a2854da805ac8fe",
		HashSerialized: "7f9ec48ab5f54a860bb2b69dbbee45352a3cbe193cae453ef83758092a349849",
		Txouts:         "11671351",
		Supply:         "1117602719924825",
	}
}

// NetworkFixtureWithAssumeUtxo returns NetworkFixture with an assume-utxo file at the specified height
func NetworkFixtureWithAssumeUtxo(id string, height string) snapshots.NetworkDescriptor {
	d := NetworkFixture(id)
	d.AssumeUtxo = &snapshots.AssumeUtxo{
		Url:    "https://snapshots.example.com/utxo-" + id + "-" + height + ".dat.zst",
		Height: height,
	}
	return d
}

// RegistryFixture builds a registry from the provided descriptors. It panics if they are invalid
func RegistryFixture(networks ...snapshots.NetworkDescriptor) *snapshots.Registry {
	return snapshots.MustNewRegistry(
		"https://snapshots.example.com/digests.txt",
		"https://snapshots.example.com/digests.txt.asc",
		networks,
	)
}
