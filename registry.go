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

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"slices"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/jaonoctus/bitcoin-snapshots/format"
)

// Registry is an immutable, ordered collection of network descriptors. It is safe for
// concurrent use
type Registry struct {
	networks     []NetworkDescriptor
	index        map[string]int
	digestsUrl   string
	signatureUrl string
}

// NewRegistry validates the provided descriptors and returns a registry containing copies of them
func NewRegistry(
	digestsUrl string,
	signatureUrl string,
	networks []NetworkDescriptor,
) (*Registry, error) {
	if err := validateUrl(digestsUrl); err != nil {
		return nil, &RegistryError{Field: "digestsUrl", Err: err}
	}
	if err := validateUrl(signatureUrl); err != nil {
		return nil, &RegistryError{Field: "signatureUrl", Err: err}
	}
	r := &Registry{
		networks:     make([]NetworkDescriptor, 0, len(networks)),
		index:        make(map[string]int, len(networks)),
		digestsUrl:   digestsUrl,
		signatureUrl: signatureUrl,
	}
	for _, network := range networks {
		if err := validateDescriptor(network); err != nil {
			return nil, err
		}
		if _, ok := r.index[network.Id]; ok {
			return nil, &RegistryError{
				NetworkId: network.Id,
				Field:     "id",
				Err:       errors.New("duplicate network ID"),
			}
		}
		r.index[network.Id] = len(r.networks)
		r.networks = append(r.networks, network.Clone())
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error. It is intended for literal tables
func MustNewRegistry(
	digestsUrl string,
	signatureUrl string,
	networks []NetworkDescriptor,
) *Registry {
	r, err := NewRegistry(digestsUrl, signatureUrl, networks)
	if err != nil {
		panic(fmt.Sprintf("failed to build registry: %s", err))
	}
	return r
}

// Networks returns copies of all descriptors in registry order
func (r *Registry) Networks() []NetworkDescriptor {
	ret := make([]NetworkDescriptor, 0, len(r.networks))
	for _, network := range r.networks {
		ret = append(ret, network.Clone())
	}
	return ret
}

// Lookup returns the descriptor with the specified ID
func (r *Registry) Lookup(id string) (NetworkDescriptor, bool) {
	idx, ok := r.index[id]
	if !ok {
		return NetworkDescriptor{}, false
	}
	return r.networks[idx].Clone(), true
}

// Len returns the number of descriptors
func (r *Registry) Len() int {
	return len(r.networks)
}

// DigestsUrl returns the location of the checksum manifest covering all snapshots
func (r *Registry) DigestsUrl() string {
	return r.digestsUrl
}

// SignatureUrl returns the location of the detached signature for the checksum manifest
func (r *Registry) SignatureUrl() string {
	return r.signatureUrl
}

func validateDescriptor(d NetworkDescriptor) error {
	fieldErr := func(field string, err error) error {
		return &RegistryError{NetworkId: d.Id, Field: field, Err: err}
	}
	if d.Id == "" {
		return fieldErr("id", errors.New("must not be empty"))
	}
	if d.Name == "" {
		return fieldErr("name", errors.New("must not be empty"))
	}
	if !d.Type.Valid() {
		return fieldErr("type", fmt.Errorf("unknown snapshot type %q", d.Type))
	}
	if _, ok := ChainParams(d.Chain); !ok {
		return fieldErr(
			"chain",
			fmt.Errorf("unknown chain %q (known: %v)", d.Chain, Chains()),
		)
	}
	if err := validateUrl(d.DownloadUrl); err != nil {
		return fieldErr("downloadUrl", err)
	}
	if err := validateUrl(d.HeightUrl); err != nil {
		return fieldErr("heightUrl", err)
	}
	if d.AssumeUtxo != nil {
		if err := validateUrl(d.AssumeUtxo.Url); err != nil {
			return fieldErr("assumeUtxoUrl", err)
		}
		if _, err := format.ParseInteger(d.AssumeUtxo.Height); err != nil {
			return fieldErr("assumeUtxoHeight", err)
		}
	}
	for _, field := range []struct {
		name string
		hash string
	}{
		{"bestBlock", d.BestBlock},
		{"muhash", d.Muhash},
		{"hashSerialized", d.HashSerialized},
	} {
		if err := validateHash(field.hash); err != nil {
			return fieldErr(field.name, err)
		}
	}
	// A full block hash must satisfy the chain's proof-of-work limit
	if len(d.BestBlock) == chainhash.MaxHashStringSize {
		hash, err := chainhash.NewHashFromStr(d.BestBlock)
		if err != nil {
			return fieldErr("bestBlock", err)
		}
		params, _ := ChainParams(d.Chain)
		if hashToBig(hash).Cmp(params.PowLimit) > 0 {
			return fieldErr(
				"bestBlock",
				fmt.Errorf("hash %s is above the %s proof-of-work limit", hash, params.Name),
			)
		}
	}
	if _, err := format.ParseInteger(d.Height); err != nil {
		return fieldErr("height", err)
	}
	if _, err := format.ParseInteger(d.Txouts); err != nil {
		return fieldErr("txouts", err)
	}
	supply, err := format.ParseInteger(d.Supply)
	if err != nil {
		return fieldErr("supply", err)
	}
	if supply > btcutil.MaxSatoshi {
		return fieldErr(
			"supply",
			fmt.Errorf("%d exceeds the maximum of %d satoshis", supply, int64(btcutil.MaxSatoshi)),
		)
	}
	if d.Prune != "" {
		if _, err := format.ParseInteger(d.Prune); err != nil {
			return fieldErr("prune", err)
		}
	}
	if d.PruneHeight != "" {
		if _, err := format.ParseInteger(d.PruneHeight); err != nil {
			return fieldErr("pruneHeight", err)
		}
	}
	for _, flag := range d.Flags {
		if flag == "" {
			return fieldErr("flags", errors.New("empty flag"))
		}
	}
	return nil
}

// hashToBig interprets a chain hash, which is stored little-endian, as a big integer
func hashToBig(hash *chainhash.Hash) *big.Int {
	buf := *hash
	slices.Reverse(buf[:])
	return new(big.Int).SetBytes(buf[:])
}

func validateHash(hash string) error {
	if len(hash) < format.TruncatedHashChars {
		return fmt.Errorf(
			"need at least %d hex characters, got %d",
			format.TruncatedHashChars,
			len(hash),
		)
	}
	if !format.IsHex(hash) {
		return errors.New("not a hex string")
	}
	return nil
}

func validateUrl(rawUrl string) error {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", rawUrl)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", rawUrl)
	}
	return nil
}
