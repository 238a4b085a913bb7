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
	"slices"

	"github.com/btcsuite/btcd/chaincfg"
)

// Chain tags. Custom signets such as mutinynet use ChainSignet
const (
	ChainMainnet = "mainnet"
	ChainTestnet = "testnet"
	ChainSignet  = "signet"
	ChainRegtest = "regtest"
)

var chainParams = map[string]*chaincfg.Params{
	ChainMainnet: &chaincfg.MainNetParams,
	ChainTestnet: &chaincfg.TestNet3Params,
	ChainSignet:  &chaincfg.SigNetParams,
	ChainRegtest: &chaincfg.RegressionNetParams,
}

// ChainParams returns the network parameters for a chain tag
func ChainParams(chain string) (*chaincfg.Params, bool) {
	params, ok := chainParams[chain]
	return params, ok
}

// Chains returns the known chain tags in sorted order
func Chains() []string {
	ret := make([]string, 0, len(chainParams))
	for chain := range chainParams {
		ret = append(ret, chain)
	}
	slices.Sort(ret)
	return ret
}
