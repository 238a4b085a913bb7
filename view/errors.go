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
	"errors"
	"fmt"
)

// Sentinel error for invalid transitions so callers can use errors.Is
var ErrUsage = errors.New("invalid view transition")

// UsageError indicates a transition the view should never have offered, such as opening
// the assume-utxo dialog for a network without a UTXO set file
type UsageError struct {
	Op        string
	NetworkId string
	Reason    string
}

func (e *UsageError) Error() string {
	if e.NetworkId == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s(%q): %s", e.Op, e.NetworkId, e.Reason)
}

func (*UsageError) Is(target error) bool {
	return target == ErrUsage
}
