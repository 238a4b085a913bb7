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
)

// Sentinel error for registry validation failures so callers can use errors.Is
var ErrInvalidRegistry = errors.New("invalid snapshot registry")

// RegistryError indicates a descriptor that violates a registry invariant
type RegistryError struct {
	NetworkId string
	Field     string
	Err       error
}

func (e *RegistryError) Error() string {
	if e.NetworkId == "" {
		return fmt.Sprintf("invalid registry field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf(
		"invalid network %q field %s: %v",
		e.NetworkId,
		e.Field,
		e.Err,
	)
}

func (e *RegistryError) Unwrap() error { return e.Err }

func (*RegistryError) Is(target error) bool {
	return target == ErrInvalidRegistry
}
