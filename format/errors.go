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

package format

import (
	"errors"
	"fmt"
)

// Sentinel errors so callers can use errors.Is
var (
	ErrFormat     = errors.New("invalid numeric string")
	ErrTruncation = errors.New("invalid hash for truncation")
)

// FormatError indicates a numeric string that is not a valid non-negative integer literal
type FormatError struct {
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid numeric string %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid numeric string %q", e.Value)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (*FormatError) Is(target error) bool {
	return target == ErrFormat
}

// TruncationError indicates a hash that cannot be shown as four groups of four
type TruncationError struct {
	Hash   string
	Reason string
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("cannot truncate hash %q: %s", e.Hash, e.Reason)
}

func (*TruncationError) Is(target error) bool {
	return target == ErrTruncation
}
