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
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// TruncatedHashChars is the number of trailing hash characters kept by TruncateHash
	TruncatedHashChars = 16

	hashGroupSize = 4

	// Fallback is shown in place of a value that failed to format
	Fallback = "—"
)

// DefaultLanguage is the locale used by the package-level helpers
var DefaultLanguage = language.AmericanEnglish

var defaultFormatter = NewFormatter(DefaultLanguage)

// TruncateHash returns the last 16 characters of a hex hash, uppercased and split into
// four space-separated groups of four (XXXX XXXX XXXX XXXX)
func TruncateHash(hash string) (string, error) {
	if len(hash) < TruncatedHashChars {
		return "", &TruncationError{
			Hash: hash,
			Reason: fmt.Sprintf(
				"need at least %d characters, got %d",
				TruncatedHashChars,
				len(hash),
			),
		}
	}
	if idx := strings.IndexFunc(hash, func(r rune) bool { return !isHexDigit(r) }); idx >= 0 {
		return "", &TruncationError{
			Hash:   hash,
			Reason: fmt.Sprintf("non-hex character at offset %d", idx),
		}
	}
	tail := strings.ToUpper(hash[len(hash)-TruncatedHashChars:])
	var sb strings.Builder
	sb.Grow(TruncatedHashChars + TruncatedHashChars/hashGroupSize - 1)
	for i := 0; i < len(tail); i += hashGroupSize {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tail[i : i+hashGroupSize])
	}
	return sb.String(), nil
}

// IsHex reports whether s is non-empty and made only of hex digits
func IsHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isHexDigit(r) {
			return false
		}
	}
	return true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// ParseInteger parses a non-negative decimal integer literal. Signs, whitespace and
// separators are rejected
func ParseInteger(numeric string) (uint64, error) {
	// ParseUint does not accept a sign prefix, so "-5" and "+5" both fail here
	val, err := strconv.ParseUint(numeric, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &FormatError{Value: numeric, Err: err}
	}
	return val, nil
}

// FormatInteger renders a non-negative decimal integer with US English thousands separators
func FormatInteger(numeric string) (string, error) {
	return defaultFormatter.Integer(numeric)
}

// FormatSupply renders a satoshi amount as BTC using US English digit grouping
func FormatSupply(sats string) (string, error) {
	return defaultFormatter.Supply(sats)
}

// Formatter renders numeric figures for a specific locale. It is safe for concurrent use
type Formatter struct {
	tag        language.Tag
	printer    *message.Printer
	decimalSep string
}

// NewFormatter returns a Formatter for the specified language
func NewFormatter(tag language.Tag) *Formatter {
	p := message.NewPrinter(tag)
	// The printer does not expose its decimal separator directly
	decimalSep := strings.Trim(p.Sprintf("%.1f", 1.5), "15")
	if decimalSep == "" {
		decimalSep = "."
	}
	return &Formatter{
		tag:        tag,
		printer:    p,
		decimalSep: decimalSep,
	}
}

// Language returns the formatter's locale
func (f *Formatter) Language() language.Tag {
	return f.tag
}

// Integer renders a non-negative decimal integer with locale-appropriate digit grouping
func (f *Formatter) Integer(numeric string) (string, error) {
	val, err := ParseInteger(numeric)
	if err != nil {
		return "", err
	}
	return f.printer.Sprintf("%d", val), nil
}

// Supply renders a satoshi amount as "<grouped BTC>.<8 digits> BTC"
func (f *Formatter) Supply(sats string) (string, error) {
	val, err := ParseInteger(sats)
	if err != nil {
		return "", err
	}
	// Integer split avoids float64 rounding of 16 digit figures
	whole := val / btcutil.SatoshiPerBitcoin
	frac := val % btcutil.SatoshiPerBitcoin
	return fmt.Sprintf(
		"%s%s%08d %s",
		f.printer.Sprintf("%d", whole),
		f.decimalSep,
		frac,
		btcutil.AmountBTC.String(),
	), nil
}

// OrFallback returns val, or Fallback if err is set
func OrFallback(val string, err error) string {
	if err != nil {
		return Fallback
	}
	return val
}
