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

// Package cbor wraps github.com/fxamacker/cbor/v2 with the encoding rules used for registry
// exports.
//
// Encoding always uses core deterministic ordering, so the same registry produces the same
// bytes on every request and the output is safe to hash for cache validators. Struct fields
// without a cbor tag fall back to their json tag, so the JSON and CBOR exports share a shape.
//
// Decoding rejects unknown fields.
package cbor

// ContentType is the media type for CBOR payloads (RFC 8949)
const ContentType = "application/cbor"
