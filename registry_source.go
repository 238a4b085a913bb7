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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceFormat identifies the encoding of a registry document
type SourceFormat string

const (
	SourceFormatJSON SourceFormat = "json"
	SourceFormatYAML SourceFormat = "yaml"
)

// RegistryDocument represents a registry source file
type RegistryDocument struct {
	DigestsUrl   string          `json:"digestsUrl"   yaml:"digestsUrl"`
	SignatureUrl string          `json:"signatureUrl" yaml:"signatureUrl"`
	Networks     []NetworkRecord `json:"networks"     yaml:"networks"`
}

// NetworkRecord is the flat, serializable form of a NetworkDescriptor
type NetworkRecord struct {
	Id               string   `json:"id"                         yaml:"id"`
	Name             string   `json:"name"                       yaml:"name"`
	Type             string   `json:"type"                       yaml:"type"`
	Chain            string   `json:"chain"                      yaml:"chain"`
	Color            string   `json:"color,omitempty"            yaml:"color,omitempty"`
	DownloadUrl      string   `json:"downloadUrl"                yaml:"downloadUrl"`
	AssumeUtxoUrl    string   `json:"assumeUtxoUrl,omitempty"    yaml:"assumeUtxoUrl,omitempty"`
	AssumeUtxoHeight string   `json:"assumeUtxoHeight,omitempty" yaml:"assumeUtxoHeight,omitempty"`
	Size             string   `json:"size"                       yaml:"size"`
	Height           string   `json:"height"                     yaml:"height"`
	HeightUrl        string   `json:"heightUrl"                  yaml:"heightUrl"`
	BestBlock        string   `json:"bestBlock"                  yaml:"bestBlock"`
	Muhash           string   `json:"muhash"                     yaml:"muhash"`
	HashSerialized   string   `json:"hashSerialized"             yaml:"hashSerialized"`
	Txouts           string   `json:"txouts"                     yaml:"txouts"`
	Supply           string   `json:"supply"                     yaml:"supply"`
	Prune            string   `json:"prune,omitempty"            yaml:"prune,omitempty"`
	PruneHeight      string   `json:"pruneHeight,omitempty"      yaml:"pruneHeight,omitempty"`
	Flags            []string `json:"flags,omitempty"            yaml:"flags,omitempty"`
}

// Descriptor converts the record into a NetworkDescriptor. The assume-utxo URL and height
// must be given together
func (r NetworkRecord) Descriptor() (NetworkDescriptor, error) {
	d := NetworkDescriptor{
		Id:             r.Id,
		Name:           r.Name,
		Type:           SnapshotType(r.Type),
		Chain:          r.Chain,
		Color:          r.Color,
		DownloadUrl:    r.DownloadUrl,
		Size:           r.Size,
		Height:         r.Height,
		HeightUrl:      r.HeightUrl,
		BestBlock:      r.BestBlock,
		Muhash:         r.Muhash,
		HashSerialized: r.HashSerialized,
		Txouts:         r.Txouts,
		Supply:         r.Supply,
		Prune:          r.Prune,
		PruneHeight:    r.PruneHeight,
		Flags:          slices.Clone(r.Flags),
	}
	switch {
	case r.AssumeUtxoUrl != "" && r.AssumeUtxoHeight != "":
		d.AssumeUtxo = &AssumeUtxo{
			Url:    r.AssumeUtxoUrl,
			Height: r.AssumeUtxoHeight,
		}
	case r.AssumeUtxoUrl != "":
		return NetworkDescriptor{}, &RegistryError{
			NetworkId: r.Id,
			Field:     "assumeUtxoHeight",
			Err:       errors.New("must be set when assumeUtxoUrl is set"),
		}
	case r.AssumeUtxoHeight != "":
		return NetworkDescriptor{}, &RegistryError{
			NetworkId: r.Id,
			Field:     "assumeUtxoUrl",
			Err:       errors.New("must be set when assumeUtxoHeight is set"),
		}
	}
	return d, nil
}

// NewNetworkRecord returns the serializable form of a descriptor
func NewNetworkRecord(d NetworkDescriptor) NetworkRecord {
	r := NetworkRecord{
		Id:             d.Id,
		Name:           d.Name,
		Type:           string(d.Type),
		Chain:          d.Chain,
		Color:          d.Color,
		DownloadUrl:    d.DownloadUrl,
		Size:           d.Size,
		Height:         d.Height,
		HeightUrl:      d.HeightUrl,
		BestBlock:      d.BestBlock,
		Muhash:         d.Muhash,
		HashSerialized: d.HashSerialized,
		Txouts:         d.Txouts,
		Supply:         d.Supply,
		Prune:          d.Prune,
		PruneHeight:    d.PruneHeight,
		Flags:          slices.Clone(d.Flags),
	}
	if d.AssumeUtxo != nil {
		r.AssumeUtxoUrl = d.AssumeUtxo.Url
		r.AssumeUtxoHeight = d.AssumeUtxo.Height
	}
	return r
}

// Document returns the serializable form of the registry
func (r *Registry) Document() *RegistryDocument {
	doc := &RegistryDocument{
		DigestsUrl:   r.digestsUrl,
		SignatureUrl: r.signatureUrl,
		Networks:     make([]NetworkRecord, 0, len(r.networks)),
	}
	for _, network := range r.networks {
		doc.Networks = append(doc.Networks, NewNetworkRecord(network))
	}
	return doc
}

// NewRegistryFromDocument validates a registry document and builds a registry from it
func NewRegistryFromDocument(doc *RegistryDocument) (*Registry, error) {
	networks := make([]NetworkDescriptor, 0, len(doc.Networks))
	for _, record := range doc.Networks {
		d, err := record.Descriptor()
		if err != nil {
			return nil, err
		}
		networks = append(networks, d)
	}
	return NewRegistry(doc.DigestsUrl, doc.SignatureUrl, networks)
}

// SourceFormatFromPath guesses the document format from a file extension
func SourceFormatFromPath(path string) (SourceFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON, nil
	case ".yaml", ".yml":
		return SourceFormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported registry file extension: %s", path)
	}
}

func NewRegistryFromFile(path string) (*Registry, error) {
	sourceFormat, err := SourceFormatFromPath(path)
	if err != nil {
		return nil, err
	}
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dataFile.Close()
	r, err := NewRegistryFromReader(dataFile, sourceFormat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func NewRegistryFromReader(r io.Reader, sourceFormat SourceFormat) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := &RegistryDocument{}
	switch sourceFormat {
	case SourceFormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to decode registry JSON: %w", err)
		}
	case SourceFormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to decode registry YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported registry format: %s", sourceFormat)
	}
	return NewRegistryFromDocument(doc)
}
