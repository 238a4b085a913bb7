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

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	snapshots "github.com/jaonoctus/bitcoin-snapshots"
	"github.com/jaonoctus/bitcoin-snapshots/cbor"
	"github.com/jaonoctus/bitcoin-snapshots/view"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"

	pageTemplate = "page.html"
)

type pageData struct {
	Lang string
	Page *view.Page
}

func (s *Server) handlePage(c *gin.Context) {
	status := http.StatusOK
	state, err := s.machine.FromQuery(c.Request.URL.Query())
	if err != nil {
		// Render whatever part of the query was valid
		status = s.usageError(c, err)
	}
	formatter := s.localizer.formatter(c.GetHeader("Accept-Language"))
	page := view.Project(
		s.machine.Registry(),
		state,
		formatter,
		s.logger.With("request_id", requestId(c)),
	)
	var buf bytes.Buffer
	if err := s.template.ExecuteTemplate(
		&buf,
		pageTemplate,
		pageData{Lang: formatter.Language().String(), Page: page},
	); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Header("Vary", "Accept-Language")
	respond(c, status, contentTypeHTML, buf.Bytes())
}

func (s *Server) handleDownload(c *gin.Context) {
	networkId := c.Param("network")
	network, ok := s.registry.Lookup(networkId)
	if !ok {
		c.String(http.StatusNotFound, "unknown network")
		return
	}
	var open view.Event
	kind := view.DialogKind(c.Param("kind"))
	switch kind {
	case view.DialogSnapshot:
		open = view.OpenSnapshotDialog{NetworkId: networkId}
	case view.DialogAssumeUtxo:
		open = view.OpenAssumeUtxoDialog{NetworkId: networkId}
	default:
		c.String(http.StatusNotFound, "unknown download kind")
		return
	}
	// Only downloads the page would have offered in a dialog are redirected
	if _, err := s.machine.ApplyAll(view.Initial(), open, view.ConfirmDownload{}); err != nil {
		c.String(s.usageError(c, err), err.Error())
		return
	}
	target := network.DownloadUrl
	if kind == view.DialogAssumeUtxo {
		target = network.AssumeUtxo.Url
	}
	s.metrics.downloads.WithLabelValues(networkId, string(kind)).Inc()
	s.logger.Info(
		"redirecting confirmed download",
		"request_id", requestId(c),
		"network", networkId,
		"kind", kind.String(),
		"url", target,
	)
	c.Redirect(http.StatusFound, target)
}

func (s *Server) handleNetworks(c *gin.Context) {
	s.respondDocument(c, s.registry.Document())
}

func (s *Server) handleNetwork(c *gin.Context) {
	network, ok := s.registry.Lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown network"})
		return
	}
	s.respondDocument(c, snapshots.NewNetworkRecord(network))
}

// respondDocument encodes as CBOR or JSON according to the Accept header
func (s *Server) respondDocument(c *gin.Context, doc any) {
	var body []byte
	var err error
	contentType := contentTypeJSON
	switch c.NegotiateFormat(gin.MIMEJSON, cbor.ContentType) {
	case cbor.ContentType:
		contentType = cbor.ContentType
		body, err = cbor.Encode(doc)
	case gin.MIMEJSON:
		body, err = json.Marshal(doc)
	default:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "unsupported media type"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode response"})
		return
	}
	c.Header("Vary", "Accept")
	respond(c, http.StatusOK, contentType, body)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(
		http.StatusOK,
		gin.H{
			"status":   "ok",
			"networks": s.registry.Len(),
		},
	)
}

// usageError records a rejected view transition and returns the status to answer with
func (s *Server) usageError(c *gin.Context, err error) int {
	op := "unknown"
	var usageErr *view.UsageError
	if errors.As(err, &usageErr) {
		op = usageErr.Op
	}
	s.metrics.usageErrors.WithLabelValues(op).Inc()
	_ = c.Error(err)
	return http.StatusBadRequest
}
