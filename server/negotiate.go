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
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jaonoctus/bitcoin-snapshots/format"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/language"
)

// DefaultLanguages are the locales offered for number formatting
var DefaultLanguages = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
	language.German,
}

type localizer struct {
	languages  []language.Tag
	matcher    language.Matcher
	formatters []*format.Formatter
}

func newLocalizer(languages []language.Tag) *localizer {
	l := &localizer{
		languages: languages,
		matcher:   language.NewMatcher(languages),
	}
	for _, tag := range languages {
		l.formatters = append(l.formatters, format.NewFormatter(tag))
	}
	return l
}

// formatter picks the best formatter for an Accept-Language header value
func (l *localizer) formatter(acceptLanguage string) *format.Formatter {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.formatters[0]
	}
	_, idx, _ := l.matcher.Match(tags...)
	return l.formatters[idx]
}

// etag returns a strong entity tag for a response body
func etag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func etagMatches(ifNoneMatch string, tag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}

// respond writes a body with its ETag, answering 304 when the client already has it
func respond(c *gin.Context, status int, contentType string, body []byte) {
	tag := etag(body)
	c.Header("ETag", tag)
	if status == http.StatusOK && etagMatches(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(status, contentType, body)
}
