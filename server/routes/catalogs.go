// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/gddo/httputil/header"
	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"codeberg.org/tagtr/tagtr/catalog"
	"codeberg.org/tagtr/tagtr/core/lrucache"
	"codeberg.org/tagtr/tagtr/i18n"
	"codeberg.org/tagtr/tagtr/server/metrics"
	"codeberg.org/tagtr/tagtr/server/request_context"
)

// CatalogInfo describes one locale in the catalogue index.
type CatalogInfo struct {
	Lang     string `json:"lang"`
	Name     string `json:"name"`
	Messages int    `json:"messages"`
	URL      string `json:"url"`
}

// CatalogIndex is the document served at /catalogs.
type CatalogIndex struct {
	Default   string        `json:"default"`
	Preferred string        `json:"preferred"`
	Locales   []CatalogInfo `json:"locales"`
}

// Catalogs serves the loaded locales as compiled JSON catalogues.
//
// Compiled documents are kept in an LRU cache, zstd-compressed when that
// makes them smaller. Clients that accept zstd receive the cached frame as is.
type Catalogs struct {
	domain  string
	maxAge  time.Duration
	cache   *lrucache.Blobs // nil when caching is disabled
	metrics *metrics.Metrics
}

// NewCatalogs returns the catalogue handlers. A cacheSize of zero disables
// caching. m may be nil.
func NewCatalogs(domain string, cacheSize int, maxAge time.Duration, m *metrics.Metrics) (*Catalogs, error) {
	if domain == "" {
		domain = catalog.DefaultDomain
	}

	c := &Catalogs{domain: domain, maxAge: maxAge, metrics: m}

	if cacheSize > 0 {
		cache, err := lrucache.NewBlobs(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create catalogue cache: %w", err)
		}

		c.cache = cache
	}

	return c, nil
}

// Index lists the available locales.
func (c *Catalogs) Index(w http.ResponseWriter, r *http.Request) error {
	index := CatalogIndex{
		Default:   i18n.BaseLocale,
		Preferred: request_context.FromRequest(r).T.String(),
	}

	for _, tag := range i18n.Languages() {
		info := CatalogInfo{
			Lang: tag.String(),
			Name: display.Self.Name(tag),
			URL:  "/catalogs/" + tag.String(),
		}

		if po, ok := i18n.Catalogue(tag); ok {
			info.Messages = countMessages(po)
		}

		index.Locales = append(index.Locales, info)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", c.cacheControl())

	return json.NewEncoder(w).Encode(index)
}

// Catalog serves the compiled catalogue of the locale best matching the
// {lang} path value. Content-Language names the locale actually served.
//
// The "pretty" query parameter selects indented JSON.
func (c *Catalogs) Catalog(w http.ResponseWriter, r *http.Request) error {
	lang := r.PathValue("lang")

	tag, ok := i18n.Match(lang)
	if !ok {
		return fmt.Errorf("%w: no catalogue for %q", ErrNotFound, lang)
	}

	pretty := r.URL.Query().Has("pretty")
	zstd := acceptsZstd(r)

	body, frame, err := c.load(tag, pretty, zstd)
	if err != nil {
		return err
	}

	headers := w.Header()

	headers.Set("Content-Type", "application/json; charset=utf-8")
	headers.Set("Content-Language", tag.String())
	headers.Set("Cache-Control", c.cacheControl())
	headers.Add("Vary", "Accept-Encoding")

	payload := body
	if frame != nil {
		payload = frame

		headers.Set("Content-Encoding", "zstd")
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(payload))
	headers.Set("ETag", etag)

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)

		return nil
	}

	headers.Set("Content-Length", strconv.Itoa(len(payload)))

	_, err = w.Write(payload)

	return err
}

// load returns the compiled catalogue for tag. When wantFrame is set and a
// compressed frame is cached, it is returned instead of the body.
func (c *Catalogs) load(tag language.Tag, pretty, wantFrame bool) (body, frame []byte, err error) {
	key := tag.String()
	if pretty {
		key += "?pretty"
	}

	if c.cache != nil {
		if wantFrame {
			if frame, ok := c.cache.GetFrame(key); ok {
				c.metrics.CacheLookup(true)

				return nil, frame, nil
			}
		}

		if body, ok := c.cache.Get(key); ok {
			c.metrics.CacheLookup(true)

			return body, nil, nil
		}
	}

	c.metrics.CacheLookup(false)

	po, ok := i18n.Catalogue(tag)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no catalogue for %q", ErrNotFound, key)
	}

	body, err = catalog.Compile(po, c.domain).Marshal(pretty)
	if err != nil {
		return nil, nil, err
	}

	if c.cache == nil {
		return body, nil, nil
	}

	c.cache.Add(key, body)

	if wantFrame {
		if frame, ok := c.cache.GetFrame(key); ok {
			return nil, frame, nil
		}
	}

	return body, nil, nil
}

func (c *Catalogs) cacheControl() string {
	if c.maxAge <= 0 {
		return "no-cache"
	}

	return "public, max-age=" + strconv.Itoa(int(c.maxAge.Seconds()))
}

// acceptsZstd reports whether the client accepts zstd content coding.
func acceptsZstd(r *http.Request) bool {
	for _, spec := range header.ParseAccept(r.Header, "Accept-Encoding") {
		if strings.EqualFold(spec.Value, "zstd") {
			return spec.Q > 0
		}
	}

	return false
}

// etagMatches implements the weak comparison of If-None-Match.
func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}

	for candidate := range strings.SplitSeq(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}

	return false
}

// countMessages returns the number of translated messages in po.
func countMessages(po *gotext.Po) int {
	dom := po.GetDomain()

	n := 0

	for id, tr := range dom.GetTranslations() {
		if id != "" && translated(tr) {
			n++
		}
	}

	for _, trs := range dom.GetCtxTranslations() {
		for _, tr := range trs {
			if translated(tr) {
				n++
			}
		}
	}

	return n
}

func translated(tr *gotext.Translation) bool {
	for _, s := range tr.Trs {
		if s != "" {
			return true
		}
	}

	return false
}
