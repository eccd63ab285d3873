package oikotie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"oikotie-analytics/config"
	"oikotie-analytics/logger"
	"oikotie-analytics/models"
)

// Session carries the per-visit tokens the cards API requires. Oikotie embeds
// them as meta tags on the listing search page.
type Session struct {
	Token  string
	Loaded string
	CUID   string
}

// Client fetches listing cards from the Oikotie API. It is the thin I/O
// collaborator of the pipeline: any failure here aborts the current run.
type Client struct {
	cfg  *config.Config
	log  *logger.Log
	http *http.Client
}

// New creates a ready-to-use Client.
func New(cfg *config.Config, log *logger.Log) *Client {
	return &Client{
		cfg: cfg,
		log: log,
		http: &http.Client{
			Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		},
	}
}

// Fetch performs the full handshake-then-fetch sequence for one run.
func (c *Client) Fetch(ctx context.Context) ([]models.RawCard, error) {
	session, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	return c.FetchCards(ctx, session)
}

// GetSession fetches the search page and scrapes the api-token, loaded and
// cuid meta tags into a Session.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.SiteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("oikotie: build session request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oikotie: fetch search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oikotie: search page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("oikotie: parse search page: %w", err)
	}

	return sessionFromDocument(doc)
}

// sessionFromDocument pulls the OTA meta tags out of a parsed search page.
func sessionFromDocument(doc *goquery.Document) (*Session, error) {
	s := &Session{}
	for _, m := range []struct {
		name string
		dst  *string
	}{
		{"api-token", &s.Token},
		{"loaded", &s.Loaded},
		{"cuid", &s.CUID},
	} {
		val, ok := doc.Find(`meta[name="` + m.name + `"]`).Attr("content")
		if !ok || val == "" {
			return nil, fmt.Errorf("oikotie: meta tag %q not found on search page", m.name)
		}
		*m.dst = val
	}
	return s, nil
}

// FetchCards calls the cards endpoint with the configured search filter and
// the session headers, and returns the raw card list.
func (c *Client) FetchCards(ctx context.Context, session *Session) ([]models.RawCard, error) {
	locations, err := c.cfg.Search.LocationsJSON()
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("cardType", strconv.Itoa(c.cfg.Search.CardType))
	q.Set("limit", strconv.Itoa(c.cfg.Search.Limit))
	q.Set("offset", strconv.Itoa(c.cfg.Search.Offset))
	q.Set("locations", locations)
	q.Set("sortBy", c.cfg.Search.SortBy)
	for _, n := range c.cfg.Search.RoomCounts {
		q.Add("roomCount[]", strconv.Itoa(n))
	}
	for _, n := range c.cfg.Search.HabitationTypes {
		q.Add("habitationType[]", strconv.Itoa(n))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.CardsURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("oikotie: build cards request: %w", err)
	}
	req.Header.Set("OTA-token", session.Token)
	req.Header.Set("OTA-loaded", session.Loaded)
	req.Header.Set("OTA-cuid", session.CUID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oikotie: fetch cards: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oikotie: cards endpoint returned %s", resp.Status)
	}

	var payload models.CardsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("oikotie: decode cards response: %w", err)
	}

	c.log.WithComponent("oikotie").Infof("fetched %d cards", len(payload.Cards))
	return payload.Cards, nil
}
