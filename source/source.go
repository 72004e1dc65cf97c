// Package source fetches the raw CSV text of the three game feeds.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type Feed string

const (
	Abilities Feed = "Abilities"
	Deck      Feed = "PlayerDeck"
	Daemons   Feed = "Daemons"
)

// Feeds lists every feed in load order: daemons must be known before any
// card can be colored.
var Feeds = []Feed{Daemons, Abilities, Deck}

var ErrUnknownFeed = errors.New("unknown feed")

// Source returns the raw text of a feed.
type Source interface {
	Fetch(ctx context.Context, feed Feed) (string, error)
}

// DefaultSheet is the spreadsheet the game data is authored in.
const DefaultSheet = "19-xHKD4eLu4m3hMph4hMttR52oEThk9O-pj12wp98_M"

// SheetURL is the CSV export URL of one sheet of a Google spreadsheet.
func SheetURL(sheetID string, feed Feed) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s", sheetID, feed)
}

// HTTP fetches feeds from URLs, by default the CSV export of a spreadsheet.
type HTTP struct {
	Client *http.Client
	URLs   map[Feed]string
}

func NewHTTP(sheetID string, timeout time.Duration) *HTTP {
	if sheetID == "" {
		sheetID = DefaultSheet
	}
	urls := make(map[Feed]string, len(Feeds))
	for _, f := range Feeds {
		urls[f] = SheetURL(sheetID, f)
	}
	return &HTTP{Client: &http.Client{Timeout: timeout}, URLs: urls}
}

func (s *HTTP) Fetch(ctx context.Context, feed Feed) (string, error) {
	url, ok := s.URLs[feed]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFeed, feed)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", feed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: %s", feed, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", feed, err)
	}
	return string(body), nil
}

// Dir reads feeds from CSV files in a directory.
type Dir string

var fileNames = map[Feed]string{
	Abilities: "abilities.csv",
	Deck:      "deck.csv",
	Daemons:   "daemons.csv",
}

func (d Dir) Path(feed Feed) (string, error) {
	name, ok := fileNames[feed]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFeed, feed)
	}
	return filepath.Join(string(d), name), nil
}

func (d Dir) Fetch(_ context.Context, feed Feed) (string, error) {
	path, err := d.Path(feed)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Static serves feeds from memory.
type Static map[Feed]string

func (s Static) Fetch(_ context.Context, feed Feed) (string, error) {
	text, ok := s[feed]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFeed, feed)
	}
	return text, nil
}
