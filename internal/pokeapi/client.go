// Package pokeapi provides the reference-data client for the public
// PokéAPI REST service, plus name normalization and the best-effort
// attribute composition used by enrichment.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the versioned REST base of the public reference API.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client performs reference lookups against the PokéAPI REST service.
// All lookup methods return wrapped errors; graceful degradation happens
// one layer up, in Attributes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given base URL with a per-call
// timeout. No retries are attempted; a failed lookup degrades to
// defaults downstream.
//
// Precondition: baseURL must be non-empty; timeout must be > 0.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// namedResource is the {name, url} pair used throughout the API payloads.
type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type nameListResponse struct {
	Results []namedResource `json:"results"`
}

// PokemonRecord is the subset of the /pokemon/{name} payload the
// tracker consumes. Height is in decimetres and weight in hectograms,
// as served by the source.
type PokemonRecord struct {
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Types  []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
	Species namedResource `json:"species"`
}

// SpeciesRecord is the subset of the /pokemon-species/{name} payload
// the tracker consumes.
type SpeciesRecord struct {
	Name           string          `json:"name"`
	IsLegendary    bool            `json:"is_legendary"`
	Generation     namedResource   `json:"generation"`
	EggGroups      []namedResource `json:"egg_groups"`
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

// ChainLink is one species node in an evolution chain.
type ChainLink struct {
	Species   namedResource `json:"species"`
	EvolvesTo []ChainLink   `json:"evolves_to"`
}

// ChainRecord is the evolution-chain payload: a tree of species nodes
// rooted at the family's base form.
type ChainRecord struct {
	Chain ChainLink `json:"chain"`
}

// ListNames fetches the known-creature catalog, display-cased.
//
// Postcondition: Returns up to limit names or a non-nil error.
func (c *Client) ListNames(ctx context.Context, limit int) ([]string, error) {
	var list nameListResponse
	if err := c.fetch(ctx, fmt.Sprintf("%s/pokemon?limit=%d", c.baseURL, limit), &list); err != nil {
		return nil, fmt.Errorf("listing pokemon names: %w", err)
	}
	names := make([]string, 0, len(list.Results))
	for _, r := range list.Results {
		names = append(names, titleCase(r.Name))
	}
	return names, nil
}

// Pokemon fetches the creature record for a canonical name.
func (c *Client) Pokemon(ctx context.Context, name string) (*PokemonRecord, error) {
	var rec PokemonRecord
	if err := c.fetch(ctx, fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(name)), &rec); err != nil {
		return nil, fmt.Errorf("fetching pokemon %q: %w", name, err)
	}
	return &rec, nil
}

// Species fetches the species record for a canonical species name.
func (c *Client) Species(ctx context.Context, name string) (*SpeciesRecord, error) {
	var rec SpeciesRecord
	if err := c.fetch(ctx, fmt.Sprintf("%s/pokemon-species/%s", c.baseURL, url.PathEscape(name)), &rec); err != nil {
		return nil, fmt.Errorf("fetching species %q: %w", name, err)
	}
	return &rec, nil
}

// EvolutionChain fetches a chain record by the absolute URL found in a
// species record.
func (c *Client) EvolutionChain(ctx context.Context, chainURL string) (*ChainRecord, error) {
	if chainURL == "" {
		return nil, fmt.Errorf("fetching evolution chain: empty URL")
	}
	var rec ChainRecord
	if err := c.fetch(ctx, chainURL, &rec); err != nil {
		return nil, fmt.Errorf("fetching evolution chain: %w", err)
	}
	return &rec, nil
}

// fetch makes an HTTP GET request and decodes the JSON response into out.
func (c *Client) fetch(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("reference API error: status=%d url=%s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// titleCase upper-cases the first rune of each hyphen- or
// space-separated word, for display.
func titleCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == ' ' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}
