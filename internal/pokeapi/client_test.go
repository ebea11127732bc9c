package pokeapi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/trainerlog/internal/pokeapi"
)

func TestClient_ListNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"results":[{"name":"bulbasaur"},{"name":"mr-mime"},{"name":"charmander"}]}`)
	}))
	defer srv.Close()

	c := pokeapi.NewClient(srv.URL, time.Second)
	names, err := c.ListNames(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bulbasaur", "Mr-Mime", "Charmander"}, names)
}

func TestClient_Pokemon_DecodesRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon/bulbasaur", r.URL.Path)
		fmt.Fprint(w, `{
			"name": "bulbasaur",
			"height": 7,
			"weight": 69,
			"types": [{"slot": 1, "type": {"name": "grass"}}, {"slot": 2, "type": {"name": "poison"}}],
			"stats": [{"base_stat": 45, "stat": {"name": "hp"}}],
			"species": {"name": "bulbasaur", "url": "https://example.test/species/1"}
		}`)
	}))
	defer srv.Close()

	c := pokeapi.NewClient(srv.URL, time.Second)
	rec, err := c.Pokemon(context.Background(), "bulbasaur")
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Height)
	assert.Equal(t, 69, rec.Weight)
	require.Len(t, rec.Types, 2)
	assert.Equal(t, "grass", rec.Types[0].Type.Name)
	assert.Equal(t, "bulbasaur", rec.Species.Name)
}

func TestClient_Pokemon_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := pokeapi.NewClient(srv.URL, time.Second)
	_, err := c.Pokemon(context.Background(), "missingno")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestClient_Pokemon_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"height": "not a number"}`)
	}))
	defer srv.Close()

	c := pokeapi.NewClient(srv.URL, time.Second)
	_, err := c.Pokemon(context.Background(), "bulbasaur")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestClient_EvolutionChain_EmptyURL(t *testing.T) {
	c := pokeapi.NewClient("https://example.test", time.Second)
	_, err := c.EvolutionChain(context.Background(), "")
	require.Error(t, err)
}
