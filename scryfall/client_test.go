package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/Dosada05/commander-league/models"
)

func newTestClient(url string) *Client {
	c := New(url)
	c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestNamed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cards/named", r.URL.Path)
		if r.URL.Query().Get("exact") != "Sol Ring" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"object":"error","details":"No cards found"}`))
			return
		}
		w.Write([]byte(`{"id":"abc","name":"Sol Ring","set":"cmm","prices":{"eur":"1.25","usd":"1.50"},"color_identity":[],"cmc":1,"type_line":"Artifact","image_uris":{"normal":"https://img/sol.jpg"}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	card, err := c.Named(context.Background(), "Sol Ring")
	require.NoError(t, err)
	assert.Equal(t, "Sol Ring", card.Name)
	assert.Equal(t, "https://img/sol.jpg", card.NormalImage())
	price, ok := card.EURPrice()
	assert.True(t, ok)
	assert.Equal(t, models.Money(125), price)

	_, err = c.Named(context.Background(), "Not A Card")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestSearchAppendsFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "goblin f:commander":
			w.Write([]byte(`{"object":"list","total_cards":1,"has_more":false,"data":[{"id":"1","name":"Krenko, Mob Boss"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	res, err := c.Search(context.Background(), "goblin", " f:commander ")
	require.NoError(t, err)
	require.Len(t, res.Cards, 1)
	assert.Equal(t, "Krenko, Mob Boss", res.Cards[0].Name)

	empty, err := c.Search(context.Background(), "zzzz", "")
	require.NoError(t, err)
	assert.Empty(t, empty.Cards)
}

func TestCollectionChunks(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Identifiers []struct {
				Name string `json:"name"`
			} `json:"identifiers"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.LessOrEqual(t, len(body.Identifiers), 75)

		var data []Card
		var missing []map[string]string
		for _, id := range body.Identifiers {
			if id.Name == "Missing" {
				missing = append(missing, map[string]string{"name": id.Name})
				continue
			}
			data = append(data, Card{Name: id.Name})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data, "not_found": missing})
	}))
	defer server.Close()

	names := make([]string, 0, 160)
	for i := 0; i < 159; i++ {
		names = append(names, fmt.Sprintf("Card %d", i))
	}
	names = append(names, "Missing")

	res, err := newTestClient(server.URL).Collection(context.Background(), names)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, res.Cards, 159)
	assert.Equal(t, "Card 0", res.Cards[0].Name)
	assert.Equal(t, []string{"Missing"}, res.NotFound)
}

func TestPrintsFollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.Write([]byte(`{"object":"list","has_more":false,"data":[{"id":"p3","name":"Sol Ring","set":"c21"}]}`))
			return
		}
		assert.Equal(t, `!"Sol Ring"`, r.URL.Query().Get("q"))
		assert.Equal(t, "prints", r.URL.Query().Get("unique"))
		fmt.Fprintf(w, `{"object":"list","has_more":true,"next_page":"%s/cards/search?page=2","data":[{"id":"p1","name":"Sol Ring","set":"lea"},{"id":"p2","name":"Sol Ring","set":"cmm"}]}`, server.URL)
	}))
	defer server.Close()

	prints, err := newTestClient(server.URL).Prints(context.Background(), "Sol Ring")
	require.NoError(t, err)
	require.Len(t, prints, 3)
	assert.Equal(t, "p3", prints[2].ID)
}

func TestServerErrorIsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"details":"slow down"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Named(context.Background(), "Sol Ring")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "slow down", apiErr.Details)
}

func TestEURPriceMissing(t *testing.T) {
	_, ok := Card{}.EURPrice()
	assert.False(t, ok)
}
