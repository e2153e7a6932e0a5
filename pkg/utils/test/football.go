package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
)

// MockFootballAPI is an httptest server mimicking the API-Football v3
// endpoints the app uses.
type MockFootballAPI struct {
	*httptest.Server

	// Teams is the raw "response" array for team searches.
	Teams []map[string]any

	// Squads maps team ID to its player list.
	Squads map[int][]map[string]any

	// Stats maps team ID to its statistics object.
	Stats map[int]map[string]any

	// FailSquads and FailStats make those endpoints return 500.
	FailSquads bool
	FailStats  bool

	mu      sync.Mutex
	queries []url.Values
	keys    []string
}

// NewMockFootballAPI starts a mock API. Close it when done.
func NewMockFootballAPI() *MockFootballAPI {
	m := &MockFootballAPI{
		Squads: map[int][]map[string]any{},
		Stats:  map[int]map[string]any{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams", func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		writeEnvelope(w, m.Teams)
	})
	mux.HandleFunc("GET /players/squads", func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		if m.FailSquads {
			http.Error(w, `{"message":"squads down"}`, http.StatusInternalServerError)
			return
		}
		id, _ := strconv.Atoi(r.URL.Query().Get("team"))
		players, ok := m.Squads[id]
		if !ok {
			writeEnvelope(w, []any{})
			return
		}
		writeEnvelope(w, []any{map[string]any{"players": players}})
	})
	mux.HandleFunc("GET /teams/statistics", func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		if m.FailStats {
			http.Error(w, `{"message":"stats down"}`, http.StatusInternalServerError)
			return
		}
		id, _ := strconv.Atoi(r.URL.Query().Get("team"))
		writeEnvelope(w, m.Stats[id])
	})

	m.Server = httptest.NewServer(mux)
	return m
}

// Queries returns the query strings received so far.
func (m *MockFootballAPI) Queries() []url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]url.Values(nil), m.queries...)
}

// Keys returns the x-apisports-key headers received so far.
func (m *MockFootballAPI) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.keys...)
}

func (m *MockFootballAPI) record(r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, r.URL.Query())
	m.keys = append(m.keys, r.Header.Get("x-apisports-key"))
}

func writeEnvelope(w http.ResponseWriter, response any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"get":      "",
		"errors":   []any{},
		"results":  0,
		"response": response,
	})
}

// TeamEntry builds one element of a team search response.
func TeamEntry(id int, name, country, city string) map[string]any {
	entry := map[string]any{
		"team": map[string]any{
			"id":      id,
			"name":    name,
			"logo":    "https://media.api-sports.io/football/teams/" + strconv.Itoa(id) + ".png",
			"country": country,
		},
	}
	if city != "" {
		entry["venue"] = map[string]any{"city": city}
	} else {
		entry["venue"] = nil
	}
	return entry
}
