// Package nerdgraphtest serves canned NerdGraph responses for tests.
package nerdgraphtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

type request struct {
	Query     string `json:"query"`
	Variables struct {
		AccountID int    `json:"accountId"`
		GUID      string `json:"guid"`
	} `json:"variables"`
}

// Server answers entity searches with a fixed entity list and script lookups
// per guid. Unknown guids get a 404.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	entities json.RawMessage
	scripts  map[string]json.RawMessage
	apiKeys  []string
}

// NewServer starts a server returning entities (a JSON array) from every
// entity search.
func NewServer(entities string) *Server {
	s := &Server{
		entities: json.RawMessage(entities),
		scripts:  map[string]json.RawMessage{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// SetScript makes guid resolve to text.
func (s *Server) SetScript(guid string, text string) {
	b, _ := json.Marshal(text)
	s.SetRawScript(guid, string(b))
}

// SetRawScript makes guid resolve to an arbitrary JSON value in place of the
// script text.
func (s *Server) SetRawScript(guid string, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[guid] = json.RawMessage(raw)
}

// APIKeys returns the Api-Key header of every request received so far.
func (s *Server) APIKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.apiKeys...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	s.mu.Lock()
	s.apiKeys = append(s.apiKeys, r.Header.Get("Api-Key"))
	s.mu.Unlock()

	b, _ := io.ReadAll(r.Body)
	var req request
	if err := json.Unmarshal(b, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if strings.Contains(req.Query, "entitySearch") {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"data":{"actor":{"entitySearch":{"results":{"entities":%s}}}}}`, s.entities)
		return
	}

	if strings.Contains(req.Query, "script") {
		s.mu.Lock()
		text, ok := s.scripts[req.Variables.GUID]
		s.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `{"errors":[{"message":"no script for %s"}]}`, req.Variables.GUID)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"data":{"actor":{"account":{"synthetics":{"script":{"text":%s}}}}}}`, text)
		return
	}

	w.WriteHeader(http.StatusNotFound)
}
