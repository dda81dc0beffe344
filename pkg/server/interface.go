/*
Package server implements msgpack IPC for dataset suggestions.

The server reads a stream of msgpack maps from its input and writes one msgpack
map per request to its output. Before reading anything it writes a ready
banner:

	{"status": "ready"}

# Requests

A suggestion request names a dataset and a query:

	{"id": "req_001", "d": "occupations", "q": "enginer", "l": 5}

The response carries matches in rank order with their scores and the time
taken in microseconds:

	{"id": "req_001", "m": ["Engineer", "Chief engineer"], "r": [2.9, 1.4], "c": 2, "t": 85}

Leaving out "q" asks for a page of the dataset instead, starting at "st":

	{"id": "req_002", "d": "occupations", "st": 101}
	{"id": "req_002", "i": [...], "c": 100, "st": 101, "p": 1, "n": 201, "t": 12}

"s" selects the strategy, "guess" (default) or "simple".

Actions manage everything else:

	{"id": "req_003", "action": "list"}
	{"id": "req_004", "action": "stats", "d": "occupations"}

Failed requests are answered with an error carrying an HTTP-like code:

	{"id": "req_005", "e": "dataset not found: \"lunch\"", "c": 404}

Requests are processed one at a time in arrival order.
*/
package server

import "github.com/bastiangx/suggestd/pkg/dataset"

// Request is any incoming message. Action is empty for suggestion and page
// requests.
type Request struct {
	ID       string `msgpack:"id"`
	Action   string `msgpack:"action,omitempty"`
	Dataset  string `msgpack:"d"`
	Query    string `msgpack:"q,omitempty"`
	Limit    int    `msgpack:"l,omitempty"`
	Strategy string `msgpack:"s,omitempty"`
	Start    *int   `msgpack:"st,omitempty"`
}

// Response answers a suggestion or page request.
type Response struct {
	ID        string    `msgpack:"id"`
	Matches   []string  `msgpack:"m,omitempty"`
	Scores    []float64 `msgpack:"r,omitempty"`
	Items     []string  `msgpack:"i,omitempty"`
	Count     int       `msgpack:"c"`
	Start     int       `msgpack:"st,omitempty"`
	Previous  *int      `msgpack:"p,omitempty"`
	Next      *int      `msgpack:"n,omitempty"`
	TimeTaken int64     `msgpack:"t"`
}

// ListResponse answers the "list" action.
type ListResponse struct {
	ID       string         `msgpack:"id"`
	Status   string         `msgpack:"status"`
	Datasets []dataset.Info `msgpack:"datasets"`
}

// StatsResponse answers the "stats" action.
type StatsResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Info   dataset.Info   `msgpack:"info"`
	Stats  map[string]int `msgpack:"stats"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
