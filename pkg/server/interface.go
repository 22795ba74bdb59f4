/*
Package server implements msgpack IPC for a choices session.

The server reads a stream of msgpack values from stdin, one request per value,
and writes one response per request to stdout. Requests are handled in order
on a single goroutine; every response carries the time it took in microseconds.

# IPC

Each request names an op and the fields that op needs:

	{"id": "1", "op": "search", "q": "app"}
	{"id": "2", "op": "select", "v": "apple"}
	{"id": "3", "op": "highlight", "v": "apple", "h": true}
	{"id": "4", "op": "set_choices", "c": [{"value": "kiwi"}], "r": false}

Supported ops: search, clear_search, select, deselect, highlight,
remove_highlighted, set_choices, state and health.

The response echoes the id and reports the visible results and the selected values:

	{"id": "1", "s": "ok", "r": [{"v": "apple", "l": "Apple", "sc": 0, "rk": 0}], "c": 1, "i": ["pear"], "t": 87}

Failures set "s" to "error" with a message and an HTTP-like code:

	{"id": "2", "s": "error", "e": "session: no such value: \"apple\"", "code": 404}
*/
package server

const (
	OpSearch            = "search"
	OpClearSearch       = "clear_search"
	OpSelect            = "select"
	OpDeselect          = "deselect"
	OpHighlight         = "highlight"
	OpRemoveHighlighted = "remove_highlighted"
	OpSetChoices        = "set_choices"
	OpState             = "state"
	OpHealth            = "health"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusReady = "ready"
)

// Request is one client message.
type Request struct {
	ID          string `msgpack:"id"`
	Op          string `msgpack:"op"`
	Query       string `msgpack:"q,omitempty"`
	Value       string `msgpack:"v,omitempty"`
	Highlighted bool   `msgpack:"h,omitempty"`
	Choices     []any  `msgpack:"c,omitempty"`
	Replace     bool   `msgpack:"r,omitempty"`
}

// ResultEntry is one visible choice.
type ResultEntry struct {
	Value    string  `msgpack:"v"`
	Label    string  `msgpack:"l"`
	Score    float64 `msgpack:"sc"`
	Rank     int     `msgpack:"rk"`
	GroupID  int     `msgpack:"g,omitempty"`
	Selected bool    `msgpack:"sel,omitempty"`
	Disabled bool    `msgpack:"d,omitempty"`
}

// Response answers a Request.
type Response struct {
	ID        string        `msgpack:"id"`
	Session   string        `msgpack:"sid,omitempty"`
	Status    string        `msgpack:"s"`
	Error     string        `msgpack:"e,omitempty"`
	Code      int           `msgpack:"code,omitempty"`
	Results   []ResultEntry `msgpack:"r,omitempty"`
	Count     int           `msgpack:"c"`
	Items     []string      `msgpack:"i,omitempty"`
	Query     string        `msgpack:"q,omitempty"`
	Loading   bool          `msgpack:"ld,omitempty"`
	TimeTaken int64         `msgpack:"t"`
}
