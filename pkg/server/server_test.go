package server

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/bastiangx/choices/internal/logger"
	"github.com/bastiangx/choices/pkg/config"
	"github.com/bastiangx/choices/pkg/search"
	"github.com/bastiangx/choices/pkg/session"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Search.Strategy = search.StrategyPrefix
	cfg.Search.ResultLimit = 0
	sess, err := session.New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, sess.SetChoices([]any{
		map[string]any{"value": "apple", "label": "<b>Apple</b>"},
		map[string]any{"value": "apricot", "label": "Apricot"},
		map[string]any{"value": "banana", "label": "Banana"},
	}, false))
	t.Cleanup(sess.Close)
	return sess
}

// roundTrip feeds reqs to a fresh server and returns every response after the ready line.
func roundTrip(t *testing.T, sess *session.Session, reqs ...any) []Response {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}

	var out bytes.Buffer
	srv := NewServer(sess, &in, &out, logger.Discard())
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	var ready Response
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, StatusReady, ready.Status)
	require.Equal(t, sess.ID(), ready.Session)

	var responses []Response
	for {
		var resp Response
		err := dec.Decode(&resp)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		responses = append(responses, resp)
	}
	return responses
}

func TestSearchSelectFlow(t *testing.T) {
	sess := newSession(t)
	responses := roundTrip(t, sess,
		Request{ID: "1", Op: OpSearch, Query: "ap"},
		Request{ID: "2", Op: OpSelect, Value: "apricot"},
		Request{ID: "3", Op: OpClearSearch},
		Request{ID: "4", Op: OpHealth},
	)
	require.Len(t, responses, 4)

	search := responses[0]
	require.Equal(t, "1", search.ID)
	require.Equal(t, StatusOK, search.Status)
	require.Equal(t, 2, search.Count)
	require.Equal(t, "ap", search.Query)
	require.Equal(t, "apple", search.Results[0].Value)
	require.Equal(t, "Apple", search.Results[0].Label, "labels are sanitized")
	require.Equal(t, 1, search.Results[1].Rank)

	require.Equal(t, []string{"apricot"}, responses[1].Items)
	require.True(t, responses[1].Results[1].Selected)

	require.Equal(t, 3, responses[2].Count)
	require.Empty(t, responses[2].Query)

	require.Equal(t, StatusOK, responses[3].Status)
	require.Equal(t, sess.ID(), responses[3].Session)
	require.Empty(t, responses[3].Results)
}

func TestHighlightAndRemove(t *testing.T) {
	sess := newSession(t)
	responses := roundTrip(t, sess,
		Request{ID: "a", Op: OpSelect, Value: "apple"},
		Request{ID: "b", Op: OpSelect, Value: "banana"},
		Request{ID: "c", Op: OpHighlight, Value: "apple", Highlighted: true},
		Request{ID: "d", Op: OpRemoveHighlighted},
		Request{ID: "e", Op: OpDeselect, Value: "banana"},
		Request{ID: "f", Op: OpState},
	)
	require.Len(t, responses, 6)
	require.Equal(t, []string{"banana"}, responses[3].Items)
	require.Empty(t, responses[5].Items)
	require.Equal(t, 3, responses[5].Count)
}

func TestErrors(t *testing.T) {
	sess := newSession(t)
	responses := roundTrip(t, sess,
		Request{ID: "1", Op: OpSelect, Value: "cherry"},
		Request{ID: "2", Op: "explode"},
		Request{ID: "3", Op: OpSetChoices, Choices: []any{42}},
	)
	require.Len(t, responses, 3)

	require.Equal(t, StatusError, responses[0].Status)
	require.Equal(t, 404, responses[0].Code)
	require.Equal(t, "1", responses[0].ID)

	require.Equal(t, 400, responses[1].Code)
	require.Contains(t, responses[1].Error, "explode")

	require.Equal(t, 400, responses[2].Code)
}

func TestBadlyTypedRequestKeepsServing(t *testing.T) {
	sess := newSession(t)
	responses := roundTrip(t, sess,
		map[string]any{"id": "1", "op": OpHealth, "h": "yes"},
		"not a request",
		Request{ID: "2", Op: OpHealth},
	)
	require.Len(t, responses, 3)

	require.Equal(t, "1", responses[0].ID)
	require.Equal(t, StatusError, responses[0].Status)
	require.Equal(t, 400, responses[0].Code)

	require.Empty(t, responses[1].ID)
	require.Equal(t, 400, responses[1].Code)

	require.Equal(t, "2", responses[2].ID)
	require.Equal(t, StatusOK, responses[2].Status)
}

func TestSetChoices(t *testing.T) {
	sess := newSession(t)
	responses := roundTrip(t, sess,
		map[string]any{
			"id": "1",
			"op": OpSetChoices,
			"c": []any{
				map[string]any{"value": "kiwi", "selected": true},
				map[string]any{"label": "Berries", "choices": []any{"blueberry"}},
			},
			"r": true,
		},
	)
	require.Len(t, responses, 1)
	resp := responses[0]
	require.Equal(t, StatusOK, resp.Status, resp.Error)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, []string{"kiwi", "blueberry"}, resp.Items)
	require.NotZero(t, resp.Results[1].GroupID)
}

func TestEmptyInput(t *testing.T) {
	responses := roundTrip(t, newSession(t))
	require.Empty(t, responses)
}
