package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/choices/pkg/model"
	"github.com/bastiangx/choices/pkg/session"
	"github.com/bastiangx/choices/pkg/source"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for one session
type Server struct {
	session  *session.Session
	decoder  *msgpack.Decoder
	writer   *bufio.Writer
	encoder  *msgpack.Encoder
	logger   *log.Logger
	requests int
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(sess *session.Session, r io.Reader, w io.Writer, logger *log.Logger) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		session: sess,
		decoder: newDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
		logger:  logger,
	}
}

func newDecoder(r io.Reader) *msgpack.Decoder {
	dec := msgpack.NewDecoder(r)
	dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
		return d.DecodeUntypedMap()
	})
	return dec
}

// Start announces readiness and serves requests until the input ends.
// A value that cannot be decoded as a request is answered with a 400 and the
// server keeps going; only a broken stream stops it.
func (s *Server) Start() error {
	s.logger.Debug("Starting server")
	if err := s.send(Response{Status: StatusReady, Session: s.session.ID()}); err != nil {
		return err
	}

	for {
		var raw msgpack.RawMessage
		err := s.decoder.Decode(&raw)
		if errors.Is(err, io.EOF) {
			s.logger.Debugf("Input closed after %d requests", s.requests)
			return nil
		}
		if err != nil {
			s.logger.Errorf("Reading request stream: %v", err)
			return err
		}

		s.requests++
		req, err := parseRequest(raw)
		if err != nil {
			s.logger.Warnf("Invalid request %q: %v", req.ID, err)
			resp := Response{ID: req.ID, Status: StatusError, Error: "invalid request: " + err.Error(), Code: 400}
			if err := s.send(resp); err != nil {
				return err
			}
			continue
		}
		if err := s.send(s.handleRequest(req)); err != nil {
			return err
		}
	}
}

// parseRequest decodes one framed value. On failure the returned request
// still carries the id when the value had a readable string id.
func parseRequest(raw msgpack.RawMessage) (Request, error) {
	var req Request
	err := newDecoder(bytes.NewReader(raw)).Decode(&req)
	if err == nil {
		return req, nil
	}

	var idOnly struct {
		ID string `msgpack:"id"`
	}
	if msgpack.Unmarshal(raw, &idOnly) == nil {
		return Request{ID: idOnly.ID}, err
	}
	return Request{}, err
}

// handleRequest runs one op and builds its response.
func (s *Server) handleRequest(req Request) Response {
	start := time.Now()
	resp, err := s.dispatch(req)
	if err != nil {
		s.logger.Debugf("%s %s failed: %v", req.ID, req.Op, err)
		resp = Response{Status: StatusError, Error: err.Error(), Code: codeFor(err)}
	}
	resp.ID = req.ID
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

var errUnknownOp = errors.New("unknown op")

func (s *Server) dispatch(req Request) (Response, error) {
	var err error
	switch req.Op {
	case OpHealth:
		return Response{Status: StatusOK, Session: s.session.ID()}, nil
	case OpSearch:
		_, err = s.session.Search(req.Query)
	case OpClearSearch:
		err = s.session.ClearSearch()
	case OpSelect:
		err = s.session.Select(req.Value)
	case OpDeselect:
		err = s.session.Deselect(req.Value)
	case OpHighlight:
		err = s.session.Highlight(req.Value, req.Highlighted)
	case OpRemoveHighlighted:
		_, err = s.session.RemoveHighlighted()
	case OpSetChoices:
		var inputs []any
		if inputs, err = source.Normalize(req.Choices); err == nil {
			err = s.session.SetChoices(inputs, req.Replace)
		}
	case OpState:
	default:
		err = fmt.Errorf("%w: %q", errUnknownOp, req.Op)
	}
	if err != nil {
		return Response{}, err
	}
	return s.snapshot(), nil
}

// snapshot reports the visible results and the selected values.
func (s *Server) snapshot() Response {
	results := s.session.Results()
	entries := make([]ResultEntry, len(results))
	for i, r := range results {
		entries[i] = ResultEntry{
			Value:    r.Item.Value,
			Label:    r.Item.Label.Display(),
			Score:    r.Score,
			Rank:     r.Rank,
			GroupID:  r.Item.GroupID,
			Selected: r.Item.Selected,
			Disabled: r.Item.Disabled,
		}
	}
	return Response{
		Status:  StatusOK,
		Results: entries,
		Count:   len(entries),
		Items:   s.session.Values(),
		Query:   s.session.Query(),
		Loading: s.session.Store().IsLoading(),
	}
}

func (s *Server) send(resp Response) error {
	if err := s.encoder.Encode(resp); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return err
	}
	return s.writer.Flush()
}

func codeFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return 404
	case errors.Is(err, session.ErrDisabled),
		errors.Is(err, session.ErrDuplicateItem),
		errors.Is(err, session.ErrMaxItems):
		return 409
	case errors.Is(err, errUnknownOp), errors.Is(err, model.ErrInvalidInput):
		return 400
	default:
		return 500
	}
}
