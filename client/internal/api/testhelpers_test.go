package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/originals/collab-client/client/internal/gateway"
)

// recorder is a Requester that captures the last call and replays a canned
// envelope body.
type recorder struct {
	last  gateway.Call
	calls int
	body  string
	err   error
}

func (r *recorder) Request(_ context.Context, c gateway.Call) (*gateway.Envelope, error) {
	r.last = c
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	env := &gateway.Envelope{Status: 200, Raw: []byte(r.body)}
	if err := json.Unmarshal(env.Raw, env); err != nil {
		return nil, errors.New("bad fixture: " + err.Error())
	}
	return env, nil
}
