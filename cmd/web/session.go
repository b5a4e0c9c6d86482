package main

import (
	"context"
	"github.com/ceotarot/ceotarot/internal/reveal"
)

type sessionKey string

const revealSessionKey = sessionKey("reveal")

// revealState returns the visitor's stored reading. The zero State belongs to no scenario, so
// resuming from it starts a fresh reading.
func (app *application) revealState(ctx context.Context) reveal.State {
	st, ok := app.sessionManager.Get(ctx, string(revealSessionKey)).(reveal.State)
	if !ok {
		return reveal.State{} //nolint:exhaustruct // zero value starts over
	}
	return st
}

func (app *application) putRevealState(ctx context.Context, st reveal.State) {
	app.sessionManager.Put(ctx, string(revealSessionKey), st)
}

func (app *application) clearRevealState(ctx context.Context) {
	app.sessionManager.Remove(ctx, string(revealSessionKey))
}
