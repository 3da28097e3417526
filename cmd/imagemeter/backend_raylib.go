//go:build !ebiten

package main

import (
	"context"

	"github.com/kryonlabs/kryon-meter/render/raylib"
)

func init() {
	windowBackends["raylib"] = func(ctx context.Context, ws windowSkin) error {
		r := raylib.NewRaylibRenderer(ws.dir)
		s, err := ws.load(r.Loader())
		if err != nil {
			return err
		}
		return window(ctx, s, r, ws.ticks)
	}
}
