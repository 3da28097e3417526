//go:build ebiten

package main

import (
	"context"

	"github.com/kryonlabs/kryon-meter/render/ebiten"
)

func init() {
	windowBackends["ebiten"] = func(ctx context.Context, ws windowSkin) error {
		loader := ebiten.NewLoader(ws.fsys)
		s, err := ws.load(loader)
		if err != nil {
			return err
		}
		return ebiten.Run(ctx, s, loader)
	}
}
