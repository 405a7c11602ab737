//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"postfeed/feedproxy/internal/feed"
)

// watchResize updates the loader's viewport whenever the terminal is resized.
func watchResize(ctx context.Context, loader *feed.Loader) {
	resized := make(chan os.Signal, 1)
	signal.Notify(resized, syscall.SIGWINCH)

	go func() {
		defer signal.Stop(resized)
		for {
			select {
			case <-ctx.Done():
				return
			case <-resized:
				width := viewportWidth(0)
				loader.SetViewport(feed.Viewport{Width: width})
				log.Debug().Int("width", width).Msg("Viewport resized")
			}
		}
	}()
}
