//go:build !unix

package main

import (
	"context"

	"postfeed/feedproxy/internal/feed"
)

func watchResize(ctx context.Context, loader *feed.Loader) {}
