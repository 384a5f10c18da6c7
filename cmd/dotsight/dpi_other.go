//go:build !windows

package main

import "github.com/rs/zerolog"

func logDisplayInfo(log zerolog.Logger) {}
