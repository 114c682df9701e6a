//go:build !windows

package main

import "context"

func enableDPIAwareness(context.Context) {}
