//go:build !windows
// +build !windows

package binutil

import (
	"os"

	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/sevlyar/go-daemon"
)

// Daemonize runs the process in background. The parent process exits.
func Daemonize() *daemon.Context {
	context := new(daemon.Context)
	child, err := context.Reborn()

	if err != nil {
		// daemonize failed
		rtlog.Panicf("daemonize failed: %v", err)
	}

	if child != nil {
		rtlog.Infof("run in daemon mode")
		os.Exit(0)
		return nil
	}
	return context
}
