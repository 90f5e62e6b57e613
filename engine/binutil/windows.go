//go:build windows
// +build windows

package binutil

import "github.com/colonyrt/compworld/engine/rtlog"

type nopRelease int

func (_ nopRelease) Release() error {
	return nil
}

// Daemonize is not supported on windows
func Daemonize() nopRelease {
	rtlog.Warnf("can not run in daemon mode in windows, -d ignored")
	return nopRelease(0)
}
