package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/colonyrt/compworld/engine/rtlog"
)

var signalChan = make(chan os.Signal, 1)

func setupSignals() {
	rtlog.Infof("Setup signals ...")
	signal.Ignore(syscall.SIGPIPE, syscall.SIGHUP)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for {
			sig := <-signalChan
			if sig == syscall.SIGINT || sig == syscall.SIGTERM {
				rtlog.Infof("Terminating world service ...")
				service.Terminate()
				service.WaitTerminated()
				rtlog.Infof("World terminated gracefully.")
				rtlog.Sync()
				os.Exit(0)
			} else {
				rtlog.Errorf("unexpected signal: %s", sig)
			}
		}
	}()
}
