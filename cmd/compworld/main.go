package main

import (
	"flag"
	"math/rand"
	"time"

	"github.com/colonyrt/compworld"
	"github.com/colonyrt/compworld/engine/binutil"
	"github.com/colonyrt/compworld/engine/config"
	"github.com/colonyrt/compworld/engine/game"
	"github.com/colonyrt/compworld/engine/rtlog"
)

var (
	args struct {
		configFile      string
		logLevel        string
		runInDaemonMode bool
		restore         bool
		producers       int
	}
	service *game.Service
)

func parseArgs() {
	flag.StringVar(&args.configFile, "configfile", "", "set config file path")
	flag.StringVar(&args.logLevel, "log", "", "set log level, will override log level in config")
	flag.BoolVar(&args.runInDaemonMode, "d", false, "run in daemon mode")
	flag.BoolVar(&args.restore, "restore", false, "restore the world from its stored snapshot")
	flag.IntVar(&args.producers, "producers", 2, "number of goroutines spawning and killing colonists")
	flag.Parse()
}

func main() {
	rand.Seed(time.Now().UnixNano())
	parseArgs()

	if args.runInDaemonMode {
		daemoncontext := binutil.Daemonize()
		defer daemoncontext.Release()
	}

	if args.configFile != "" {
		compworld.SetConfigFile(args.configFile)
	}

	cfg := config.Get()
	if args.restore {
		cfg.World.Restore = true
	}
	logLevel := args.logLevel
	if logLevel == "" {
		logLevel = cfg.World.LogLevel
	}
	binutil.SetupLog("compworld", logLevel, cfg.World.LogFile, cfg.World.LogStderr)
	rtlog.Infof("Read compworld config: \n%s\n", config.DumpPretty(cfg))

	var err error
	service, err = compworld.NewWorld(newColonyRoot)
	if err != nil {
		rtlog.Fatalf("create world service failed: %+v", err)
	}

	setupSignals()
	startProducers(service, args.producers)
	if err := service.Run(); err != nil {
		rtlog.Fatalf("world service failed: %+v", err)
	}
	rtlog.Sync()
}
