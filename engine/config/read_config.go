package config

import (
	"encoding/json"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/colonyrt/compworld/engine/common"
	"github.com/colonyrt/compworld/engine/consts"
	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/colonyrt/compworld/engine/rtutil"
	"github.com/go-ini/ini"
	"github.com/pkg/errors"
)

const (
	_DEFAULT_CONFIG_FILE    = "compworld.ini"
	_DEFAULT_WORLD_NAME     = "world"
	_DEFAULT_SAVE_INTERVAL  = time.Minute * 5
	_DEFAULT_LOG_LEVEL      = "debug"
	_DEFAULT_STORAGE_DB     = "compworld"
	_DEFAULT_STORAGE_DIR    = "_snapshots"
	_DEFAULT_SNAPSHOT_CODEC = "msgpack"
)

var (
	configFilePath = _DEFAULT_CONFIG_FILE
	compWorldConfig *CompWorldConfig
	configLock      sync.Mutex
)

// WorldConfig defines fields of the [world] section
type WorldConfig struct {
	Name           string
	FrameInterval  time.Duration
	SaveInterval   time.Duration // 0 disables autosave
	Restore        bool
	SnapshotFormat string
	LogFile        string
	LogStderr      bool
	LogLevel       string
}

// StorageConfig defines fields of the [storage] section
type StorageConfig struct {
	Type       string // Type of storage (filesystem, mongodb, redis, redis_cluster)
	Directory  string // Directory of filesystem storage (filesystem)
	Url        string // Connection URL (mongodb, redis)
	DB         string // Database name (mongodb, redis)
	StartNodes common.StringSet
}

// CompWorldConfig defines the total config file structure
type CompWorldConfig struct {
	World   WorldConfig
	Storage StorageConfig
}

// SetConfigFile sets the config file path (compworld.ini by default)
func SetConfigFile(f string) {
	configLock.Lock()
	configFilePath = f
	compWorldConfig = nil
	configLock.Unlock()
}

// GetConfigDir returns the directory of the config file
func GetConfigDir() string {
	dir, _ := path.Split(configFilePath)
	return dir
}

// GetConfigFilePath returns the config file path
func GetConfigFilePath() string {
	return configFilePath
}

// Get returns the total config
func Get() *CompWorldConfig {
	configLock.Lock()
	defer configLock.Unlock()
	if compWorldConfig == nil {
		rtlog.Infof("Using config file: %s", configFilePath)
		cfg, err := load(configFilePath)
		checkConfigError(err, "")
		compWorldConfig = cfg
	}
	return compWorldConfig
}

// Reload forces the whole config to be read again
func Reload() *CompWorldConfig {
	configLock.Lock()
	compWorldConfig = nil
	configLock.Unlock()

	return Get()
}

// LoadBytes parses config from ini content without touching the global config
func LoadBytes(data []byte) (*CompWorldConfig, error) {
	return load(data)
}

// GetWorld returns the world config
func GetWorld() *WorldConfig {
	return &Get().World
}

// GetStorage returns the storage config
func GetStorage() *StorageConfig {
	return &Get().Storage
}

// DumpPretty format config to string in pretty format
func DumpPretty(cfg interface{}) string {
	s, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err.Error()
	}
	return string(s)
}

func load(source interface{}) (cfg *CompWorldConfig, err error) {
	iniFile, err := ini.Load(source)
	if err != nil {
		return nil, errors.Wrap(err, "load ini")
	}

	cfg = &CompWorldConfig{}
	err = rtutil.CatchPanic(func() {
		readWorldConfig(iniFile.Section("world"), &cfg.World)
		readStorageConfig(iniFile.Section("storage"), &cfg.Storage)
	})
	if err != nil {
		return nil, err
	}

	for _, sec := range iniFile.Sections() {
		secName := strings.ToLower(sec.Name())
		if secName == strings.ToLower(ini.DefaultSection) || secName == "world" || secName == "storage" {
			continue
		}
		rtlog.Errorf("unknown section: %s", sec.Name())
	}
	return cfg, nil
}

func readWorldConfig(sec *ini.Section, wc *WorldConfig) {
	wc.Name = _DEFAULT_WORLD_NAME
	wc.FrameInterval = consts.FRAME_INTERVAL
	wc.SaveInterval = _DEFAULT_SAVE_INTERVAL
	wc.SnapshotFormat = _DEFAULT_SNAPSHOT_CODEC
	wc.LogFile = "compworld.log"
	wc.LogStderr = true
	wc.LogLevel = _DEFAULT_LOG_LEVEL

	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		switch name {
		case "name":
			wc.Name = key.MustString(wc.Name)
		case "frame_interval_ms":
			wc.FrameInterval = time.Millisecond * time.Duration(key.MustInt(int(wc.FrameInterval/time.Millisecond)))
		case "save_interval":
			wc.SaveInterval = time.Second * time.Duration(key.MustInt(int(_DEFAULT_SAVE_INTERVAL/time.Second)))
		case "restore":
			wc.Restore = key.MustBool(wc.Restore)
		case "snapshot_format":
			wc.SnapshotFormat = key.MustString(wc.SnapshotFormat)
		case "log_file":
			wc.LogFile = key.MustString(wc.LogFile)
		case "log_stderr":
			wc.LogStderr = key.MustBool(wc.LogStderr)
		case "log_level":
			wc.LogLevel = key.MustString(wc.LogLevel)
		default:
			rtlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}

	if wc.Name == "" {
		rtlog.Panicf("world name must not be empty")
	}
	if wc.FrameInterval <= 0 {
		rtlog.Panicf("frame_interval_ms must be positive")
	}
	if wc.SnapshotFormat != "msgpack" && wc.SnapshotFormat != "json" {
		rtlog.Panicf("unknown snapshot_format: %s", wc.SnapshotFormat)
	}
}

func readStorageConfig(sec *ini.Section, config *StorageConfig) {
	// setup default values
	config.Type = "filesystem"
	config.Directory = _DEFAULT_STORAGE_DIR
	config.DB = _DEFAULT_STORAGE_DB
	config.Url = ""
	config.StartNodes = common.StringSet{}

	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "type" {
			config.Type = key.MustString(config.Type)
		} else if name == "directory" {
			config.Directory = key.MustString(config.Directory)
		} else if name == "url" {
			config.Url = key.MustString(config.Url)
		} else if name == "db" {
			config.DB = key.MustString(config.DB)
		} else if strings.HasPrefix(name, "start_nodes_") {
			config.StartNodes.Add(key.MustString(""))
		} else {
			rtlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}

	if config.Type == "redis" && (config.DB == "" || config.DB == _DEFAULT_STORAGE_DB) {
		config.DB = "0"
	}

	validateStorageConfig(config)
}

func checkConfigError(err error, msg string) {
	if err != nil {
		if msg == "" {
			msg = err.Error()
		}
		rtlog.Panicf("read config error: %s", msg)
	}
}

func validateStorageConfig(config *StorageConfig) {
	switch config.Type {
	case "filesystem":
		if config.Directory == "" {
			rtlog.Panicf("directory is not set in %s storage config", config.Type)
		}
	case "mongodb":
		if config.Url == "" {
			rtlog.Panicf("url is not set in %s storage config", config.Type)
		}
		if config.DB == "" {
			rtlog.Panicf("db is not set in %s storage config", config.Type)
		}
	case "redis":
		if config.Url == "" {
			rtlog.Panicf("redis host is not set")
		}
		if _, err := strconv.Atoi(config.DB); err != nil {
			rtlog.Panic(errors.Wrap(err, "redis db must be integer"))
		}
	case "redis_cluster":
		if len(config.StartNodes) == 0 {
			rtlog.Panicf("must have at least 1 start_nodes for [storage].redis_cluster")
		}
		for s := range config.StartNodes {
			if s == "" {
				rtlog.Panicf("start_nodes must not be empty")
			}
		}
	default:
		rtlog.Panicf("unknown storage type: %s", config.Type)
	}
}
