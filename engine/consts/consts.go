package consts

import "time"

// Tunable Options
const (
	// FRAME_INTERVAL is the default interval between two frames
	FRAME_INTERVAL = time.Millisecond * 16
	// FRAME_WARN_THRESHOLD is the frame phase duration above which opmon warns
	FRAME_WARN_THRESHOLD = time.Millisecond * 50
	// STORAGE_WARN_THRESHOLD is the storage operation duration above which opmon warns
	STORAGE_WARN_THRESHOLD = time.Millisecond * 100
	// STORAGE_QUEUE_WARN_LEN is the storage queue length at which warnings start
	STORAGE_QUEUE_WARN_LEN = 100
	// STORAGE_RETRY_INTERVAL is the wait before reconnecting a broken storage engine
	STORAGE_RETRY_INTERVAL = time.Second

	// For Operation Monitor
	// OPMON_DUMP_INTERVAL is the interval to print opmon infos to output
	OPMON_DUMP_INTERVAL = 0
)

// Debug Options
const (
	// DEBUG_MUTATIONS prints every applied addition & removal
	DEBUG_MUTATIONS = false
	// DEBUG_SAVE_LOAD prints snapshot save & load debug logs
	DEBUG_SAVE_LOAD = false
)
