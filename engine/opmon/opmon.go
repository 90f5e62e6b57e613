package opmon

import (
	"sort"
	"sync"
	"time"

	"github.com/colonyrt/compworld/engine/consts"
	"github.com/colonyrt/compworld/engine/rtlog"
)

var (
	operationAllocPool = sync.Pool{
		New: func() interface{} {
			return &Operation{}
		},
	}

	monitor = newMonitor()
)

func init() {
	if consts.OPMON_DUMP_INTERVAL > 0 {
		go func() {
			for {
				time.Sleep(consts.OPMON_DUMP_INTERVAL)
				monitor.Dump()
			}
		}()
	}
}

// OpStat is the accumulated timing of one operation name
type OpStat struct {
	Count         uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
}

// Avg returns the average duration of the operation
func (s OpStat) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}

type _Monitor struct {
	sync.Mutex
	opStats map[string]*OpStat
}

func newMonitor() *_Monitor {
	return &_Monitor{
		opStats: map[string]*OpStat{},
	}
}

func (monitor *_Monitor) record(opname string, duration time.Duration) {
	monitor.Lock()
	stat := monitor.opStats[opname]
	if stat == nil {
		stat = &OpStat{}
		monitor.opStats[opname] = stat
	}
	stat.Count++
	stat.TotalDuration += duration
	if duration > stat.MaxDuration {
		stat.MaxDuration = duration
	}
	monitor.Unlock()
}

func (monitor *_Monitor) take() map[string]*OpStat {
	monitor.Lock()
	stats := monitor.opStats
	monitor.opStats = map[string]*OpStat{}
	monitor.Unlock()
	return stats
}

// Dump logs the recorded operations and resets the monitor
func (monitor *_Monitor) Dump() {
	stats := monitor.take()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stat := stats[name]
		rtlog.Infof("opmon: %-24s x%-8d AVG %-10s MAX %-10s", name, stat.Count, stat.Avg(), stat.MaxDuration)
	}
}

// Dump logs the recorded operations and resets the monitor
func Dump() {
	monitor.Dump()
}

// Stat returns the accumulated stat of the operation since the last Dump
func Stat(opname string) OpStat {
	monitor.Lock()
	defer monitor.Unlock()
	if stat := monitor.opStats[opname]; stat != nil {
		return *stat
	}
	return OpStat{}
}

// Operation is the type of operation to be monitored
type Operation struct {
	name      string
	startTime time.Time
}

// StartOperation creates a new operation
func StartOperation(operationName string) *Operation {
	op := operationAllocPool.Get().(*Operation)
	op.name = operationName
	op.startTime = time.Now()
	return op
}

// Finish finishes the operation and records the duration of operation.
// The operation must not be used after Finish.
func (op *Operation) Finish(warnThreshold time.Duration) time.Duration {
	takeTime := time.Since(op.startTime)
	monitor.record(op.name, takeTime)
	if takeTime >= warnThreshold {
		rtlog.Warnf("opmon: operation %s takes %s > %s", op.name, takeTime, warnThreshold)
	}
	operationAllocPool.Put(op)
	return takeTime
}
