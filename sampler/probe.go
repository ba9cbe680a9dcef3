package sampler

import (
	"errors"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"
)

// Default probes backed by gopsutil. Samplers take probes as plain functions
// so tests can substitute synthetic counters without touching the OS.

// clock ticks per second used to convert gopsutil's cumulative seconds back
// into integer tick counters.
const ticksPerSecond = 100

var errNoInterface = errors.New("sampler: no active network interface")

func ticksFromTimes(ts cpu.TimesStat) CPUTicks {
	return CPUTicks{
		User:   uint64(ts.User * ticksPerSecond),
		Nice:   uint64(ts.Nice * ticksPerSecond),
		System: uint64((ts.System + ts.Irq + ts.Softirq + ts.Steal) * ticksPerSecond),
		Idle:   uint64((ts.Idle + ts.Iowait) * ticksPerSecond),
	}
}

// HostCPU reads the aggregate CPU tick counters.
func HostCPU() (CPUTicks, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return CPUTicks{}, err
	}
	if len(times) == 0 {
		return CPUTicks{}, errors.New("sampler: no cpu times reported")
	}
	return ticksFromTimes(times[0]), nil
}

// HostCPUCores reads one tick set per logical core.
func HostCPUCores() ([]CPUTicks, error) {
	times, err := cpu.Times(true)
	if err != nil {
		return nil, err
	}
	out := make([]CPUTicks, len(times))
	for i, ts := range times {
		out[i] = ticksFromTimes(ts)
	}
	return out, nil
}

// HostMemory reads the host memory statistics. Used prefers the active+wired
// working set when the platform reports it, falling back to the library's own
// used figure.
func HostMemory() (MemCounters, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemCounters{}, err
	}
	used := vm.Used
	if vm.Active > 0 && vm.Wired > 0 {
		used = vm.Active + vm.Wired
	}
	return MemCounters{Used: used, Total: vm.Total}, nil
}

// HostDisk returns a probe for the volume mounted at path.
func HostDisk(path string) DiskProbe {
	if path == "" {
		path = "/"
	}
	return func() (DiskCounters, error) {
		usage, err := disk.Usage(path)
		if err != nil {
			return DiskCounters{}, err
		}
		return DiskCounters{Total: usage.Total, Free: usage.Free}, nil
	}
}

// HostNet returns a probe that reads the named interface, or resolves the
// primary interface on every call when name is empty. Primary means the
// busiest non-loopback interface by cumulative traffic, which survives the
// interface disappearing and coming back under another name.
func HostNet(name string) NetProbe {
	return func() (NetCounters, error) {
		counters, err := gopsnet.IOCounters(true)
		if err != nil {
			return NetCounters{}, err
		}
		var best *gopsnet.IOCountersStat
		for i := range counters {
			c := &counters[i]
			if name != "" {
				if c.Name == name {
					best = c
					break
				}
				continue
			}
			if strings.HasPrefix(c.Name, "lo") {
				continue
			}
			if best == nil || c.BytesRecv+c.BytesSent > best.BytesRecv+best.BytesSent {
				best = c
			}
		}
		if best == nil {
			return NetCounters{}, errNoInterface
		}
		return NetCounters{Interface: best.Name, BytesIn: best.BytesRecv, BytesOut: best.BytesSent}, nil
	}
}

// HostUptime reads the host uptime.
func HostUptime() (time.Duration, error) {
	sec, err := host.Uptime()
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}
