// Package sysinfo collects the host facts shown on the status surface:
// IP address, CPU temperature, load average and a connectivity probe.
package sysinfo

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// thermalPaths are tried in order for the SoC temperature.
var thermalPaths = []string{
	"/sys/class/thermal/thermal_zone0/temp",
	"/sys/class/hwmon/hwmon0/temp1_input",
}

// Snapshot is one observation of the host state. Fields that could not
// be read hold "-", matching what the panel renders for unknowns.
type Snapshot struct {
	Time     time.Time `json:"time"`
	IP       string    `json:"ip"`
	CPUTempC string    `json:"cpu_temp"`
	Load1    string    `json:"load1"`
	Online   bool      `json:"online"`
}

// Probe describes the TCP connectivity test.
type Probe struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Collector refreshes a Snapshot on a fixed interval.
type Collector struct {
	probe    Probe
	interval time.Duration

	mu   sync.RWMutex
	snap Snapshot
}

// NewCollector creates a collector. Run must be started for Snapshot to
// hold anything but zero values.
func NewCollector(probe Probe, interval time.Duration) *Collector {
	return &Collector{probe: probe, interval: interval}
}

// Run refreshes until the context is cancelled. The first refresh happens
// immediately so the status surface is populated at startup.
func (c *Collector) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.refresh()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh()
		}
	}
}

// Snapshot returns the latest observation.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Collector) refresh() {
	snap := Snapshot{
		Time:     time.Now(),
		IP:       localIP(),
		CPUTempC: cpuTemp(),
		Load1:    load1(),
		Online:   c.probeOnline(),
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

// probeOnline dials the configured host once; any successful connect
// counts as online.
func (c *Collector) probeOnline() bool {
	addr := net.JoinHostPort(c.probe.Host, strconv.Itoa(c.probe.Port))
	conn, err := net.DialTimeout("tcp", addr, c.probe.Timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// localIP returns the first global unicast IPv4 address, or "-".
func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "-"
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.IsLinkLocalUnicast() {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			return v4.String()
		}
	}
	return "-"
}

// cpuTemp reads the SoC temperature from the first readable sysfs path.
func cpuTemp() string {
	for _, p := range thermalPaths {
		raw, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if t := parseTemp(string(raw)); t != "-" {
			return t
		}
	}
	return "-"
}

// parseTemp converts a sysfs thermal reading to a display string.
// Values over 1000 are millidegrees.
func parseTemp(raw string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "-"
	}
	if v > 1000 {
		v /= 1000.0
	}
	return fmt.Sprintf("%.0fC", v)
}

// load1 returns the 1-minute load average from /proc/loadavg.
func load1() string {
	raw, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return "-"
	}
	return parseLoad(string(raw))
}

// parseLoad extracts the first field of a loadavg line.
func parseLoad(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "-"
	}
	if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
		return "-"
	}
	return fields[0]
}
