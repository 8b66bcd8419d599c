// Package stats submits usage statistics to InfluxDB.
package stats

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// Client is an InfluxDB client. A nil *Client is valid and does nothing, so
// callers don't need to check whether stats are enabled.
type Client struct {
	Client api.WriteAPI

	// StoreCounts, if set, is polled on every submit.
	StoreCounts func() (users, groups int)

	sugar *zap.SugaredLogger

	mu    sync.Mutex
	cmds  uint32
	teas  uint32
	syncs uint32
}

// New creates a new client and starts its submit loop.
func New(url, token, organization, database string, sugar *zap.SugaredLogger) *Client {
	c := &Client{
		sugar: sugar.Named("stats"),
	}

	c.Client = influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetBatchSize(20)).WriteAPI(organization, database)

	go c.submit()

	return c
}

// IncCommand increments the command count by one.
func (c *Client) IncCommand() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.cmds++
	c.mu.Unlock()
}

// IncTea increments the poured-tea count by one.
func (c *Client) IncTea() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.teas++
	c.mu.Unlock()
}

// IncSync increments the sync cycle count by one.
func (c *Client) IncSync() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.syncs++
	c.mu.Unlock()
}

func (c *Client) submit() {
	if c == nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	ticker := time.NewTicker(time.Minute)

	for {
		select {
		case <-ticker.C:
			go c.submitInner()
		case <-ctx.Done():
			ticker.Stop()
			c.Client.Flush()
			return
		}
	}
}

func (c *Client) submitInner() {
	if c == nil {
		return
	}

	c.sugar.Debug("Submitting metrics to InfluxDB")

	c.mu.Lock()
	cmds, teas, syncs := c.cmds, c.teas, c.syncs
	c.cmds, c.teas, c.syncs = 0, 0, 0
	c.mu.Unlock()

	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	data := map[string]interface{}{
		"commands":    cmds,
		"teas":        teas,
		"sync_cycles": syncs,
		"alloc":       stats.Alloc,
		"sys":         stats.Sys,
		"total_alloc": stats.TotalAlloc,
		"goroutines":  runtime.NumGoroutine(),
	}

	if c.StoreCounts != nil {
		users, groups := c.StoreCounts()
		data["users"] = users
		data["groups"] = groups
	}

	sysMem, err := mem.VirtualMemory()
	if err != nil {
		c.sugar.Errorf("Error getting system memory: %v", err)
	} else {
		data["total_sys"] = sysMem.Used
		data["total_sys_percent"] = sysMem.UsedPercent
	}

	cpuData, err := cpu.Percent(0, false)
	if err != nil {
		c.sugar.Errorf("Error getting cpu info: %v", err)
	} else if len(cpuData) > 0 {
		data["cpu"] = cpuData[0]
	}

	p := influxdb2.NewPoint("statistics", nil, data, time.Now())
	c.Client.WritePoint(p)
}
