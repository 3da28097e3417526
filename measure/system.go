package measure

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// CPU is the average utilization of all cores, in percent.
type CPU struct {
	number
}

func NewCPU(name string) *CPU {
	return &CPU{number: number{name: name}}
}

// Update samples utilization since the previous call. The first sample after
// start may be zero.
func (c *CPU) Update(ctx context.Context) error {
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return fmt.Errorf("measure %q: cpu percent: %w", c.name, err)
	}
	if len(pct) > 0 {
		c.value = pct[0]
	}
	return nil
}

// Memory is the used share of physical memory, in percent.
type Memory struct {
	number
}

func NewMemory(name string) *Memory {
	return &Memory{number: number{name: name}}
}

func (m *Memory) Update(ctx context.Context) error {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return fmt.Errorf("measure %q: virtual memory: %w", m.name, err)
	}
	m.value = v.UsedPercent
	return nil
}
