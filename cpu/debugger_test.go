// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/step6502/go6502/cpu"
)

type breakRecorder struct {
	pcs  []uint16
	data []uint16
}

func (r *breakRecorder) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	r.pcs = append(r.pcs, b.Address)
}

func (r *breakRecorder) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	r.data = append(r.data, b.Address)
}

func TestDebuggerBreakpoints(t *testing.T) {
	assert := assert.New(t)

	rec := &breakRecorder{}
	d := cpu.NewDebugger(rec)

	d.AddBreakpoint(0x3000)
	d.AddBreakpoint(0x1000)
	b := d.AddBreakpoint(0x2000)
	assert.Same(b, d.AddBreakpoint(0x2000))

	bps := d.GetBreakpoints()
	assert.Len(bps, 3)
	assert.Equal(uint16(0x1000), bps[0].Address)
	assert.Equal(uint16(0x2000), bps[1].Address)
	assert.Equal(uint16(0x3000), bps[2].Address)

	d.RemoveBreakpoint(0x2000)
	assert.Nil(d.GetBreakpoint(0x2000))
	assert.NotNil(d.GetBreakpoint(0x1000))
}

func TestDebuggerNotifications(t *testing.T) {
	assert := assert.New(t)

	c := loadCPU(0x1000,
		0xa9, 0x01,       // LDA #$01
		0x8d, 0x00, 0x20, // STA $2000
		0xa9, 0x02,       // LDA #$02
		0x8d, 0x00, 0x20, // STA $2000
		0xea,             // NOP
	)

	rec := &breakRecorder{}
	d := cpu.NewDebugger(rec)
	c.AttachDebugger(d)

	d.AddBreakpoint(0x1005)
	d.AddBreakpoint(0x100a).Disabled = true
	d.AddConditionalDataBreakpoint(0x2000, 0x02)

	stepCPU(t, c, 5)
	assert.Equal([]uint16{0x1005}, rec.pcs)
	assert.Equal([]uint16{0x2000}, rec.data)
	expectMem(t, c, 0x2000, 0x02)

	// Attaching a debugger does not change execution.
	assert.Equal(uint64(5), c.Steps)
	expectPC(t, c, 0x100b)

	c.DetachDebugger()
	c.SetPC(0x1000)
	stepCPU(t, c, 4)
	assert.Len(rec.pcs, 1)
	assert.Len(rec.data, 1)
}

func TestDebuggerDataBreakpoints(t *testing.T) {
	assert := assert.New(t)

	d := cpu.NewDebugger(nil)
	d.AddDataBreakpoint(0x0200)
	d.AddConditionalDataBreakpoint(0x0100, 0x7f)

	dbs := d.GetDataBreakpoints()
	assert.Len(dbs, 2)
	assert.Equal(uint16(0x0100), dbs[0].Address)
	assert.True(dbs[0].Conditional)
	assert.Equal(byte(0x7f), dbs[0].Value)
	assert.False(dbs[1].Conditional)

	d.RemoveDataBreakpoint(0x0100)
	assert.Nil(d.GetDataBreakpoint(0x0100))
	assert.NotNil(d.GetDataBreakpoint(0x0200))
}
