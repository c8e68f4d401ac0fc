// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/step6502/go6502/cpu"

// The debugHandler receives breakpoint notifications from the cpu
// debugger and BRK traps from the cpu itself, and forwards them to the
// host.
type debugHandler struct {
	host *Host
}

var (
	_ cpu.BreakpointHandler = (*debugHandler)(nil)
	_ cpu.BrkHandler        = (*debugHandler)(nil)
)

func newDebugHandler(h *Host) *debugHandler {
	return &debugHandler{host: h}
}

func (d *debugHandler) OnBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	d.host.onBreakpoint(cpu, b)
}

func (d *debugHandler) OnDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	d.host.onDataBreakpoint(cpu, b)
}

func (d *debugHandler) OnBrk(cpu *cpu.CPU) {
	d.host.onBrk(cpu)
}
