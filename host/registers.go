// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strings"

	"github.com/step6502/go6502/cpu"
)

// A register describes a CPU register or status flag that may be read
// and written by name from the host prompt and from scripts.
type register struct {
	name string
	size int // bytes; 0 for a status flag
	get  func(r *cpu.Registers) int64
	set  func(r *cpu.Registers, v int64)
}

func flagRegister(name string, p func(r *cpu.Registers) *bool) *register {
	return &register{
		name: name,
		get: func(r *cpu.Registers) int64 {
			if *p(r) {
				return 1
			}
			return 0
		},
		set: func(r *cpu.Registers, v int64) { *p(r) = v != 0 },
	}
}

var registers = map[string]*register{}

func init() {
	regs := []struct {
		aliases []string
		reg     *register
	}{
		{[]string{"a"}, &register{
			name: "A",
			size: 1,
			get:  func(r *cpu.Registers) int64 { return int64(r.A) },
			set:  func(r *cpu.Registers, v int64) { r.A = byte(v) },
		}},
		{[]string{"x"}, &register{
			name: "X",
			size: 1,
			get:  func(r *cpu.Registers) int64 { return int64(r.X) },
			set:  func(r *cpu.Registers, v int64) { r.X = byte(v) },
		}},
		{[]string{"y"}, &register{
			name: "Y",
			size: 1,
			get:  func(r *cpu.Registers) int64 { return int64(r.Y) },
			set:  func(r *cpu.Registers, v int64) { r.Y = byte(v) },
		}},
		{[]string{"sp"}, &register{
			name: "SP",
			size: 1,
			get:  func(r *cpu.Registers) int64 { return int64(r.SP) },
			set:  func(r *cpu.Registers, v int64) { r.SP = byte(v) },
		}},
		{[]string{"pc", "."}, &register{
			name: "PC",
			size: 2,
			get:  func(r *cpu.Registers) int64 { return int64(r.PC) },
			set:  func(r *cpu.Registers, v int64) { r.PC = uint16(v) },
		}},
		{[]string{"ps"}, &register{
			name: "PS",
			size: 1,
			get:  func(r *cpu.Registers) int64 { return int64(r.PS()) },
			set:  func(r *cpu.Registers, v int64) { r.SetPS(byte(v)) },
		}},
		{[]string{"c", "carry"}, flagRegister("Carry", func(r *cpu.Registers) *bool { return &r.Carry })},
		{[]string{"z", "zero"}, flagRegister("Zero", func(r *cpu.Registers) *bool { return &r.Zero })},
		{[]string{"i", "interruptdisable"}, flagRegister("InterruptDisable", func(r *cpu.Registers) *bool { return &r.InterruptDisable })},
		{[]string{"d", "decimal"}, flagRegister("Decimal", func(r *cpu.Registers) *bool { return &r.Decimal })},
		{[]string{"b", "break"}, flagRegister("Break", func(r *cpu.Registers) *bool { return &r.Break })},
		{[]string{"v", "overflow"}, flagRegister("Overflow", func(r *cpu.Registers) *bool { return &r.Overflow })},
		{[]string{"n", "negative", "sign"}, flagRegister("Negative", func(r *cpu.Registers) *bool { return &r.Negative })},
	}
	for _, r := range regs {
		for _, a := range r.aliases {
			registers[a] = r.reg
		}
	}
}

func lookupRegister(name string) (*register, error) {
	if r, ok := registers[strings.ToLower(name)]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("unknown register '%s'", name)
}

// Format a register value the way the host displays it.
func (r *register) format(regs *cpu.Registers) string {
	v := r.get(regs)
	switch r.size {
	case 0:
		return fmt.Sprintf("%v", v != 0)
	case 1:
		return fmt.Sprintf("$%02X", v)
	default:
		return fmt.Sprintf("$%04X", v)
	}
}

// Return the identifiers available to host expressions.
func exprVars(regs *cpu.Registers) map[string]int64 {
	return map[string]int64{
		"a":  int64(regs.A),
		"x":  int64(regs.X),
		"y":  int64(regs.Y),
		"sp": int64(regs.SP) | 0x0100,
		"pc": int64(regs.PC),
		"ps": int64(regs.PS()),
	}
}
