// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/step6502/go6502/cpu"
	"github.com/step6502/go6502/disasm"
)

func TestDisassemble(t *testing.T) {
	mem := cpu.NewFlatMemory()
	mem.StoreBytes(0x1000, []byte{
		0xa9, 0x5e,       // LDA #$5E
		0x8d, 0x00, 0x15, // STA $1500
		0xb1, 0x06,       // LDA ($06),Y
		0x0a,             // ASL
		0xd0, 0xfc,       // BNE $1008
		0x6c, 0xff, 0x12, // JMP ($12FF)
		0xbe, 0x34, 0x12, // LDX $1234,Y
		0xea,             // NOP
		0xff,             // ???
	})

	set := cpu.GetInstructionSet()
	expected := []struct {
		line string
		next uint16
	}{
		{"LDA #$5E", 0x1002},
		{"STA $1500", 0x1005},
		{"LDA ($06),Y", 0x1007},
		{"ASL", 0x1008},
		{"BNE $1006", 0x100a},
		{"JMP ($12FF)", 0x100d},
		{"LDX $1234,Y", 0x1010},
		{"NOP", 0x1011},
		{"???", 0x1012},
	}

	addr := uint16(0x1000)
	for _, e := range expected {
		line, next := disasm.Disassemble(mem, set, addr)
		assert.Equal(t, e.line, line)
		assert.Equal(t, e.next, next)
		addr = next
	}
}

func TestRegisterString(t *testing.T) {
	c := cpu.NewCPU(cpu.NewFlatMemory())
	c.Reg.A = 0x12
	c.Reg.Carry = true
	c.Reg.Negative = true
	c.SetPC(0xc000)

	assert.Equal(t, "A=12 X=00 Y=00 PS=[N-1B-I-C] SP=FF PC=C000", disasm.RegisterString(&c.Reg))
}
