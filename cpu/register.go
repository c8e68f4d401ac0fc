// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Registers contains the state of all 6502 registers. The processor status
// flags are kept as individual booleans and only packed into a byte when
// they cross the stack (PHP, PLP, BRK, RTI) or are displayed.
type Registers struct {
	A                byte   // accumulator
	X                byte   // X indexing register
	Y                byte   // Y indexing register
	SP               byte   // stack pointer ($100 + SP = stack memory location)
	PC               uint16 // program counter
	Carry            bool   // PS: Carry bit
	Zero             bool   // PS: Zero bit
	InterruptDisable bool   // PS: Interrupt disable bit
	Decimal          bool   // PS: Decimal bit
	Break            bool   // PS: Break bit
	Overflow         bool   // PS: Overflow bit
	Negative         bool   // PS: Negative (sign) bit
}

// Bits assigned to the processor status byte
const (
	CarryBit            = 1 << 0
	ZeroBit             = 1 << 1
	InterruptDisableBit = 1 << 2
	DecimalBit          = 1 << 3
	BreakBit            = 1 << 4
	ReservedBit         = 1 << 5
	OverflowBit         = 1 << 6
	NegativeBit         = 1 << 7
)

// InitialPS is the packed processor status after a reset.
const InitialPS = ReservedBit | BreakBit | InterruptDisableBit

// PS packs the processor status flags into a byte. The reserved bit is
// always set.
func (r *Registers) PS() byte {
	var ps byte = ReservedBit
	if r.Carry {
		ps |= CarryBit
	}
	if r.Zero {
		ps |= ZeroBit
	}
	if r.InterruptDisable {
		ps |= InterruptDisableBit
	}
	if r.Decimal {
		ps |= DecimalBit
	}
	if r.Break {
		ps |= BreakBit
	}
	if r.Overflow {
		ps |= OverflowBit
	}
	if r.Negative {
		ps |= NegativeBit
	}
	return ps
}

// SavePS returns the status byte as pushed onto the stack. The break bit
// is forced on when 'brk' is true.
func (r *Registers) SavePS(brk bool) byte {
	ps := r.PS()
	if brk {
		ps |= BreakBit
	}
	return ps
}

// SetPS restores the processor status flags from a byte. The reserved
// bit is ignored.
func (r *Registers) SetPS(ps byte) {
	r.Carry = ((ps & CarryBit) != 0)
	r.Zero = ((ps & ZeroBit) != 0)
	r.InterruptDisable = ((ps & InterruptDisableBit) != 0)
	r.Decimal = ((ps & DecimalBit) != 0)
	r.Break = ((ps & BreakBit) != 0)
	r.Overflow = ((ps & OverflowBit) != 0)
	r.Negative = ((ps & NegativeBit) != 0)
}

// Init initializes all registers. A, X, Y = 0. SP = 0xff. PC = 0.
// PS = $34.
func (r *Registers) Init() {
	r.A = 0
	r.X = 0
	r.Y = 0
	r.SP = 0xff
	r.PC = 0
	r.SetPS(InitialPS)
}

func boolToUint32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

func boolToByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
