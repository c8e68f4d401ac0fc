// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a 6502 CPU instruction
// set and emulator.
package cpu

import "context"

// BrkHandler is an interface implemented by types that wish to be notified
// when a BRK instruction is about to be executed.
type BrkHandler interface {
	OnBrk(cpu *CPU)
}

// CPU represents a single 6502 CPU. It owns its registers and holds a
// reference to the memory it executes from.
type CPU struct {
	Reg        Registers       // CPU registers
	Mem        Memory          // assigned memory
	Steps      uint64          // total executed instructions
	LastPC     uint16          // Previous program counter
	InstSet    *InstructionSet // Instruction set used by the CPU
	debugger   *Debugger
	brkHandler BrkHandler
	storeByte  func(cpu *CPU, addr uint16, v byte)
}

// Interrupt vectors
const (
	vectorReset = 0xfffc
	vectorBRK   = 0xfffe
)

// NewCPU creates an emulated 6502 CPU bound to the specified memory.
func NewCPU(m Memory) *CPU {
	cpu := &CPU{
		Mem:       m,
		InstSet:   GetInstructionSet(),
		storeByte: (*CPU).storeByteNormal,
	}

	cpu.Reg.Init()
	return cpu
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// Reset reinitializes the CPU registers. If 'useVector' is true, the
// program counter is loaded from the reset vector at $FFFC.
func (cpu *CPU) Reset(useVector bool) {
	cpu.Reg.Init()
	if useVector {
		cpu.Reg.PC = cpu.loadWord(vectorReset)
	}
}

// GetInstruction returns the instruction opcode at the requested address.
func (cpu *CPU) GetInstruction(addr uint16) *Instruction {
	opcode := cpu.Mem.LoadByte(addr)
	return cpu.InstSet.Lookup(opcode)
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (cpu *CPU) NextAddr(addr uint16) uint16 {
	inst := cpu.GetInstruction(addr)
	return addr + uint16(inst.Length)
}

// Step the cpu by one instruction. If the opcode at the program counter is
// not implemented, an *UnimplementedError is returned and the CPU state is
// not modified.
func (cpu *CPU) Step() error {
	// Grab the next opcode at the current PC
	opcode := cpu.Mem.LoadByte(cpu.Reg.PC)

	// Look up the instruction data for the opcode
	inst := cpu.InstSet.Lookup(opcode)
	if inst.fn == nil {
		return &UnimplementedError{Opcode: opcode, Addr: cpu.Reg.PC}
	}

	// If a BRK instruction is about to be executed and a BRK handler has been
	// installed, call the BRK handler instead of executing the instruction.
	if inst.Opcode == 0x00 && cpu.brkHandler != nil {
		cpu.brkHandler.OnBrk(cpu)
		return nil
	}

	// Fetch the operand (if any) and advance the PC
	var buf [2]byte
	bytes := buf[:inst.Length-1]
	cpu.Mem.LoadBytes(cpu.Reg.PC+1, bytes)
	cpu.LastPC = cpu.Reg.PC
	cpu.Reg.PC += uint16(inst.Length)

	// Resolve the addressing mode and execute the instruction
	op := resolvers[inst.Mode](cpu, bytes)
	inst.fn(cpu, op)
	cpu.Steps++

	// Update the debugger so it handle breakpoints.
	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
	return nil
}

// Run steps the CPU until an instruction fails, the context is cancelled or
// maxSteps instructions have executed. A maxSteps of zero means no limit.
// Cancellation is only observed between instructions. Run returns the
// number of instructions executed.
func (cpu *CPU) Run(ctx context.Context, maxSteps int) (int, error) {
	n := 0
	for maxSteps == 0 || n < maxSteps {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}

		if err := cpu.Step(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// AttachBrkHandler attaches a handler that is called whenever the BRK
// instruction is executed.
func (cpu *CPU) AttachBrkHandler(handler BrkHandler) {
	cpu.brkHandler = handler
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// An operand is the resolved source or destination of an instruction.
type operand struct {
	mode Mode
	addr uint16 // effective address, or branch/jump target
	imm  byte   // literal value for IMM
}

// Addressing mode resolvers, indexed by Mode. Each receives the operand
// bytes following the opcode; the PC has already been advanced past the
// instruction.
var resolvers = [modeCount]func(cpu *CPU, b []byte) operand{
	IMP: func(cpu *CPU, b []byte) operand {
		return operand{mode: IMP}
	},
	ACC: func(cpu *CPU, b []byte) operand {
		return operand{mode: ACC}
	},
	IMM: func(cpu *CPU, b []byte) operand {
		return operand{mode: IMM, imm: b[0]}
	},
	ZPG: func(cpu *CPU, b []byte) operand {
		return operand{mode: ZPG, addr: uint16(b[0])}
	},
	ZPX: func(cpu *CPU, b []byte) operand {
		return operand{mode: ZPX, addr: offsetZeroPage(b[0], cpu.Reg.X)}
	},
	ZPY: func(cpu *CPU, b []byte) operand {
		return operand{mode: ZPY, addr: offsetZeroPage(b[0], cpu.Reg.Y)}
	},
	ABS: func(cpu *CPU, b []byte) operand {
		return operand{mode: ABS, addr: operandToAddress(b)}
	},
	ABX: func(cpu *CPU, b []byte) operand {
		return operand{mode: ABX, addr: operandToAddress(b) + uint16(cpu.Reg.X)}
	},
	ABY: func(cpu *CPU, b []byte) operand {
		return operand{mode: ABY, addr: operandToAddress(b) + uint16(cpu.Reg.Y)}
	},
	IND: func(cpu *CPU, b []byte) operand {
		return operand{mode: IND, addr: cpu.loadWordPageWrapped(operandToAddress(b))}
	},
	IDX: func(cpu *CPU, b []byte) operand {
		zpaddr := b[0] + cpu.Reg.X
		return operand{mode: IDX, addr: cpu.loadZeroPageWord(zpaddr)}
	},
	IDY: func(cpu *CPU, b []byte) operand {
		addr := cpu.loadZeroPageWord(b[0]) + uint16(cpu.Reg.Y)
		return operand{mode: IDY, addr: addr}
	},
	REL: func(cpu *CPU, b []byte) operand {
		return operand{mode: REL, addr: cpu.Reg.PC + uint16(int8(b[0]))}
	},
}

// Load a byte value using the resolved operand.
func (cpu *CPU) load(op operand) byte {
	switch op.mode {
	case IMM:
		return op.imm
	case ACC:
		return cpu.Reg.A
	default:
		return cpu.Mem.LoadByte(op.addr)
	}
}

// Store a byte value to the resolved operand.
func (cpu *CPU) store(op operand, v byte) {
	if op.mode == ACC {
		cpu.Reg.A = v
		return
	}
	cpu.storeByte(cpu, op.addr, v)
}

// Load a little-endian 16-bit value from 'addr'.
func (cpu *CPU) loadWord(addr uint16) uint16 {
	return LittleEndian(cpu.Mem.LoadByte(addr), cpu.Mem.LoadByte(addr+1))
}

// Load a little-endian pointer stored in the zero page. A pointer at $FF
// takes its high byte from $00.
func (cpu *CPU) loadZeroPageWord(zpaddr byte) uint16 {
	lo := cpu.Mem.LoadByte(uint16(zpaddr))
	hi := cpu.Mem.LoadByte(uint16(zpaddr + 1))
	return LittleEndian(lo, hi)
}

// Load a 16-bit pointer the way the NMOS 6502 does for JMP ($xxxx). When
// the pointer's low byte is $FF, the high byte comes from the start of the
// same page. For example, JMP ($12FF) reads $12FF and $1200.
func (cpu *CPU) loadWordPageWrapped(addr uint16) uint16 {
	hiAddr := (addr & 0xff00) | uint16(byte(addr)+1)
	return LittleEndian(cpu.Mem.LoadByte(addr), cpu.Mem.LoadByte(hiAddr))
}

// Execute a branch to the resolved target.
func (cpu *CPU) branch(op operand) {
	cpu.Reg.PC = op.addr
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
}

// Store the byte value 'v' add the address 'addr', notifying the debugger.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.debugger.onDataStore(cpu, addr, v)
	cpu.Mem.StoreByte(addr, v)
}

// Push a value 'v' onto the stack.
func (cpu *CPU) push(v byte) {
	cpu.storeByte(cpu, stackAddress(cpu.Reg.SP), v)
	cpu.Reg.SP--
}

// Push the address 'addr' onto the stack.
func (cpu *CPU) pushAddress(addr uint16) {
	cpu.push(byte(addr >> 8))
	cpu.push(byte(addr))
}

// Pop a value from the stack and return it.
func (cpu *CPU) pop() byte {
	cpu.Reg.SP++
	return cpu.Mem.LoadByte(stackAddress(cpu.Reg.SP))
}

// Pop a 16-bit address off the stack.
func (cpu *CPU) popAddress() uint16 {
	lo := cpu.pop()
	hi := cpu.pop()
	return LittleEndian(lo, hi)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.Zero = (v == 0)
	cpu.Reg.Negative = ((v & 0x80) != 0)
}

// Add 'v' and the carry flag to 'a' in binary, updating the carry, overflow,
// zero and negative flags. Returns the 8-bit result.
func (cpu *CPU) addBinary(a, v byte, carry bool) byte {
	sum := uint32(a) + uint32(v) + boolToUint32(carry)
	r := byte(sum)
	cpu.Reg.Carry = (sum >= 0x100)
	cpu.Reg.Overflow = ((a^r)&(v^r)&0x80 != 0)
	cpu.updateNZ(r)
	return r
}

// Compare register value 'reg' against the operand.
func (cpu *CPU) compare(reg byte, op operand) {
	v := cpu.load(op)
	sum := uint32(reg) + uint32(^v) + 1
	cpu.Reg.Carry = (sum >= 0x100)
	cpu.updateNZ(byte(sum))
}

// Add with carry
func (cpu *CPU) adc(op operand) {
	v := cpu.load(op)
	if cpu.Reg.Decimal {
		cpu.Reg.A = cpu.adcDecimal(cpu.Reg.A, v)
		return
	}
	cpu.Reg.A = cpu.addBinary(cpu.Reg.A, v, cpu.Reg.Carry)
}

// Add with carry in decimal mode, NMOS flag behavior.
func (cpu *CPU) adcDecimal(a, v byte) byte {
	acc := uint32(a)
	add := uint32(v)
	carry := boolToUint32(cpu.Reg.Carry)

	lo := (acc & 0x0f) + (add & 0x0f) + carry

	var carrylo uint32
	if lo >= 0x0a {
		carrylo = 0x10
		lo -= 0x0a
	}

	hi := (acc & 0xf0) + (add & 0xf0) + carrylo

	if hi >= 0xa0 {
		cpu.Reg.Carry = true
		hi -= 0xa0
	} else {
		cpu.Reg.Carry = false
	}

	r := hi | lo
	cpu.Reg.Overflow = ((acc^r)&0x80) != 0 && ((acc^add)&0x80) == 0
	cpu.updateNZ(byte(r))
	return byte(r)
}

// Boolean AND
func (cpu *CPU) and(op operand) {
	cpu.Reg.A &= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Arithmetic Shift Left
func (cpu *CPU) asl(op operand) {
	v := cpu.load(op)
	cpu.Reg.Carry = ((v & 0x80) == 0x80)
	v = v << 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Branch if Carry Clear
func (cpu *CPU) bcc(op operand) {
	if !cpu.Reg.Carry {
		cpu.branch(op)
	}
}

// Branch if Carry Set
func (cpu *CPU) bcs(op operand) {
	if cpu.Reg.Carry {
		cpu.branch(op)
	}
}

// Branch if EQual (to zero)
func (cpu *CPU) beq(op operand) {
	if cpu.Reg.Zero {
		cpu.branch(op)
	}
}

// Bit Test
func (cpu *CPU) bit(op operand) {
	v := cpu.load(op)
	cpu.Reg.Zero = ((v & cpu.Reg.A) == 0)
	cpu.Reg.Negative = ((v & 0x80) != 0)
	cpu.Reg.Overflow = ((v & 0x40) != 0)
}

// Branch if MInus (negative)
func (cpu *CPU) bmi(op operand) {
	if cpu.Reg.Negative {
		cpu.branch(op)
	}
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne(op operand) {
	if !cpu.Reg.Zero {
		cpu.branch(op)
	}
}

// Branch if PLus (positive)
func (cpu *CPU) bpl(op operand) {
	if !cpu.Reg.Negative {
		cpu.branch(op)
	}
}

// Break. The byte following BRK is skipped, so the pushed return address
// is the BRK address plus two.
func (cpu *CPU) brk(op operand) {
	cpu.Reg.PC++
	cpu.pushAddress(cpu.Reg.PC)
	cpu.push(cpu.Reg.SavePS(true))
	cpu.Reg.InterruptDisable = true
	cpu.Reg.PC = cpu.loadWord(vectorBRK)
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc(op operand) {
	if !cpu.Reg.Overflow {
		cpu.branch(op)
	}
}

// Branch if oVerflow Set
func (cpu *CPU) bvs(op operand) {
	if cpu.Reg.Overflow {
		cpu.branch(op)
	}
}

// Clear Carry flag
func (cpu *CPU) clc(op operand) {
	cpu.Reg.Carry = false
}

// Clear Decimal flag
func (cpu *CPU) cld(op operand) {
	cpu.Reg.Decimal = false
}

// Clear InterruptDisable flag
func (cpu *CPU) cli(op operand) {
	cpu.Reg.InterruptDisable = false
}

// Clear oVerflow flag
func (cpu *CPU) clv(op operand) {
	cpu.Reg.Overflow = false
}

// Compare to accumulator
func (cpu *CPU) cmp(op operand) {
	cpu.compare(cpu.Reg.A, op)
}

// Compare to X register
func (cpu *CPU) cpx(op operand) {
	cpu.compare(cpu.Reg.X, op)
}

// Compare to Y register
func (cpu *CPU) cpy(op operand) {
	cpu.compare(cpu.Reg.Y, op)
}

// Decrement memory value
func (cpu *CPU) dec(op operand) {
	v := cpu.load(op) - 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Decrement X register
func (cpu *CPU) dex(op operand) {
	cpu.Reg.X--
	cpu.updateNZ(cpu.Reg.X)
}

// Decrement Y register
func (cpu *CPU) dey(op operand) {
	cpu.Reg.Y--
	cpu.updateNZ(cpu.Reg.Y)
}

// Boolean XOR
func (cpu *CPU) eor(op operand) {
	cpu.Reg.A ^= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Increment memory value
func (cpu *CPU) inc(op operand) {
	v := cpu.load(op) + 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Increment X register
func (cpu *CPU) inx(op operand) {
	cpu.Reg.X++
	cpu.updateNZ(cpu.Reg.X)
}

// Increment Y register
func (cpu *CPU) iny(op operand) {
	cpu.Reg.Y++
	cpu.updateNZ(cpu.Reg.Y)
}

// Jump to memory address
func (cpu *CPU) jmp(op operand) {
	cpu.Reg.PC = op.addr
}

// Jump to subroutine
func (cpu *CPU) jsr(op operand) {
	cpu.pushAddress(cpu.Reg.PC - 1)
	cpu.Reg.PC = op.addr
}

// load Accumulator
func (cpu *CPU) lda(op operand) {
	cpu.Reg.A = cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// load the X register
func (cpu *CPU) ldx(op operand) {
	cpu.Reg.X = cpu.load(op)
	cpu.updateNZ(cpu.Reg.X)
}

// load the Y register
func (cpu *CPU) ldy(op operand) {
	cpu.Reg.Y = cpu.load(op)
	cpu.updateNZ(cpu.Reg.Y)
}

// Logical Shift Right
func (cpu *CPU) lsr(op operand) {
	v := cpu.load(op)
	cpu.Reg.Carry = ((v & 1) == 1)
	v = v >> 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// No-operation
func (cpu *CPU) nop(op operand) {
	// Do nothing
}

// Boolean OR
func (cpu *CPU) ora(op operand) {
	cpu.Reg.A |= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Push Accumulator
func (cpu *CPU) pha(op operand) {
	cpu.push(cpu.Reg.A)
}

// Push Processor flags
func (cpu *CPU) php(op operand) {
	cpu.push(cpu.Reg.SavePS(true))
}

// Pull (pop) Accumulator
func (cpu *CPU) pla(op operand) {
	cpu.Reg.A = cpu.pop()
	cpu.updateNZ(cpu.Reg.A)
}

// Pull (pop) Processor flags
func (cpu *CPU) plp(op operand) {
	cpu.Reg.SetPS(cpu.pop())
}

// Rotate Left
func (cpu *CPU) rol(op operand) {
	tmp := cpu.load(op)
	v := (tmp << 1) | boolToByte(cpu.Reg.Carry)
	cpu.Reg.Carry = ((tmp & 0x80) != 0)
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Rotate Right
func (cpu *CPU) ror(op operand) {
	tmp := cpu.load(op)
	v := (tmp >> 1) | (boolToByte(cpu.Reg.Carry) << 7)
	cpu.Reg.Carry = ((tmp & 1) != 0)
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Return from Interrupt
func (cpu *CPU) rti(op operand) {
	cpu.Reg.SetPS(cpu.pop())
	cpu.Reg.PC = cpu.popAddress()
}

// Return from Subroutine
func (cpu *CPU) rts(op operand) {
	addr := cpu.popAddress()
	cpu.Reg.PC = addr + 1
}

// Subtract with Carry
func (cpu *CPU) sbc(op operand) {
	v := cpu.load(op)
	if cpu.Reg.Decimal {
		cpu.Reg.A = cpu.sbcDecimal(cpu.Reg.A, v)
		return
	}
	cpu.Reg.A = cpu.addBinary(cpu.Reg.A, ^v, cpu.Reg.Carry)
}

// Subtract with carry in decimal mode, NMOS flag behavior.
func (cpu *CPU) sbcDecimal(a, v byte) byte {
	acc := uint32(a)
	sub := uint32(v)
	carry := boolToUint32(cpu.Reg.Carry)

	lo := 0x0f + (acc & 0x0f) - (sub & 0x0f) + carry

	var carrylo uint32
	if lo < 0x10 {
		lo -= 0x06
	} else {
		lo -= 0x10
		carrylo = 0x10
	}

	hi := 0xf0 + (acc & 0xf0) - (sub & 0xf0) + carrylo

	if hi < 0x100 {
		cpu.Reg.Carry = false
		hi -= 0x60
	} else {
		cpu.Reg.Carry = true
		hi -= 0x100
	}

	r := (hi | lo) & 0xff
	cpu.Reg.Overflow = ((acc^r)&0x80) != 0 && ((acc^sub)&0x80) != 0
	cpu.updateNZ(byte(r))
	return byte(r)
}

// Set Carry flag
func (cpu *CPU) sec(op operand) {
	cpu.Reg.Carry = true
}

// Set Decimal flag
func (cpu *CPU) sed(op operand) {
	cpu.Reg.Decimal = true
}

// Set InterruptDisable flag
func (cpu *CPU) sei(op operand) {
	cpu.Reg.InterruptDisable = true
}

// Store Accumulator
func (cpu *CPU) sta(op operand) {
	cpu.store(op, cpu.Reg.A)
}

// Store X register
func (cpu *CPU) stx(op operand) {
	cpu.store(op, cpu.Reg.X)
}

// Store Y register
func (cpu *CPU) sty(op operand) {
	cpu.store(op, cpu.Reg.Y)
}

// Transfer Accumulator to X register
func (cpu *CPU) tax(op operand) {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer Accumulator to Y register
func (cpu *CPU) tay(op operand) {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
}

// Transfer stack pointer to X register
func (cpu *CPU) tsx(op operand) {
	cpu.Reg.X = cpu.Reg.SP
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer X register to Accumulator
func (cpu *CPU) txa(op operand) {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
}

// Transfer X register to the stack pointer
func (cpu *CPU) txs(op operand) {
	cpu.Reg.SP = cpu.Reg.X
}

// Transfer Y register to the Accumulator
func (cpu *CPU) tya(op operand) {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
}
