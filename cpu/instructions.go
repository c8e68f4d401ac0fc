// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "strings"

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)

	modeCount
)

// Length of an instruction (opcode + operand) for each addressing mode.
var modeLength = [modeCount]byte{
	IMM: 2,
	IMP: 1,
	REL: 2,
	ZPG: 2,
	ZPX: 2,
	ZPY: 2,
	ABS: 3,
	ABX: 3,
	ABY: 3,
	IND: 3,
	IDX: 2,
	IDY: 2,
	ACC: 1,
}

var modeName = [modeCount]string{
	"IMM", "IMP", "REL", "ZPG", "ZPX", "ZPY", "ABS",
	"ABX", "ABY", "IND", "IDX", "IDY", "ACC",
}

func (m Mode) String() string {
	if m < modeCount {
		return modeName[m]
	}
	return "???"
}

// Length returns the number of bytes, including the opcode, consumed by an
// instruction using this addressing mode.
func (m Mode) Length() byte {
	if m < modeCount {
		return modeLength[m]
	}
	return 1
}

type instfunc func(c *CPU, op operand)

// An (opcode, mode) pair and the operation it executes.
type opcodeData struct {
	name   string   // all-caps mnemonic
	mode   Mode     // addressing mode
	opcode byte     // opcode hex value
	fn     instfunc // emulator implementation
}

// All documented NMOS 6502 (opcode, mode) pairs
var data = []opcodeData{
	{"LDA", IMM, 0xa9, (*CPU).lda},
	{"LDA", ZPG, 0xa5, (*CPU).lda},
	{"LDA", ZPX, 0xb5, (*CPU).lda},
	{"LDA", ABS, 0xad, (*CPU).lda},
	{"LDA", ABX, 0xbd, (*CPU).lda},
	{"LDA", ABY, 0xb9, (*CPU).lda},
	{"LDA", IDX, 0xa1, (*CPU).lda},
	{"LDA", IDY, 0xb1, (*CPU).lda},

	{"LDX", IMM, 0xa2, (*CPU).ldx},
	{"LDX", ZPG, 0xa6, (*CPU).ldx},
	{"LDX", ZPY, 0xb6, (*CPU).ldx},
	{"LDX", ABS, 0xae, (*CPU).ldx},
	{"LDX", ABY, 0xbe, (*CPU).ldx},

	{"LDY", IMM, 0xa0, (*CPU).ldy},
	{"LDY", ZPG, 0xa4, (*CPU).ldy},
	{"LDY", ZPX, 0xb4, (*CPU).ldy},
	{"LDY", ABS, 0xac, (*CPU).ldy},
	{"LDY", ABX, 0xbc, (*CPU).ldy},

	{"STA", ZPG, 0x85, (*CPU).sta},
	{"STA", ZPX, 0x95, (*CPU).sta},
	{"STA", ABS, 0x8d, (*CPU).sta},
	{"STA", ABX, 0x9d, (*CPU).sta},
	{"STA", ABY, 0x99, (*CPU).sta},
	{"STA", IDX, 0x81, (*CPU).sta},
	{"STA", IDY, 0x91, (*CPU).sta},

	{"STX", ZPG, 0x86, (*CPU).stx},
	{"STX", ZPY, 0x96, (*CPU).stx},
	{"STX", ABS, 0x8e, (*CPU).stx},

	{"STY", ZPG, 0x84, (*CPU).sty},
	{"STY", ZPX, 0x94, (*CPU).sty},
	{"STY", ABS, 0x8c, (*CPU).sty},

	{"ADC", IMM, 0x69, (*CPU).adc},
	{"ADC", ZPG, 0x65, (*CPU).adc},
	{"ADC", ZPX, 0x75, (*CPU).adc},
	{"ADC", ABS, 0x6d, (*CPU).adc},
	{"ADC", ABX, 0x7d, (*CPU).adc},
	{"ADC", ABY, 0x79, (*CPU).adc},
	{"ADC", IDX, 0x61, (*CPU).adc},
	{"ADC", IDY, 0x71, (*CPU).adc},

	{"SBC", IMM, 0xe9, (*CPU).sbc},
	{"SBC", ZPG, 0xe5, (*CPU).sbc},
	{"SBC", ZPX, 0xf5, (*CPU).sbc},
	{"SBC", ABS, 0xed, (*CPU).sbc},
	{"SBC", ABX, 0xfd, (*CPU).sbc},
	{"SBC", ABY, 0xf9, (*CPU).sbc},
	{"SBC", IDX, 0xe1, (*CPU).sbc},
	{"SBC", IDY, 0xf1, (*CPU).sbc},

	{"CMP", IMM, 0xc9, (*CPU).cmp},
	{"CMP", ZPG, 0xc5, (*CPU).cmp},
	{"CMP", ZPX, 0xd5, (*CPU).cmp},
	{"CMP", ABS, 0xcd, (*CPU).cmp},
	{"CMP", ABX, 0xdd, (*CPU).cmp},
	{"CMP", ABY, 0xd9, (*CPU).cmp},
	{"CMP", IDX, 0xc1, (*CPU).cmp},
	{"CMP", IDY, 0xd1, (*CPU).cmp},

	{"CPX", IMM, 0xe0, (*CPU).cpx},
	{"CPX", ZPG, 0xe4, (*CPU).cpx},
	{"CPX", ABS, 0xec, (*CPU).cpx},

	{"CPY", IMM, 0xc0, (*CPU).cpy},
	{"CPY", ZPG, 0xc4, (*CPU).cpy},
	{"CPY", ABS, 0xcc, (*CPU).cpy},

	{"BIT", ZPG, 0x24, (*CPU).bit},
	{"BIT", ABS, 0x2c, (*CPU).bit},

	{"CLC", IMP, 0x18, (*CPU).clc},
	{"SEC", IMP, 0x38, (*CPU).sec},
	{"CLI", IMP, 0x58, (*CPU).cli},
	{"SEI", IMP, 0x78, (*CPU).sei},
	{"CLD", IMP, 0xd8, (*CPU).cld},
	{"SED", IMP, 0xf8, (*CPU).sed},
	{"CLV", IMP, 0xb8, (*CPU).clv},

	{"BCC", REL, 0x90, (*CPU).bcc},
	{"BCS", REL, 0xb0, (*CPU).bcs},
	{"BEQ", REL, 0xf0, (*CPU).beq},
	{"BNE", REL, 0xd0, (*CPU).bne},
	{"BMI", REL, 0x30, (*CPU).bmi},
	{"BPL", REL, 0x10, (*CPU).bpl},
	{"BVC", REL, 0x50, (*CPU).bvc},
	{"BVS", REL, 0x70, (*CPU).bvs},

	{"BRK", IMP, 0x00, (*CPU).brk},

	{"AND", IMM, 0x29, (*CPU).and},
	{"AND", ZPG, 0x25, (*CPU).and},
	{"AND", ZPX, 0x35, (*CPU).and},
	{"AND", ABS, 0x2d, (*CPU).and},
	{"AND", ABX, 0x3d, (*CPU).and},
	{"AND", ABY, 0x39, (*CPU).and},
	{"AND", IDX, 0x21, (*CPU).and},
	{"AND", IDY, 0x31, (*CPU).and},

	{"ORA", IMM, 0x09, (*CPU).ora},
	{"ORA", ZPG, 0x05, (*CPU).ora},
	{"ORA", ZPX, 0x15, (*CPU).ora},
	{"ORA", ABS, 0x0d, (*CPU).ora},
	{"ORA", ABX, 0x1d, (*CPU).ora},
	{"ORA", ABY, 0x19, (*CPU).ora},
	{"ORA", IDX, 0x01, (*CPU).ora},
	{"ORA", IDY, 0x11, (*CPU).ora},

	{"EOR", IMM, 0x49, (*CPU).eor},
	{"EOR", ZPG, 0x45, (*CPU).eor},
	{"EOR", ZPX, 0x55, (*CPU).eor},
	{"EOR", ABS, 0x4d, (*CPU).eor},
	{"EOR", ABX, 0x5d, (*CPU).eor},
	{"EOR", ABY, 0x59, (*CPU).eor},
	{"EOR", IDX, 0x41, (*CPU).eor},
	{"EOR", IDY, 0x51, (*CPU).eor},

	{"INC", ZPG, 0xe6, (*CPU).inc},
	{"INC", ZPX, 0xf6, (*CPU).inc},
	{"INC", ABS, 0xee, (*CPU).inc},
	{"INC", ABX, 0xfe, (*CPU).inc},

	{"DEC", ZPG, 0xc6, (*CPU).dec},
	{"DEC", ZPX, 0xd6, (*CPU).dec},
	{"DEC", ABS, 0xce, (*CPU).dec},
	{"DEC", ABX, 0xde, (*CPU).dec},

	{"INX", IMP, 0xe8, (*CPU).inx},
	{"INY", IMP, 0xc8, (*CPU).iny},

	{"DEX", IMP, 0xca, (*CPU).dex},
	{"DEY", IMP, 0x88, (*CPU).dey},

	{"JMP", ABS, 0x4c, (*CPU).jmp},
	{"JMP", IND, 0x6c, (*CPU).jmp},

	{"JSR", ABS, 0x20, (*CPU).jsr},
	{"RTS", IMP, 0x60, (*CPU).rts},

	{"RTI", IMP, 0x40, (*CPU).rti},

	{"NOP", IMP, 0xea, (*CPU).nop},

	{"TAX", IMP, 0xaa, (*CPU).tax},
	{"TXA", IMP, 0x8a, (*CPU).txa},
	{"TAY", IMP, 0xa8, (*CPU).tay},
	{"TYA", IMP, 0x98, (*CPU).tya},
	{"TXS", IMP, 0x9a, (*CPU).txs},
	{"TSX", IMP, 0xba, (*CPU).tsx},

	{"PHA", IMP, 0x48, (*CPU).pha},
	{"PLA", IMP, 0x68, (*CPU).pla},
	{"PHP", IMP, 0x08, (*CPU).php},
	{"PLP", IMP, 0x28, (*CPU).plp},

	{"ASL", ACC, 0x0a, (*CPU).asl},
	{"ASL", ZPG, 0x06, (*CPU).asl},
	{"ASL", ZPX, 0x16, (*CPU).asl},
	{"ASL", ABS, 0x0e, (*CPU).asl},
	{"ASL", ABX, 0x1e, (*CPU).asl},

	{"LSR", ACC, 0x4a, (*CPU).lsr},
	{"LSR", ZPG, 0x46, (*CPU).lsr},
	{"LSR", ZPX, 0x56, (*CPU).lsr},
	{"LSR", ABS, 0x4e, (*CPU).lsr},
	{"LSR", ABX, 0x5e, (*CPU).lsr},

	{"ROL", ACC, 0x2a, (*CPU).rol},
	{"ROL", ZPG, 0x26, (*CPU).rol},
	{"ROL", ZPX, 0x36, (*CPU).rol},
	{"ROL", ABS, 0x2e, (*CPU).rol},
	{"ROL", ABX, 0x3e, (*CPU).rol},

	{"ROR", ACC, 0x6a, (*CPU).ror},
	{"ROR", ZPG, 0x66, (*CPU).ror},
	{"ROR", ZPX, 0x76, (*CPU).ror},
	{"ROR", ABS, 0x6e, (*CPU).ror},
	{"ROR", ABX, 0x7e, (*CPU).ror},
}

// An Instruction describes a CPU instruction, including its name, its
// addressing mode, its opcode value and its operand size. An Instruction
// with a nil implementation describes an unimplemented opcode.
type Instruction struct {
	Name   string   // all-caps name of the instruction
	Mode   Mode     // addressing mode
	Opcode byte     // hexadecimal opcode value
	Length byte     // combined size of opcode and operand, in bytes
	fn     instfunc // emulator implementation of the function
}

// Implemented returns true if the CPU knows how to execute the
// instruction.
func (inst *Instruction) Implemented() bool {
	return inst.fn != nil
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU, indexed by opcode.
type InstructionSet struct {
	instructions [256]Instruction          // all instructions by opcode
	variants     map[string][]*Instruction // variants of each instruction
}

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// Variants returns all CPU instructions whose name matches the provided
// string.
func (s *InstructionSet) Variants(name string) []*Instruction {
	return s.variants[strings.ToUpper(name)]
}

const unusedName = "???"

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{
		variants: make(map[string][]*Instruction),
	}

	for i := range set.instructions {
		set.instructions[i] = Instruction{
			Name:   unusedName,
			Mode:   IMP,
			Opcode: byte(i),
			Length: 1,
		}
	}

	for _, d := range data {
		inst := &set.instructions[d.opcode]
		if inst.fn != nil {
			panic("duplicate opcode")
		}
		inst.Name = d.name
		inst.Mode = d.mode
		inst.Length = d.mode.Length()
		inst.fn = d.fn
		set.variants[inst.Name] = append(set.variants[inst.Name], inst)
	}
	return set
}

var instructionSet = newInstructionSet()

// GetInstructionSet returns the NMOS 6502 instruction set.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}
