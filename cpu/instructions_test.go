// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/step6502/go6502/cpu"
)

func TestInstructionSet(t *testing.T) {
	assert := assert.New(t)

	set := cpu.GetInstructionSet()

	implemented := 0
	for i := 0; i < 256; i++ {
		inst := set.Lookup(byte(i))
		assert.Equal(byte(i), inst.Opcode)
		if inst.Implemented() {
			implemented++
			assert.Equal(inst.Mode.Length(), inst.Length, "opcode $%02X", i)
		} else {
			assert.Equal("???", inst.Name)
			assert.Equal(byte(1), inst.Length)
		}
	}
	assert.Equal(151, implemented)

	lda := set.Lookup(0xa9)
	assert.Equal("LDA", lda.Name)
	assert.Equal(cpu.IMM, lda.Mode)
	assert.Equal(byte(2), lda.Length)

	assert.Len(set.Variants("lda"), 8)
	assert.Len(set.Variants("JMP"), 2)
	assert.Len(set.Variants("BRK"), 1)
	assert.Empty(set.Variants("XYZ"))

	for _, op := range []byte{0x02, 0x03, 0x1a, 0x80, 0xff} {
		assert.False(set.Lookup(op).Implemented(), "opcode $%02X", op)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "IDY", cpu.IDY.String())
	assert.Equal(t, byte(3), cpu.IND.Length())
	assert.Equal(t, byte(1), cpu.ACC.Length())
}
