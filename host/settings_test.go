// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings(t *testing.T) {
	assert := assert.New(t)

	s := newSettings()
	assert.True(s.TrapBrk)
	assert.Equal(64, s.MemDumpBytes)

	assert.NoError(s.Set("hex", true))
	assert.True(s.HexMode)

	assert.NoError(s.Set("memdump", int64(32)))
	assert.Equal(32, s.MemDumpBytes)

	assert.NoError(s.Set("NextDisasmAddr", int64(0x1234)))
	assert.Equal(uint16(0x1234), s.NextDisasmAddr)

	assert.ErrorIs(s.Set("hexmode", int64(1)), errInvalidType)
	assert.ErrorIs(s.Set("disasmlines", true), errInvalidType)

	// Ambiguous and unknown prefixes.
	assert.Error(s.Set("max", int64(1)))
	assert.Error(s.Set("bogus", int64(1)))

	assert.Equal(reflect.Bool, s.Kind("trap"))
	assert.Equal(reflect.Int, s.Kind("maxstep"))
	assert.Equal(reflect.Uint16, s.Kind("nextmem"))
	assert.Equal(reflect.Invalid, s.Kind("next"))
}

func TestSettingsDisplay(t *testing.T) {
	s := newSettings()
	s.NextMemDumpAddr = 0xc000

	var buf bytes.Buffer
	s.Display(&buf)

	out := buf.String()
	assert.Contains(t, out, "HexMode")
	assert.Contains(t, out, "$C000")
	assert.Contains(t, out, "(stop execution at BRK instructions)")
}
