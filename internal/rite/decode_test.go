package rite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrbdump/internal/rite/ritetest"
)

func TestFields(t *testing.T) {
	o := Fields(0xffffffff, 4, 2)
	assert.Equal(t, Opcode(0x7f), o.Op)
	assert.Equal(t, 0x1ff, o.A)
	assert.Equal(t, 0x1ff, o.B)
	assert.Equal(t, 0x7f, o.C)
	assert.Equal(t, 0xffff, o.Bx)
	assert.Equal(t, 0x8000, o.SBx)
	assert.Equal(t, 0x3fff, o.Lb)
	assert.Equal(t, 3, o.Lc)
	assert.Equal(t, 4, o.PC)
	assert.Equal(t, 2, o.Block)

	o = Fields(ritetest.Word(1, 3, 5, 7), 0, 0)
	assert.Equal(t, OpMove, o.Op)
	assert.Equal(t, 3, o.A)
	assert.Equal(t, 5, o.B)
	assert.Equal(t, 7, o.C)
}

func TestDisasm(t *testing.T) {
	enter := uint32(1<<25 | 2<<20 | 1<<19 | 1<<7 | uint32(OpEnter))
	argary := uint32(4<<23 | 3<<17 | 1<<16 | 2<<11 | 5<<7 | uint32(OpArgAry))
	lambda := uint32(1<<23 | 2<<9 | 1<<7 | uint32(OpLambda))

	tests := []struct {
		name  string
		word  uint32
		pc    int
		block int
		want  string
	}{
		{"nop", ritetest.Word(0, 0, 0, 0), 0, 0, "OP_NOP"},
		{"move", ritetest.Word(1, 3, 5, 0), 0, 0, "OP_MOVE\tR3\tR5"},
		{"loadl", ritetest.WordBx(2, 1, 7), 0, 0, "OP_LOADL\tR1\tL(7)"},
		{"loadi negative", ritetest.WordSBx(3, 2, -1), 0, 0, "OP_LOADI\tR2\t-1"},
		{"loadi positive", ritetest.WordSBx(3, 2, 300), 0, 0, "OP_LOADI\tR2\t300"},
		{"loadsym", ritetest.WordBx(4, 1, 9), 0, 0, "OP_LOADSYM\tR1\t:9"},
		{"loadnil", ritetest.Word(5, 6, 0, 0), 0, 0, "OP_LOADNIL\tR6"},
		{"setglobal", ritetest.WordBx(10, 2, 3), 0, 0, "OP_SETGLOBAL\t:3\tR2"},
		{"getupvar", ritetest.Word(21, 1, 2, 3), 0, 0, "OP_GETUPVAR\tR1\t2\t3"},
		{"jmp forward", ritetest.WordSBx(23, 0, 4), 3, 0, "OP_JMP\t\t007"},
		{"jmp backward", ritetest.WordSBx(23, 0, -3), 5, 0, "OP_JMP\t\t002"},
		{"jmp before start", ritetest.WordSBx(23, 0, -1), 0, 0, "OP_JMP\t\t-01"},
		{"jmpif", ritetest.WordSBx(24, 3, 2), 1, 0, "OP_JMPIF\tR3\t003"},
		{"jmpnot", ritetest.WordSBx(25, 3, 2), 10, 0, "OP_JMPNOT\tR3\t012"},
		{"onerr", ritetest.WordSBx(26, 0, 1), 1, 0, "OP_ONERR\t002"},
		{"poperr", ritetest.Word(28, 1, 0, 0), 0, 0, "OP_POPERR\t1"},
		{"epush", ritetest.WordBx(30, 0, 4), 0, 1, "OP_EPUSH\t:I(5)"},
		{"send", ritetest.Word(32, 1, 2, 1), 0, 0, "OP_SEND\tR1\t:2\t1"},
		{"super", ritetest.Word(36, 1, 0, 2), 0, 0, "OP_SUPER\tR1\t2"},
		{"argary", argary, 0, 0, "OP_ARGARY\tR4\t3:1:2:5"},
		{"enter", enter, 0, 0, "OP_ENTER\t1:2:1:0:0:0:1"},
		{"return", ritetest.Word(41, 1, 1, 0), 0, 0, "OP_RETURN\tR1 (1)"},
		{"add", ritetest.Word(44, 2, 0, 1), 0, 0, "OP_ADD\tR2\t:0\t1"},
		{"array", ritetest.Word(55, 1, 2, 3), 0, 0, "OP_ARRAY\tR1\tR2\t3"},
		{"string", ritetest.WordBx(61, 1, 2), 0, 3, "OP_STRING\tR1\t5"},
		{"lambda", lambda, 0, 0, "OP_LAMBDA\tR1\tI(2)\t1"},
		{"lambda offset", lambda, 0, 3, "OP_LAMBDA\tR1\tI(5)\t1"},
		{"class", ritetest.Word(67, 1, 4, 0), 0, 0, "OP_CLASS\tR1\t:4"},
		{"exec", ritetest.WordBx(69, 1, 0), 0, 0, "OP_EXEC\tR1\tI(0)"},
		{"stop", ritetest.Word(74, 0, 0, 0), 0, 0, "OP_STOP"},
		{"err", ritetest.WordBx(75, 0, 1), 0, 0, "OP_ERR\tL(1)"},
		{"unknown", ritetest.Word(100, 1, 2, 3), 0, 0, "OP_unknown 100\t1\t2\t3"},
		{"unknown max", ritetest.Word(127, 0, 0, 0), 0, 0, "OP_unknown 127\t0\t0\t0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Disasm(tt.word, tt.pc, tt.block))
		})
	}
}

func TestOpcodeTable(t *testing.T) {
	require.Equal(t, 76, NumOpcodes)

	seen := make(map[string]bool)
	for op := 0; op < NumOpcodes; op++ {
		name := Opcode(op).String()
		require.True(t, strings.HasPrefix(name, "OP_"), "opcode %d", op)
		assert.False(t, seen[name], "duplicate %s", name)
		seen[name] = true

		ins := Decode(ritetest.Word(uint32(op), 3, 5, 7), 0, 0)
		assert.Equal(t, Opcode(op), ins.Op)
		assert.True(t, strings.HasPrefix(ins.Text, name), "opcode %d renders %q", op, ins.Text)
	}

	for op := NumOpcodes; op < 128; op++ {
		assert.False(t, Opcode(op).Known())
		assert.Equal(t, RefNone, Opcode(op).Ref())
		assert.True(t, strings.HasPrefix(Disasm(uint32(op), 0, 0), "OP_unknown "))
	}
}

func TestDecodeIsPure(t *testing.T) {
	w := ritetest.WordSBx(23, 0, 2)
	first := Decode(w, 4, 1)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Decode(w, 4, 1))
	}
	assert.Equal(t, first.Text, Disasm(w, 4, 1))
	assert.Equal(t, Fields(w, 4, 1), first.Operands())
}

func TestOpcodeRefs(t *testing.T) {
	assert.Equal(t, RefPoolBx, OpLoadL.Ref())
	assert.Equal(t, RefSymBx, OpGetConst.Ref())
	assert.Equal(t, RefSymB, OpSend.Ref())
	assert.Equal(t, RefIrepB, OpLambda.Ref())
	assert.Equal(t, RefNone, OpMove.Ref())
	assert.Equal(t, LayoutAx, OpEnter.Layout())
	assert.Equal(t, LayoutABC, Opcode(99).Layout())
}
