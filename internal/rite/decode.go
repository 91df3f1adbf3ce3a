package rite

import "fmt"

const sBxBias = 0x7fff

// Operands holds every field the renderers may use, extracted from one
// instruction word, plus the index context of the instruction.
type Operands struct {
	Op  Opcode
	A   int // bits 23-31
	B   int // bits 14-22
	C   int // bits 7-13
	Bx  int // bits 7-22
	SBx int // Bx - 0x7fff
	Lb  int // lambda block index, bits 9-22
	Lc  int // lambda flags, bits 7-8

	PC    int // instruction index within its block
	Block int // block index among its siblings

	word uint32
}

// Fields extracts the operand fields of word. pc and block are carried for
// renderers that compute jump targets and child block references.
func Fields(word uint32, pc, block int) Operands {
	bx := int((word >> 7) & 0xffff)
	return Operands{
		Op:    Opcode(word & 0x7f),
		A:     int((word >> 23) & 0x1ff),
		B:     int((word >> 14) & 0x1ff),
		C:     int((word >> 7) & 0x7f),
		Bx:    bx,
		SBx:   bx - sBxBias,
		Lb:    int((word >> 9) & 0x3fff),
		Lc:    int((word >> 7) & 0x3),
		PC:    pc,
		Block: block,
		word:  word,
	}
}

// Target is the absolute instruction index of a relative jump.
func (o Operands) Target() int { return o.PC + o.SBx }

// Ax renders the OP_ENTER argument spec as
// req:opt:rest:post:key:kdict:block.
func (o Operands) Ax() string {
	x := o.word
	return fmt.Sprintf("%d:%d:%d:%d:%d:%d:%d",
		(x>>25)&0x1f, (x>>20)&0x1f, (x>>19)&0x1, (x>>14)&0x1f,
		(x>>9)&0x1f, (x>>8)&0x1, (x>>7)&0x1)
}

// Ba renders the OP_ARGARY/OP_BLKPUSH block argument spec as
// m1:r:m2:lv.
func (o Operands) Ba() string {
	x := o.word
	return fmt.Sprintf("%d:%d:%d:%d",
		(x>>17)&0x3f, (x>>16)&0x1, (x>>11)&0x1f, (x>>7)&0xf)
}

// Instruction is one decoded instruction word.
type Instruction struct {
	PC    int
	Block int
	Word  uint32
	Op    Opcode
	Text  string
}

// Decode renders word. It never fails: opcodes without a table entry use
// the generic OP_unknown form.
func Decode(word uint32, pc, block int) Instruction {
	o := Fields(word, pc, block)
	return Instruction{
		PC:    pc,
		Block: block,
		Word:  word,
		Op:    o.Op,
		Text:  render(o),
	}
}

// Disasm returns the mnemonic line for word.
func Disasm(word uint32, pc, block int) string {
	return render(Fields(word, pc, block))
}

func render(o Operands) string {
	if !o.Op.Known() {
		return renderUnknown(o)
	}
	return opcodes[o.Op].render(o)
}

// Operands returns the fields of ins.
func (ins Instruction) Operands() Operands {
	return Fields(ins.Word, ins.PC, ins.Block)
}
