// Package ritetest builds RITE images for tests.
package ritetest

import "encoding/binary"

// Builder appends big-endian fields to an image under construction.
type Builder struct {
	buf []byte
}

// Bytes returns the image built so far.
func (b *Builder) Bytes() []byte { return b.buf }

// Len returns the number of bytes written.
func (b *Builder) Len() int { return len(b.buf) }

func (b *Builder) U8(v uint8) *Builder {
	b.buf = append(b.buf, v)
	return b
}

func (b *Builder) U16(v uint16) *Builder {
	b.buf = binary.BigEndian.AppendUint16(b.buf, v)
	return b
}

func (b *Builder) U32(v uint32) *Builder {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
	return b
}

func (b *Builder) Raw(s string) *Builder {
	b.buf = append(b.buf, s...)
	return b
}

// Header writes a binary header.
func (b *Builder) Header(ident, version string, crc uint16, size uint32, name, compilerVersion string) *Builder {
	return b.Raw(ident).Raw(version).U16(crc).U32(size).Raw(name).Raw(compilerVersion)
}

// DefaultHeader writes the header used across tests.
func (b *Builder) DefaultHeader() *Builder {
	return b.Header("RITE", "0003", 0x1234, 128, "MATZ", "0000")
}

// Section writes a section tag and declared size.
func (b *Builder) Section(tag string, size uint32) *Builder {
	return b.Raw(tag).U32(size)
}

// End writes the END section.
func (b *Builder) End() *Builder {
	return b.Section("END\x00", 8)
}

// Pool is a literal for Irep.
type Pool struct {
	Type  uint8
	Value string
}

// Irep describes a code block to serialize.
type Irep struct {
	RecordSize uint32
	NLocals    uint16
	NRegs      uint16
	ISeq       []uint32
	Pool       []Pool
	Syms       []string // NullSym marks an unnamed slot
	Children   []Irep
	// RLen overrides len(Children) when non-zero.
	RLen uint16
}

// NullSym stands for a symbol slot written with length 0xffff.
const NullSym = "\xff\xffnull"

// Irep writes ir and its children depth first.
func (b *Builder) Irep(ir Irep) *Builder {
	rlen := ir.RLen
	if rlen == 0 {
		rlen = uint16(len(ir.Children))
	}
	b.U32(ir.RecordSize).U16(ir.NLocals).U16(ir.NRegs).U16(rlen)
	b.U32(uint32(len(ir.ISeq)))
	for _, w := range ir.ISeq {
		b.U32(w)
	}
	b.U32(uint32(len(ir.Pool)))
	for _, p := range ir.Pool {
		b.U8(p.Type).U16(uint16(len(p.Value))).Raw(p.Value)
	}
	b.U32(uint32(len(ir.Syms)))
	for _, s := range ir.Syms {
		if s == NullSym {
			b.U16(0xffff)
			continue
		}
		b.U16(uint16(len(s))).Raw(s).U8(0)
	}
	for _, c := range ir.Children {
		b.Irep(c)
	}
	return b
}

// IrepSection writes an IREP section holding root.
func (b *Builder) IrepSection(version string, root Irep) *Builder {
	return b.Section("IREP", 0).Raw(version).Irep(root)
}

// Word assembles an instruction word from its fields.
func Word(op, a, bField, c uint32) uint32 {
	return (a&0x1ff)<<23 | (bField&0x1ff)<<14 | (c&0x7f)<<7 | op&0x7f
}

// WordBx assembles an instruction word with a 16 bit Bx operand.
func WordBx(op, a, bx uint32) uint32 {
	return (a&0x1ff)<<23 | (bx&0xffff)<<7 | op&0x7f
}

// WordSBx assembles an instruction word with a signed sBx operand.
func WordSBx(op, a uint32, sbx int) uint32 {
	return WordBx(op, a, uint32(sbx+0x7fff))
}
