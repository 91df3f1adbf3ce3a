package rite

import "strconv"

// LineType is the encoding tag of a debug line table.
type LineType uint8

const (
	LineArray   LineType = iota // one line number per instruction
	LineFlatMap                 // (start_pos, line) ranges
)

func (t LineType) String() string {
	switch t {
	case LineArray:
		return "array"
	case LineFlatMap:
		return "flat map"
	}
	return "type" + strconv.Itoa(int(t))
}

// LineRange maps instructions from Start onwards to Line.
type LineRange struct {
	Start uint32
	Line  uint16
}

// FileAssoc ties a run of instructions starting at Start to one source file
// of the section's filename table.
type FileAssoc struct {
	Start     uint32
	FileIndex uint16
	Filename  string // empty when FileIndex is out of range
	Count     uint32
	Type      LineType
	Lines     []uint16    // LineArray
	Map       []LineRange // LineFlatMap
}

// Line returns the source line of instruction pc, if the association
// covers it.
func (f FileAssoc) Line(pc int) (uint16, bool) {
	if pc < int(f.Start) {
		return 0, false
	}
	switch f.Type {
	case LineArray:
		i := pc - int(f.Start)
		if i < len(f.Lines) {
			return f.Lines[i], true
		}
	case LineFlatMap:
		var line uint16
		found := false
		for _, m := range f.Map {
			if int(m.Start) > pc {
				break
			}
			line, found = m.Line, true
		}
		return line, found
	}
	return 0, false
}

// DebugInfo is the debug record attached to one CodeBlock.
type DebugInfo struct {
	Offset     int
	RecordSize uint32
	Files      []FileAssoc
}

// Line returns the source file and line of instruction pc.
func (di *DebugInfo) Line(pc int) (string, uint16, bool) {
	if di == nil {
		return "", 0, false
	}
	for i := len(di.Files) - 1; i >= 0; i-- {
		f := di.Files[i]
		if line, ok := f.Line(pc); ok {
			return f.Filename, line, true
		}
	}
	return "", 0, false
}

// readFileTable reads the DBG section's filename table.
func (d *decoder) readFileTable() ([]string, error) {
	r := d.r
	off := r.Pos()
	n, err := r.U16()
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, capacity(uint32(n), 2, r.Len()))
	for i := 0; i < int(n); i++ {
		l, err := r.U16()
		if err != nil {
			return nil, err
		}
		name, err := r.String(int(l))
		if err != nil {
			return nil, err
		}
		files = append(files, name)
	}
	d.emit(FileTableEvent{Offset: off, Files: files})
	return files, nil
}

// readDebug reads b's debug record, attaches it and continues with b's
// children. Records follow the same depth first order as the blocks.
func (d *decoder) readDebug(b *CodeBlock, files []string) error {
	r := d.r
	start := r.Pos()
	size, err := r.U32()
	if err != nil {
		return err
	}
	n, err := r.U16()
	if err != nil {
		return err
	}
	d.emit(DebugRecordEvent{Offset: start, Depth: b.Depth, RecordSize: size, Count: int(n)})

	info := &DebugInfo{Offset: start, RecordSize: size}
	for i := 0; i < int(n); i++ {
		f, ok, err := d.readFileAssoc(b, files, start, size)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		info.Files = append(info.Files, f)
	}
	b.Debug = info

	for _, c := range b.Children {
		if err := d.readDebug(c, files); err != nil {
			return err
		}
	}
	return nil
}

// readFileAssoc reads one file association. ok is false when the line table
// encoding is unknown and the cursor was moved to the end of the record.
func (d *decoder) readFileAssoc(b *CodeBlock, files []string, start int, size uint32) (FileAssoc, bool, error) {
	r := d.r
	off := r.Pos()
	var f FileAssoc
	var err error
	if f.Start, err = r.U32(); err != nil {
		return f, false, err
	}
	if f.FileIndex, err = r.U16(); err != nil {
		return f, false, err
	}
	if int(f.FileIndex) < len(files) {
		f.Filename = files[f.FileIndex]
	} else {
		d.warn(&FileIndexError{Index: f.FileIndex, Files: len(files), Offset: off + 4})
	}
	if f.Count, err = r.U32(); err != nil {
		return f, false, err
	}
	typOff := r.Pos()
	typ, err := r.U8()
	if err != nil {
		return f, false, err
	}
	f.Type = LineType(typ)

	switch f.Type {
	case LineArray:
		f.Lines = make([]uint16, 0, capacity(f.Count, 2, r.Len()))
		for j := 0; j < int(f.Count); j++ {
			line, err := r.U16()
			if err != nil {
				return f, false, err
			}
			f.Lines = append(f.Lines, line)
		}
	case LineFlatMap:
		f.Map = make([]LineRange, 0, capacity(f.Count, 6, r.Len()))
		for j := 0; j < int(f.Count); j++ {
			var m LineRange
			if m.Start, err = r.U32(); err != nil {
				return f, false, err
			}
			if m.Line, err = r.U16(); err != nil {
				return f, false, err
			}
			f.Map = append(f.Map, m)
		}
	default:
		uerr := &UnsupportedLineEncodingError{Type: typ, Offset: typOff}
		if d.strict {
			return f, false, uerr
		}
		d.warn(uerr)
		if err := d.realign("debug record", start, size); err != nil {
			return f, false, err
		}
		return f, false, nil
	}

	d.emit(DebugFileEvent{Offset: off, Depth: b.Depth, Assoc: f})
	return f, true, nil
}

// realign moves the cursor to start+size, the end of a record whose body
// could not be decoded.
func (d *decoder) realign(what string, start int, size uint32) error {
	consumed := d.r.Pos() - start
	if int64(size) < int64(consumed) {
		return &RecordSizeError{What: what, Offset: start, Declared: size, Consumed: consumed}
	}
	return d.r.Skip(int(int64(size) - int64(consumed)))
}
