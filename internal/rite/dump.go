package rite

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
)

// Section tags.
const (
	TagIREP = "IREP"
	TagLINE = "LINE"
	TagDBG  = "DBG\x00"
	TagEND  = "END\x00"
)

// sectionHeaderSize is the tag plus the size field; declared section sizes
// include it.
const sectionHeaderSize = 8

// DefaultMaxDepth bounds IREP nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 64

// Options configures Parse.
type Options struct {
	// MaxDepth bounds IREP nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// Strict turns unsupported debug line encodings and unknown sections
	// into fatal errors instead of warnings.
	Strict bool

	// Logger receives decoder diagnostics. Nil discards them.
	Logger *log.Logger

	// Sink receives every decode event. May be nil.
	Sink Sink
}

// Header is the fixed binary header.
type Header struct {
	Ident           string
	Version         string
	CRC             uint16
	Size            uint32
	CompilerName    string
	CompilerVersion string
}

// Section is the summary of one top level section.
type Section struct {
	Tag    string
	Size   uint32
	Offset int
}

// Name returns the tag without NUL padding.
func (s Section) Name() string { return displayTag(s.Tag) }

// Dump is the result of decoding an image.
type Dump struct {
	Header      Header
	RiteVersion string
	Program     *CodeBlock
	Sections    []Section
	Files       []string // filename table of the last DBG section
	Warnings    []error
}

// Err returns the warnings as one error, or nil when there are none.
func (d *Dump) Err() error {
	var result *multierror.Error
	for _, w := range d.Warnings {
		result = multierror.Append(result, w)
	}
	return result.ErrorOrNil()
}

// Blocks returns every block of the program, depth first.
func (d *Dump) Blocks() []*CodeBlock {
	if d.Program == nil {
		return nil
	}
	return appendBlocks(make([]*CodeBlock, 0, d.Program.Count()), d.Program)
}

func appendBlocks(blocks []*CodeBlock, b *CodeBlock) []*CodeBlock {
	blocks = append(blocks, b)
	for _, c := range b.Children {
		blocks = appendBlocks(blocks, c)
	}
	return blocks
}

type decoder struct {
	r        *Reader
	dump     *Dump
	sink     Sink
	log      *log.Logger
	strict   bool
	maxDepth int
}

// Parse decodes a complete image. Events are delivered to opts.Sink while
// decoding; on a fatal error the events already delivered are the only
// partial result.
func Parse(data []byte, opts Options) (*Dump, error) {
	d := newDecoder(data, opts)
	if err := d.readHeader(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := d.readSections(); err != nil {
		return nil, err
	}
	return d.dump, nil
}

func newDecoder(data []byte, opts Options) *decoder {
	d := &decoder{
		r:        NewReader(data),
		dump:     &Dump{},
		sink:     opts.Sink,
		log:      opts.Logger,
		strict:   opts.Strict,
		maxDepth: opts.MaxDepth,
	}
	if d.log == nil {
		d.log = log.New(io.Discard)
	}
	if d.maxDepth <= 0 {
		d.maxDepth = DefaultMaxDepth
	}
	return d
}

func (d *decoder) emit(e Event) {
	if d.sink != nil {
		d.sink(e)
	}
}

func (d *decoder) warn(err error) {
	d.dump.Warnings = append(d.dump.Warnings, err)
	d.log.Warn(err.Error())
	d.emit(WarningEvent{Offset: d.r.Pos(), Err: err})
}

func (d *decoder) readHeader() error {
	r := d.r
	h := &d.dump.Header
	var err error
	if h.Ident, err = r.String(4); err != nil {
		return err
	}
	if h.Version, err = r.String(4); err != nil {
		return err
	}
	if h.CRC, err = r.U16(); err != nil {
		return err
	}
	if h.Size, err = r.U32(); err != nil {
		return err
	}
	if h.CompilerName, err = r.String(4); err != nil {
		return err
	}
	if h.CompilerVersion, err = r.String(4); err != nil {
		return err
	}
	if h.Ident != "RITE" {
		d.log.Warn("unexpected binary identifier", "ident", h.Ident)
	}
	d.emit(HeaderEvent{Offset: 0, Header: *h})
	return nil
}

// readSections runs the section loop until the END tag.
func (d *decoder) readSections() error {
	r := d.r
	for nsec := 1; ; nsec++ {
		off := r.Pos()
		tag, err := r.String(4)
		if err != nil {
			return fmt.Errorf("section #%d: reading tag: %w", nsec, err)
		}
		if tag == TagEND {
			var size uint32
			if r.Len() >= 4 {
				size, _ = r.U32()
			}
			d.dump.Sections = append(d.dump.Sections, Section{Tag: tag, Size: size, Offset: off})
			d.emit(EndEvent{Offset: off, Number: nsec, Size: size})
			d.log.Debug("end of image", "offset", off, "trailing", r.Len())
			return nil
		}

		size, err := r.U32()
		if err != nil {
			return fmt.Errorf("section #%d: reading size: %w", nsec, err)
		}
		sec := Section{Tag: tag, Size: size, Offset: off}
		d.dump.Sections = append(d.dump.Sections, sec)
		d.emit(SectionEvent{Offset: off, Number: nsec, Section: sec})
		d.log.Debug("section", "number", nsec, "tag", sec.Name(), "size", size, "offset", off)

		if err := d.readSection(sec); err != nil {
			return fmt.Errorf("section #%d (%s): %w", nsec, sec.Name(), err)
		}
		d.emit(SectionEndEvent{Offset: r.Pos(), Number: nsec, Section: sec})
	}
}

func (d *decoder) readSection(sec Section) error {
	switch sec.Tag {
	case TagIREP:
		return d.readIrepSection()
	case TagLINE:
		return d.readLineSection(sec)
	case TagDBG:
		return d.readDebugSection()
	}
	return d.skipUnknown(sec)
}

func (d *decoder) readIrepSection() error {
	off := d.r.Pos()
	version, err := d.r.String(4)
	if err != nil {
		return err
	}
	d.dump.RiteVersion = version
	d.emit(RiteVersionEvent{Offset: off, Version: version})

	program, err := d.readIrep(0, 0)
	if err != nil {
		return err
	}
	d.dump.Program = program
	return nil
}

// readLineSection consumes a legacy LINE section. It has no structural
// effect; records are reported and then dropped.
func (d *decoder) readLineSection(sec Section) error {
	if d.dump.Program == nil {
		return ErrNoProgram
	}
	r := d.r
	n := int(d.dump.Program.RLen) + 1
	for i := 0; i < n; i++ {
		off := r.Pos()
		length, err := r.U32()
		if err != nil {
			return err
		}
		fl, err := r.U16()
		if err != nil {
			return err
		}
		fname, err := r.String(int(fl))
		if err != nil {
			return err
		}
		niseq, err := r.U32()
		if err != nil {
			return err
		}
		lines := make([]uint16, 0, capacity(niseq, 2, r.Len()))
		for j := 0; j < int(niseq); j++ {
			line, err := r.U16()
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}
		d.emit(LineRecordEvent{Offset: off, Index: i, Length: length, Filename: fname, Lines: lines})
	}

	end := int64(sec.Offset) + int64(sec.Size)
	switch pos := int64(r.Pos()); {
	case end > pos:
		return r.Skip(int(end - pos))
	case end < pos:
		d.warn(&RecordSizeError{What: "LINE section", Offset: sec.Offset, Declared: sec.Size, Consumed: int(pos) - sec.Offset})
	}
	return nil
}

func (d *decoder) readDebugSection() error {
	if d.dump.Program == nil {
		return ErrNoProgram
	}
	files, err := d.readFileTable()
	if err != nil {
		return err
	}
	d.dump.Files = files
	return d.readDebug(d.dump.Program, files)
}

// skipUnknown steps over an unrecognized section using its declared size.
func (d *decoder) skipUnknown(sec Section) error {
	uerr := &UnknownSectionError{Tag: sec.Tag, Offset: sec.Offset, Size: sec.Size}
	if d.strict {
		return uerr
	}
	if sec.Size < sectionHeaderSize {
		return fmt.Errorf("%w: declared size below section header", uerr)
	}
	d.warn(uerr)
	if err := d.r.Skip(int(sec.Size - sectionHeaderSize)); err != nil {
		return errors.Join(uerr, err)
	}
	return nil
}
