// Package disk implements the two-pass disk back-end: rows stream to an
// append-only table file as they're produced, subtree sizes that aren't
// known yet are recorded to a temporary patch file, and a second pass
// replays that file against the closed table with random-access writes.
package disk

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	xmlbuild "github.com/basex-go/xmlbuild"
	"github.com/basex-go/xmlbuild/internal/compress"
	"github.com/basex-go/xmlbuild/internal/sink"
)

var _ xmlbuild.Backend = (*DiskBuilder)(nil)

var log *zap.Logger = zap.NewNop()

// SetLogger installs l as the package's debug logger. By default the
// package logs nothing; tests and hosts that want to see abort-path
// diagnostics call this once at startup.
func SetLogger(l *zap.Logger) { log = l }

const (
	tableFile = "data.tbl"
	textFile  = "data.txt"
	valueFile = "data.atv"
	tmpFile   = "data.tmp"
)

// Options configures a DiskBuilder.
type Options struct {
	// Dir is the directory the builder writes its output files into. It
	// must already exist.
	Dir string
	// FreeHeap bounds the side-file buffer sizes via sink.BufferSize; 0
	// disables the heap-based cap (only the 4MiB ceiling applies).
	FreeHeap int64
}

// DiskBuilder is the xmlbuild.Backend that writes a table file, a text
// side file, an attribute-value side file, and a temporary size-patch
// file to disk.
type DiskBuilder struct {
	opts Options

	tableF *os.File
	table  *sink.Sink

	textF *os.File
	text  *sink.Sink
	txOff int64

	valueF *os.File
	value  *sink.Sink
	valOff int64

	tmpF *os.File
	tmp  *sink.Sink
}

// NewDiskBuilder creates (truncating any existing contents) and opens
// the table, text and temp files under opts.Dir.
func NewDiskBuilder(opts Options) (*DiskBuilder, error) {
	d := &DiskBuilder{opts: opts}

	tableF, err := os.Create(filepath.Join(opts.Dir, tableFile))
	if err != nil {
		return nil, err
	}
	d.tableF = tableF
	d.table, err = sink.New(tableF, sink.BlockSize)
	if err != nil {
		return nil, err
	}

	textF, err := os.Create(filepath.Join(opts.Dir, textFile))
	if err != nil {
		d.Abort()
		return nil, err
	}
	d.textF = textF
	d.text, err = sink.New(textF, sink.BufferSize(1<<20, opts.FreeHeap))
	if err != nil {
		d.Abort()
		return nil, err
	}

	valueF, err := os.Create(filepath.Join(opts.Dir, valueFile))
	if err != nil {
		d.Abort()
		return nil, err
	}
	d.valueF = valueF
	d.value, err = sink.New(valueF, sink.BufferSize(1<<20, opts.FreeHeap))
	if err != nil {
		d.Abort()
		return nil, err
	}

	tmpF, err := os.Create(filepath.Join(opts.Dir, tmpFile))
	if err != nil {
		d.Abort()
		return nil, err
	}
	d.tmpF = tmpF
	d.tmp, err = sink.New(tmpF, sink.BlockSize)
	if err != nil {
		d.Abort()
		return nil, err
	}

	return d, nil
}

func (d *DiskBuilder) writeRow(buf xmlbuild.Row) error {
	return d.table.WriteBytes(buf[:])
}

// AddDoc implements xmlbuild.Backend.
func (d *DiskBuilder) AddDoc(pre int32, nameRef uint64) error {
	var buf xmlbuild.Row
	xmlbuild.EncodeDoc(buf[:], nameRef, pre)
	return d.writeRow(buf)
}

// AddElem implements xmlbuild.Backend.
func (d *DiskBuilder) AddElem(pre int32, nameID int32, ne bool, uriID int32, asize int, dist int32) error {
	var buf xmlbuild.Row
	xmlbuild.EncodeElem(buf[:], asize, nameID, ne, uriID, dist, int32(asize), pre)
	return d.writeRow(buf)
}

// AddAttr implements xmlbuild.Backend.
func (d *DiskBuilder) AddAttr(pre int32, nameID int32, valueRef uint64, uriID int32, dist int32) error {
	var buf xmlbuild.Row
	xmlbuild.EncodeAttr(buf[:], dist, nameID, valueRef, uriID, pre)
	return d.writeRow(buf)
}

// AddText implements xmlbuild.Backend.
func (d *DiskBuilder) AddText(pre int32, kind byte, textRef uint64, dist int32) error {
	var buf xmlbuild.Row
	xmlbuild.EncodeText(buf[:], kind, textRef, dist, pre)
	return d.writeRow(buf)
}

// SetSize implements xmlbuild.Backend. The table file is append-only
// while the build runs, so the patch is deferred: (pre, size) is
// recorded to the temp file and applied in PatchProgress's second pass
// at Close.
func (d *DiskBuilder) SetSize(pre int32, size int32) error {
	if err := d.tmp.WriteNum(uint32(pre)); err != nil {
		return err
	}
	return d.tmp.WriteNum(uint32(size))
}

// InternToken implements xmlbuild.Backend. isText selects which side
// file the token is written to: the text file (document names, element
// text, comments, PIs) or the attribute-value file.
func (d *DiskBuilder) InternToken(tok []byte, isText bool) (uint64, error) {
	packed, compressed := compress.Pack(tok)
	if isText {
		off := d.txOff
		n, err := d.text.WriteToken(packed)
		if err != nil {
			return 0, err
		}
		d.txOff += int64(n)
		return xmlbuild.PackOffset(off, compressed), nil
	}
	off := d.valOff
	n, err := d.value.WriteToken(packed)
	if err != nil {
		return 0, err
	}
	d.valOff += int64(n)
	return xmlbuild.PackOffset(off, compressed), nil
}

// Close flushes the table and text files, then replays the temp patch
// file against the table with random-access writes (PatchProgress).
func (d *DiskBuilder) Close(ctx context.Context) error {
	if err := d.table.Close(); err != nil {
		return err
	}
	if err := d.text.Close(); err != nil {
		return err
	}
	if err := d.value.Close(); err != nil {
		return err
	}
	if err := d.tmp.Close(); err != nil {
		return err
	}
	if err := d.PatchProgress(ctx); err != nil {
		return err
	}
	return os.Remove(filepath.Join(d.opts.Dir, tmpFile))
}

// PatchProgress is the disk back-end's second pass: it streams
// (pre, size) pairs out of the temp file and applies each as a
// random-access patch to the table's size field.
func (d *DiskBuilder) PatchProgress(ctx context.Context) error {
	tmpF, err := os.Open(filepath.Join(d.opts.Dir, tmpFile))
	if err != nil {
		return err
	}
	defer tmpF.Close()
	r := sink.NewReader(tmpF)

	ta, err := sink.NewTableAccess(filepath.Join(d.opts.Dir, tableFile))
	if err != nil {
		return err
	}
	defer ta.Close()

	const sizeOffset = 8
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pre, err := r.ReadNum()
		if err != nil {
			break
		}
		size, err := r.ReadNum()
		if err != nil {
			break
		}
		if err := ta.Write4(int32(pre), sizeOffset, size); err != nil {
			return err
		}
	}
	return nil
}

// Abort removes every file the builder has created, best-effort.
func (d *DiskBuilder) Abort() {
	d.abortFile(d.tableF, tableFile)
	d.abortFile(d.textF, textFile)
	d.abortFile(d.valueF, valueFile)
	d.abortFile(d.tmpF, tmpFile)
}

func (d *DiskBuilder) abortFile(f *os.File, name string) {
	if f != nil {
		f.Close()
	}
	if err := os.Remove(filepath.Join(d.opts.Dir, name)); err != nil && !os.IsNotExist(err) {
		log.Debug("disk builder abort: remove failed", zap.String("file", name), zap.Error(err))
	}
}
