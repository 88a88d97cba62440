package document

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/terrascape/internal/terrain"
)

// Snapshot format: zstd stream over a small header (magic, vertex grid
// dimensions) followed by one packed uint32 per vertex, little endian.
// Snapshots carry the derived flattened cache only; layers and documents
// persist elsewhere.
const snapshotMagic = 0x54534331 // "TSC1"

// WriteSnapshot writes a flattened cache as a compressed snapshot.
func WriteSnapshot(w io.Writer, width, height int, entries []terrain.Entry) error {
	if width*height != len(entries) {
		return fmt.Errorf("snapshot dimensions %dx%d do not match %d entries", width, height, len(entries))
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	header := [3]uint32{snapshotMagic, uint32(width), uint32(height)}
	if err := binary.Write(zw, binary.LittleEndian, header[:]); err != nil {
		zw.Close()
		return fmt.Errorf("writing snapshot header: %w", err)
	}

	buf := make([]byte, 4*4096)
	for off := 0; off < len(entries); {
		n := 0
		for n < len(buf) && off < len(entries) {
			binary.LittleEndian.PutUint32(buf[n:], entries[off].Pack())
			n += 4
			off++
		}
		if _, err := zw.Write(buf[:n]); err != nil {
			zw.Close()
			return fmt.Errorf("writing snapshot entries: %w", err)
		}
	}
	return zw.Close()
}

// ReadSnapshot reads a snapshot back into entries plus its dimensions.
func ReadSnapshot(r io.Reader) (entries []terrain.Entry, width, height int, err error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer zr.Close()

	var header [3]uint32
	if err := binary.Read(zr, binary.LittleEndian, header[:]); err != nil {
		return nil, 0, 0, fmt.Errorf("reading snapshot header: %w", err)
	}
	if header[0] != snapshotMagic {
		return nil, 0, 0, fmt.Errorf("bad snapshot magic %#x", header[0])
	}
	width = int(header[1])
	height = int(header[2])
	if width < 1 || height < 1 || width*height > 1<<28 {
		return nil, 0, 0, fmt.Errorf("unreasonable snapshot dimensions %dx%d", width, height)
	}

	entries = make([]terrain.Entry, width*height)
	buf := make([]byte, 4)
	for i := range entries {
		if _, err := io.ReadFull(zr, buf); err != nil {
			return nil, 0, 0, fmt.Errorf("reading snapshot entry %d: %w", i, err)
		}
		entries[i] = terrain.UnpackEntry(binary.LittleEndian.Uint32(buf))
	}
	return entries, width, height, nil
}

// ExportCache writes the document's current flattened cache as a snapshot.
func (d *Document) ExportCache(w io.Writer) error {
	d.mu.RLock()
	entries := make([]terrain.Entry, len(d.cache))
	copy(entries, d.cache)
	width := d.info.WidthInVertices()
	height := d.info.HeightInVertices()
	d.mu.RUnlock()

	return WriteSnapshot(w, width, height, entries)
}
