package audio_ape

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// An APE tag sits at the end of the file: a list of items followed by a
// 32-byte footer, optionally behind a trailing ID3v1 block. Both APEv1
// (version 1000) and APEv2 (version 2000) share the item layout.
const (
	preamble   = "APETAGEX"
	footerSize = 32
	id3v1Size  = 128

	versionMin = 1000
	versionMax = 2000

	// item content type, bits 1-2 of the item flags
	itemTypeText = 0

	maxTagSize = 16 * 1024 * 1024
)

// Item is one key/value entry of an APE tag.
type Item struct {
	Key   string
	Flags uint32
	Value []byte
}

// IsText reports whether the item carries UTF-8 text (as opposed to
// binary or external-reference content).
func (it Item) IsText() bool {
	return (it.Flags>>1)&0x3 == itemTypeText
}

// Values splits a text item into its NUL-separated list entries.
func (it Item) Values() []string {
	if len(it.Value) == 0 {
		return nil
	}
	parts := bytes.Split(it.Value, []byte{0})
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) > 0 {
			values = append(values, string(p))
		}
	}
	return values
}

// ReadFile reads the APE tag of the file at path.
// A missing tag is not an error: the result is (nil, nil).
func ReadFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read locates and parses the APE tag at the end of r. The footer is
// first expected at EOF, then behind a trailing ID3v1 block.
func Read(r io.ReadSeeker) ([]Item, error) {
	items, found, err := readTagAt(r, footerSize)
	if err != nil || found {
		return items, err
	}
	items, _, err = readTagAt(r, footerSize+id3v1Size)
	return items, err
}

func readTagAt(r io.ReadSeeker, back int64) ([]Item, bool, error) {
	footerOff, err := r.Seek(-back, io.SeekEnd)
	if err != nil {
		// file too small to hold a footer at this position
		return nil, false, nil
	}

	footer := make([]byte, footerSize)
	if _, err := io.ReadFull(r, footer); err != nil {
		return nil, false, nil
	}
	if string(footer[:8]) != preamble {
		return nil, false, nil
	}

	version := binary.LittleEndian.Uint32(footer[8:12])
	tagSize := int64(binary.LittleEndian.Uint32(footer[12:16]))
	count := binary.LittleEndian.Uint32(footer[16:20])

	if version < versionMin || version > versionMax {
		return nil, false, nil
	}
	if tagSize < footerSize || tagSize > maxTagSize {
		return nil, true, fmt.Errorf("ape: implausible tag size %d", tagSize)
	}

	itemsSize := tagSize - footerSize
	if count == 0 || itemsSize == 0 {
		return nil, true, nil
	}

	itemsOff := footerOff + footerSize - tagSize
	if itemsOff < 0 {
		return nil, true, fmt.Errorf("ape: tag size %d exceeds file", tagSize)
	}
	if _, err := r.Seek(itemsOff, io.SeekStart); err != nil {
		return nil, true, err
	}
	data := make([]byte, itemsSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, true, fmt.Errorf("ape: truncated item area: %w", err)
	}

	items := make([]Item, 0, count)
	p := 0
	for i := uint32(0); i < count; i++ {
		if p+8 > len(data) {
			break
		}
		valueSize := int(binary.LittleEndian.Uint32(data[p : p+4]))
		flags := binary.LittleEndian.Uint32(data[p+4 : p+8])
		p += 8

		nul := bytes.IndexByte(data[p:], 0)
		if nul < 0 {
			break
		}
		key := string(data[p : p+nul])
		p += nul + 1

		if valueSize < 0 || p+valueSize > len(data) {
			break
		}
		value := make([]byte, valueSize)
		copy(value, data[p:p+valueSize])
		p += valueSize

		items = append(items, Item{Key: key, Flags: flags, Value: value})
	}
	return items, true, nil
}
