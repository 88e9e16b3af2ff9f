package nes

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

var (
	ErrSlotRange = errors.New("state slot out of range")
	ErrSlotEmpty = errors.New("state slot is empty")
)

const slotUsed = 0x01

// StateFile keeps a fixed number of save state slots in one memory mapped
// file. Each slot is a used flag followed by a record of recordSize bytes.
type StateFile struct {
	file       *os.File
	mmap       mmap.MMap
	slots      int
	recordSize int
}

func OpenStateFile(path string, slots int, recordSize int) (*StateFile, error) {
	if slots <= 0 || recordSize <= 0 {
		return nil, fmt.Errorf("state file: invalid geometry (%d slots of %d bytes)", slots, recordSize)
	}

	file, _, err := openSizedFile(path, int64(slots*(recordSize+1)))
	if err != nil {
		return nil, fmt.Errorf("state file: %w", err)
	}

	m, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("state file: %w", err)
	}

	return &StateFile{
		file:       file,
		mmap:       m,
		slots:      slots,
		recordSize: recordSize,
	}, nil
}

func (f *StateFile) Slots() int {
	return f.slots
}

func (f *StateFile) slot(n int) ([]byte, error) {
	if n < 0 || n >= f.slots {
		return nil, fmt.Errorf("%w: %d", ErrSlotRange, n)
	}
	start := n * (f.recordSize + 1)
	return f.mmap[start : start+f.recordSize+1], nil
}

func (f *StateFile) Save(n int, record []byte) error {
	if len(record) != f.recordSize {
		return fmt.Errorf("state file: record is %d bytes, want %d", len(record), f.recordSize)
	}
	s, err := f.slot(n)
	if err != nil {
		return err
	}
	copy(s[1:], record)
	s[0] = slotUsed
	return f.mmap.Flush()
}

// Load returns a copy of the record in slot n.
func (f *StateFile) Load(n int) ([]byte, error) {
	s, err := f.slot(n)
	if err != nil {
		return nil, err
	}
	if s[0] != slotUsed {
		return nil, fmt.Errorf("%w: %d", ErrSlotEmpty, n)
	}
	record := make([]byte, f.recordSize)
	copy(record, s[1:])
	return record, nil
}

func (f *StateFile) Used(n int) bool {
	s, err := f.slot(n)
	return err == nil && s[0] == slotUsed
}

func (f *StateFile) Close() error {
	if err := f.mmap.Unmap(); err != nil {
		f.file.Close()
		return err
	}
	return f.file.Close()
}
