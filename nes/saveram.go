package nes

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// SaveRAM is battery backed WRAM mapped straight from a .sav file next to
// the ROM, so writes from the game land on disk without an explicit save.
type SaveRAM struct {
	file *os.File
	mmap mmap.MMap
}

func SaveRAMPath(romFilePath string) string {
	romFileName := fileNameWithoutExtension(romFilePath)
	romFileDir := filepath.Dir(filepath.Clean(romFilePath))
	return filepath.Join(romFileDir, romFileName+`.sav`)
}

func OpenSaveRAM(romFilePath string, size int) (*SaveRAM, error) {
	path := SaveRAMPath(romFilePath)

	file, created, err := openSizedFile(path, int64(size))
	if err != nil {
		return nil, fmt.Errorf("save RAM: %w", err)
	}

	m, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("save RAM: %w", err)
	}

	if created {
		log.Printf("SaveRAM: file created. Path: %s\n", path)
	} else {
		log.Printf("SaveRAM: file loaded. Path: %s\n", path)
	}

	return &SaveRAM{
		file: file,
		mmap: m,
	}, nil
}

func (s *SaveRAM) Bytes() []byte {
	return s.mmap
}

func (s *SaveRAM) Flush() error {
	return s.mmap.Flush()
}

func (s *SaveRAM) Close() error {
	if err := s.mmap.Unmap(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// openSizedFile opens path for read/write, creating it with the given size
// when it does not exist yet. An existing file must already have that size.
func openSizedFile(path string, size int64) (*os.File, bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		if info.Size() != size {
			return nil, false, fmt.Errorf("%s: size is %d bytes, want %d", path, info.Size(), size)
		}
		file, err := os.OpenFile(path, os.O_RDWR, 0644)
		return file, false, err
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, false, err
	}
	if err := file.Truncate(size); err != nil {
		file.Close()
		return nil, false, err
	}
	return file, true, nil
}

func fileNameWithoutExtension(filePath string) string {
	fileName := filepath.Base(filePath)
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
