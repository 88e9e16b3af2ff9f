// refs: github.com/fogleman/nes
package nes

import (
	"fmt"
	"log"

	"github.com/kaishuu0123/txrom/txrom"
)

// IRQHandler runs when the IRQ line is asserted after a PPU dot. It stands in
// for the interrupt service routine of a game.
type IRQHandler func(console *Console)

type Console struct {
	Cartridge *Cartridge
	Memory    *MemoryMap
	IRQ       *IRQLine
	PPU       *PPUTiming
	Mapper    txrom.Mapper

	irqHandler IRQHandler
	inHandler  bool
	states     *StateFile
}

func NewConsole(cartridge *Cartridge, opts txrom.Options) (*Console, error) {
	opts = opts.Normalised()

	memory := NewMemoryMap(cartridge)
	irq := &IRQLine{}
	ppu := NewPPUTiming(opts.ScanlinesPerFrame, opts.VisibleScanlines)

	host := txrom.Host{
		Banks:    memory,
		IRQ:      irq,
		Scanline: ppu,
	}
	mapper, err := txrom.NewMapper(cartridge.MapperID, cartridge.Board(), host, opts)
	if err != nil {
		return nil, err
	}

	console := &Console{
		Cartridge: cartridge,
		Memory:    memory,
		IRQ:       irq,
		PPU:       ppu,
		Mapper:    mapper,
	}
	ppu.OnFetch = mapper.NotifyVRAMAddressChange
	ppu.OnScanlineEnd = mapper.OnScanlineBoundary
	console.Reset()

	return console, nil
}

func (console *Console) Reset() {
	console.IRQ.Reset()
	console.PPU.Reset()
	console.Mapper.Reset()
	if !console.Cartridge.FourScreen() {
		console.Memory.SetMirroring(console.Cartridge.MirroringType())
	}
}

func (console *Console) SetIRQHandler(handler IRQHandler) {
	console.irqHandler = handler
}

// WriteMemory is a CPU write to the cartridge space.
func (console *Console) WriteMemory(address uint16, value byte) {
	switch {
	case address >= 0x8000:
		console.Mapper.WriteRegister(address, value)
	case address >= 0x6000:
		console.Memory.WriteMemory(address, value)
	default:
		log.Printf("unhandled cartridge write at address: 0x%04X", address)
	}
}

func (console *Console) ReadMemory(address uint16) byte {
	if address < 0x6000 {
		log.Printf("unhandled cartridge read at address: 0x%04X", address)
		return 0
	}
	return console.Memory.ReadMemory(address)
}

// Step advances the PPU one dot and services a pending IRQ.
func (console *Console) Step() {
	console.PPU.Step()
	console.serviceIRQ()
}

func (console *Console) serviceIRQ() {
	if console.irqHandler == nil || console.inHandler || !console.IRQ.Pending() {
		return
	}
	console.inHandler = true
	console.irqHandler(console)
	console.inHandler = false
}

func (console *Console) StepScanline() {
	line := console.PPU.ScanLine
	for console.PPU.ScanLine == line {
		console.Step()
	}
}

func (console *Console) StepFrame() {
	frame := console.PPU.Frame
	for frame == console.PPU.Frame {
		console.Step()
	}
}

// AttachStateFile opens (or creates) a slot file for SaveState and LoadState.
func (console *Console) AttachStateFile(path string, slots int) error {
	states, err := OpenStateFile(path, slots, len(console.Mapper.ExportState()))
	if err != nil {
		return err
	}
	if console.states != nil {
		console.states.Close()
	}
	console.states = states
	return nil
}

func (console *Console) SaveState(slot int) error {
	if console.states == nil {
		return fmt.Errorf("save state %d: no state file attached", slot)
	}
	return console.states.Save(slot, console.Mapper.ExportState())
}

func (console *Console) LoadState(slot int) error {
	if console.states == nil {
		return fmt.Errorf("load state %d: no state file attached", slot)
	}
	record, err := console.states.Load(slot)
	if err != nil {
		return err
	}
	return console.Mapper.ImportState(record)
}

func (console *Console) Close() error {
	if console.states != nil {
		if err := console.states.Close(); err != nil {
			return err
		}
		console.states = nil
	}
	return console.Cartridge.Close()
}
