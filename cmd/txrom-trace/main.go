package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kaishuu0123/txrom/internal/statsview"
	"github.com/kaishuu0123/txrom/internal/timeline"
	"github.com/kaishuu0123/txrom/nes"
	"github.com/kaishuu0123/txrom/txrom"
)

const stateSlots = 8

var (
	prgBanks   = flag.Int("prg", 16, "number of 8KiB PRG banks of the synthetic cartridge (used without a ROM)")
	frames     = flag.Int("frames", 4, "number of frames to run")
	latch      = flag.Int("latch", 64, "IRQ latch value written to $C000")
	timing     = flag.String("timing", "a12", "IRQ counter timing: a12 or scanline")
	dropEvery  = flag.Int("drop", 0, "drop the PPU fetches of every Nth scanline (0 = never)")
	spritesLow = flag.Bool("sprites-low", false, "fetch sprites from $0000 and the background from $1000")
	traceStats = flag.Bool("stats", false, "log per-frame edge and IRQ statistics")
	outPath    = flag.String("out", "", "write the IRQ timeline to a .png or .bmp file")
	scale      = flag.Int("scale", 2, "timeline image scale")
	statePath  = flag.String("state", "", "save state file")
	saveSlot   = flag.Int("save-slot", -1, "save the mapper state to this slot after the run")
	loadSlot   = flag.Int("load-slot", -1, "load the mapper state from this slot before the run")
	stats      = flag.Bool("statsview", false, "run the runtime statistics server")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] [rom.nes]\n", os.Args[0])
	flag.PrintDefaults()
}

func syntheticCartridge(banks int) *nes.Cartridge {
	if banks < 2 {
		banks = 2
	}
	banks &^= 1
	if banks > 510 {
		banks = 510
	}
	prg := make([]byte, banks*0x2000)
	for i := range prg {
		prg[i] = byte(i / 0x2000)
	}
	return nes.NewCartridge(prg, nil, 4, nes.MirrorVertical, 0, "", byte(banks/2), 0)
}

func loadCartridge() (*nes.Cartridge, error) {
	if flag.NArg() == 0 {
		log.Printf("no ROM given, using a synthetic cartridge with %d PRG banks\n", *prgBanks)
		return syntheticCartridge(*prgBanks), nil
	}
	log.Printf("ROM file path: %s\n", flag.Arg(0))
	return nes.LoadNESFile(flag.Arg(0))
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	mode, err := txrom.ParseTimingMode(*timing)
	if err != nil {
		return err
	}

	monitor := statsview.NewMonitor()
	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout, monitor)
		} else {
			log.Println("statsview is not available in this build (use -tags statsview)")
		}
	}

	cartridge, err := loadCartridge()
	if err != nil {
		return err
	}

	opts := txrom.DefaultOptions()
	opts.Timing = mode
	opts.TraceStats = *traceStats
	recorder := timeline.NewRecorder(opts.ScanlinesPerFrame, opts.VisibleScanlines)
	opts.OnEdge = recorder.OnEdge

	console, err := nes.NewConsole(cartridge, opts)
	if err != nil {
		cartridge.Close()
		return err
	}
	defer func() {
		if err := console.Close(); err != nil {
			log.Println(err)
		}
	}()

	console.PPU.DropFetchesEveryN = *dropEvery
	if *spritesLow {
		console.PPU.BackgroundTable = 0x1000
		console.PPU.SpriteTable = 0x0000
	}

	if *statePath != "" {
		if err := console.AttachStateFile(*statePath, stateSlots); err != nil {
			return err
		}
	}

	// program the counter the way a game sets up a split screen
	console.WriteMemory(0xC000, byte(*latch))
	console.WriteMemory(0xC001, 0)
	console.WriteMemory(0xE001, 0)

	if *loadSlot >= 0 {
		if err := console.LoadState(*loadSlot); err != nil {
			return err
		}
		log.Printf("state loaded from slot %d\n", *loadSlot)
	}

	console.SetIRQHandler(func(c *nes.Console) {
		recorder.Mark(c.PPU.ScanLine, timeline.EventIRQ)
		c.WriteMemory(0xE000, 0)
		c.WriteMemory(0xE001, 0)
	})

	mmc3, _ := console.Mapper.(*txrom.MMC3)
	for frame := 0; frame < *frames; frame++ {
		console.StepFrame()
		recorder.EndFrame()

		fmt.Printf("frame %d: IRQ at scanlines %v\n", frame, recorder.IRQScanlines(frame))
		if mmc3 != nil {
			s := mmc3.LastFrameStats()
			monitor.Publish(s)
			fmt.Printf("  edges=%d (natural=%d, synthetic=%d) IRQs=%d counter=%d\n",
				s.TotalEdges(), s.NaturalEdges, s.SyntheticEdges, s.IRQs, mmc3.IRQCounter())
		}
	}

	if *saveSlot >= 0 {
		if err := console.SaveState(*saveSlot); err != nil {
			return err
		}
		log.Printf("state saved to slot %d\n", *saveSlot)
	}

	if *outPath != "" {
		if err := recorder.WriteFile(*outPath, *scale); err != nil {
			return err
		}
		log.Printf("timeline written to %s\n", *outPath)
	}

	return nil
}
