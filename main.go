package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quartzvale/psxgo/emulator"
)

func main() {
	// parse arguments
	biosPath := flag.String("bios", "SCPH1001.BIN", "path to the BIOS file")
	scale := flag.Int("scale", 2, "window scale factor")
	flag.Parse()

	// start emulator
	bios := loadBios(*biosPath)
	sys := emulator.NewSystem(bios)
	display := emulator.NewDisplay(sys)

	ebiten.SetWindowTitle("psxgo")
	ebiten.SetWindowSize(640**scale/2, 480**scale/2)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(display); err != nil {
		log.Fatal(err)
	}
}

func loadBios(path string) *emulator.BIOS {
	log.Printf("loading bios \"%s\"", path)
	start := time.Now()

	// read bios
	file, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	// load bios
	bios, err := emulator.LoadBIOS(file)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("loaded bios in %s", time.Since(start))
	return bios
}
