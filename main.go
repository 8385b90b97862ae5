// main.go - command-line entry point

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "screenshot" {
		runScreenshot(os.Args[2:])
		return
	}
	runGUI(os.Args[1:])
}

func runGUI(args []string) {
	fs := flag.NewFlagSet("rp6502-emu", flag.ExitOnError)
	noColor := fs.Bool("no-color", false, "disable ANSI colour in the startup banner")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rp6502-emu [options]\n\nOpens a GUI window showing the live VGA framebuffer.\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nFor a headless test-pattern render, use:\n  rp6502-emu screenshot -mode <mode> -output <path.png>\n")
	}
	fs.Parse(args)

	printBanner(*noColor)

	engine := NewEngine()
	go engine.Run(context.Background(), &idleTrace{})

	shell := NewHostShell(engine.Framebuffer)
	if err := shell.Run("rp6502-emu"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runScreenshot(args []string) {
	fs := flag.NewFlagSet("screenshot", flag.ExitOnError)
	mode := fs.String("mode", "mono640x480", "test mode to render")
	output := fs.String("output", "screenshot.png", "output PNG path")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rp6502-emu screenshot -mode <mode> -output <path.png>\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	testMode, err := ParseTestMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	engine := NewEngine()
	engine.Run(context.Background(), NewTestModeTrace(testMode))

	disp := engine.Framebuffer.Snapshot()
	if err := SavePNG(*output, disp, displayWidth, displayHeight); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%s)\n", *output, testMode)
}

// idleTrace is an empty TraceSource: GUI mode has no 6502 bus to drive,
// so the engine run ends at once (the PIX queue closes and the VGA
// loop exits) and the window shows the initial, all-zero framebuffer.
type idleTrace struct{}

func (idleTrace) Next() (BusTransaction, bool) { return BusTransaction{}, false }

func printBanner(noColor bool) {
	const plain = "rp6502-emu - Picocomputer 6502 VGA emulator\n"
	if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(plain)
		return
	}
	fmt.Print("\x1b[36mrp6502-emu\x1b[0m - Picocomputer 6502 VGA emulator\n")
}
