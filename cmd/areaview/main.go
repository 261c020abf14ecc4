package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"

	"github.com/triblespace/anybytes"
	"github.com/triblespace/anybytes/area"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to a persisted area file")
		layoutPath  = flag.String("layout", "", "Path to the layout JSON (default <file>.layout.json)")
		section     = flag.Int("section", -1, "Hex dump a single section by index")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: areaview -file <area file> [-layout layout.json]")
		fmt.Fprintln(os.Stderr, "       areaview -file <area file> -section <n>")
		fmt.Fprintln(os.Stderr, "       areaview -file <area file> -i  (interactive mode)")
		os.Exit(1)
	}
	if *layoutPath == "" {
		*layoutPath = *file + ".layout.json"
	}

	if *interactive {
		if err := runInteractive(*file, *layoutPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*file, *layoutPath, *section); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file, layoutPath string, section int) error {
	descs, err := area.ReadLayout(layoutPath)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}

	whole, err := area.Open(file)
	if err != nil {
		return fmt.Errorf("open area: %w", err)
	}
	defer whole.Release()

	// Show area info
	fmt.Printf("Area: %s\n", file)
	fmt.Printf("Size: %s (%d bytes)\n", humanize.IBytes(uint64(whole.Len())), whole.Len())
	fmt.Printf("Sections: %d\n", len(descs))
	fmt.Printf("Digest: %016x\n", whole.Sum64())

	if section >= 0 {
		return dumpSection(&whole, descs, section)
	}

	fmt.Printf("\nSections:\n")
	for i, d := range descs {
		sub, err := d.Slice(&whole)
		if err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		fmt.Printf("  [%d] offset %-8d %-10s %-16s %016x\n",
			i, d.Offset, humanize.IBytes(uint64(d.Length)), d.Type, sub.Sum64())
		sub.Release()
	}
	return nil
}

func dumpSection(whole *anybytes.Bytes, descs []area.SectionDescriptor, idx int) error {
	if idx >= len(descs) {
		return fmt.Errorf("section %d out of range (%d sections)", idx, len(descs))
	}
	d := descs[idx]

	sub, err := d.Slice(whole)
	if err != nil {
		return fmt.Errorf("section %d: %w", idx, err)
	}
	defer sub.Release()

	fmt.Printf("\nSection %d: offset %d, %s, %s\n", idx, d.Offset, humanize.IBytes(uint64(d.Length)), d.Type)
	fmt.Printf("Digest: %016x\n\n", xxhash.Sum64(sub.Data()))
	fmt.Print(hex.Dump(sub.Data()))
	return nil
}
