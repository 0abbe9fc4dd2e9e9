// SPDX-License-Identifier: GPL-2.0-or-later

// bsp2map converts a compiled Quake 2 bsp back into an editable,
// re-compilable .map brush file.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"bsp2map/config"
	"bsp2map/convert"
	"bsp2map/logger"
)

var flagOut = flag.String("out", "", "Output path (default: input name with _compilable.map)")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bsp2map: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flag.NArg() != 1 {
		return fmt.Errorf("usage: bsp2map [flags] <file.bsp>")
	}
	in := flag.Arg(0)

	level := cfg.Logging.Level
	if cfg.Verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.Logging.LogFile)
	defer log.Sync()

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	log.Info("read bsp", zap.String("file", in), zap.Int("bytes", len(data)))

	out := *flagOut
	if out == "" {
		out = strings.TrimSuffix(in, ".bsp") + "_compilable.map"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}

	stats, err := convert.New(cfg, log).Run(data, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	log.Info("wrote map", zap.String("file", out))
	for _, line := range stats.Report() {
		fmt.Println(line)
	}
	return nil
}
