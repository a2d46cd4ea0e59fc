// Command mcrender-demo renders a single item or block to a PNG file,
// exercising the public render API the way a thin CLI wraps a library
// the rest of the corpus's cmd/ binaries do.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"mcrender/internal/config"
	"mcrender/internal/logging"
	"mcrender/internal/nbt"
	"mcrender/render"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a renderer config YAML file")
		itemID     = flag.String("item", "", "item id to render, e.g. minecraft:diamond_sword")
		blockID    = flag.String("block", "", "block id to render, e.g. minecraft:stone")
		size       = flag.Int("size", 0, "output size in pixels (0 uses the config default)")
		out        = flag.String("out", "out.png", "output PNG path")
	)
	flag.Parse()

	if *itemID == "" && *blockID == "" {
		fmt.Fprintln(os.Stderr, "mcrender-demo: one of -item or -block is required")
		os.Exit(2)
	}

	log := logging.New(os.Stderr, "mcrender-demo")

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Errorf("loading config: %v", err)
			os.Exit(1)
		}
	}

	renderer, err := render.New(cfg, log)
	if err != nil {
		log.Errorf("constructing renderer: %v", err)
		os.Exit(1)
	}
	defer renderer.Close()

	opts := render.RenderOptions{Size: *size}

	var result *render.Result
	if *itemID != "" {
		item := nbt.Compound{"id": nbt.String(*itemID), "count": nbt.Int(1)}
		result, err = renderer.RenderItemFromNBT(item, opts)
	} else {
		result, err = renderer.RenderBlock(*blockID, opts)
	}
	if err != nil {
		log.Errorf("rendering: %v", err)
		os.Exit(1)
	}

	for _, w := range result.Warnings {
		log.Warnf("%s: %s", w.Kind, w.Message)
	}
	log.Infof("resolved resource id: %s", result.ResourceID.Canonical)

	f, err := os.Create(*out)
	if err != nil {
		log.Errorf("creating output file: %v", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := png.Encode(f, result.Image); err != nil {
		log.Errorf("encoding png: %v", err)
		os.Exit(1)
	}
}
