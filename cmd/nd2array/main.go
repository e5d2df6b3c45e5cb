package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"nd2array/pkg/acquisition"
	"nd2array/pkg/config"
	"nd2array/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing the acquisition frames and manifest")
	configPath := flag.String("config", "nd2array.yaml", "YAML configuration file (defaults are used if it does not exist)")
	manifest := flag.String("manifest", "", "Manifest file name inside the input directory (overrides config)")
	suffix := flag.String("repeat-suffix", "", "Suffix for a repeated channel name (overrides config)")
	verbose := flag.Bool("verbose", false, "Print dimensions and the detected iteration axis")
	previewDir := flag.String("preview-dir", "", "Write one preview image per frame to this directory")
	normalize := flag.Bool("normalize", false, "Stretch each preview to its own intensity range")
	writeConfig := flag.String("write-config", "", "Write the default configuration to this path and exit")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *writeConfig)
		return
	}

	// Validate inputs
	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *manifest != "" {
		cfg.Reader.Manifest = *manifest
	}
	if *suffix != "" {
		cfg.Naming.RepeatSuffix = *suffix
	}
	if *verbose {
		cfg.Output.Verbose = true
	}
	if *previewDir != "" {
		cfg.Output.SavePreviews = true
		cfg.Output.PreviewDir = *previewDir
	}

	startTime := time.Now()
	res, err := acquisition.OpenStack(*inputDir, acquisition.OptionsFromConfig(cfg))
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	pattern := string(res.Pattern)
	if pattern == "" {
		pattern = "(single frame)"
	}

	fmt.Printf("Iteration axis:  %s\n", pattern)
	fmt.Printf("Frames:          %d\n", res.Frames.Leaves())
	fmt.Printf("Channels:        %s\n", strings.Join(res.Channels, ", "))
	fmt.Printf("Time-points:     %d\n", res.TimePoints)
	fmt.Printf("XY positions:    %d\n", res.Positions)
	fmt.Printf("Scale:           %.3f um/px\n", res.Scale)
	fmt.Printf("Sensor:          %d x %d\n", res.Sensor.Width, res.Sensor.Height)
	fmt.Printf("Converted in %.2f seconds\n", time.Since(startTime).Seconds())

	if cfg.Output.SavePreviews {
		viewer := visualization.NewViewer(res.Frames, cfg.Output.PreviewFormat, *normalize)
		written, err := viewer.SaveAll(cfg.Output.PreviewDir)
		if err != nil {
			log.Fatalf("Failed to save previews: %v", err)
		}
		fmt.Printf("\n%d previews saved to: %s\n", len(written), cfg.Output.PreviewDir)
	}
}
