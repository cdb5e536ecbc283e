// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"efmt/internal/driver"
)

func main() {
	check := flag.Bool("check", false, "report files that need formatting instead of rewriting them")
	width := flag.Int("width", 100, "line width to format at")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Println("usage: efmt [-check] [-width N] file...")
		os.Exit(1)
	}

	cfg := driver.Config{Check: *check, LineLength: *width}
	startTime := time.Now()

	var needsFormatting, failed int
	for _, path := range paths {
		result, err := driver.Format(path, cfg)
		if err != nil {
			color.Red("error: %s", err)
			failed++
			continue
		}
		switch result.Status {
		case driver.Formatted:
			fmt.Println(path)
		case driver.NeedsFormatting:
			color.Yellow("%s needs formatting", path)
			needsFormatting++
		case driver.Unchanged:
		}
	}

	duration := formatDuration(time.Since(startTime))
	switch {
	case failed > 0:
		color.Red("failed on %d of %d files in %s", failed, len(paths), duration)
		os.Exit(1)
	case needsFormatting > 0:
		color.Yellow("%d of %d files need formatting (%s)", needsFormatting, len(paths), duration)
		os.Exit(1)
	default:
		color.Green("checked %d files in %s", len(paths), duration)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1e6)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1e3)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
