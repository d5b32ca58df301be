// Command m17demod decodes a raw baseband sample file back into M17
// frames, printing a summary of what it recognized. Flag parsing follows
// the teacher's cmd/direwolf pflag idiom.
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/openrtx/m17-modem/internal/basebandsink"
	"github.com/openrtx/m17-modem/internal/m17log"
	"github.com/openrtx/m17-modem/m17"
	"github.com/openrtx/m17-modem/modem"
)

func main() {
	inPath := pflag.StringP("in", "i", "", "Input raw baseband file (16-bit signed PCM, little-endian).")
	verbose := pflag.BoolP("verbose", "v", false, "Log every decoded frame, not just the summary.")
	pflag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "m17demod: --in is required")
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "info"
	}
	logger := m17log.New(level)

	samples, err := readRaw(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "m17demod: %v\n", err)
		os.Exit(1)
	}

	source := basebandsink.NewMemorySource(samples)
	demod := modem.NewDemodulator(source)
	dec := modem.NewFrameDecoder()

	var stats m17log.Stats
readLoop:
	for {
		frame, err := demod.NextFrame()
		if err != nil {
			break
		}

		kind := dec.DecodeFrame(frame)
		stats.FramesDecoded++

		if *verbose {
			logger.FrameDecoded(kind.String(), 0, 0)
		}

		switch kind {
		case modem.FrameLinkSetup:
			stats.LSFDecoded++
		case modem.FrameStream:
			stats.StreamDecoded++
		case modem.FrameUnknown:
			stats.FramesUnknown++
		case modem.FrameEOT:
			// End of transmission: stop reading (spec.md: "signal
			// end-of-stream to caller").
			break readLoop
		}
	}

	if lsf, ok := dec.GetLSF(); ok {
		fmt.Printf("LSF: dst=%s src=%s\n", m17.DecodeCallsign(lsf.Dst), m17.DecodeCallsign(lsf.Src))
	}

	logger.Report(stats)
}

func readRaw(path string) ([]int16, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return samples, nil
}
