// Command m17mod encodes an LSF and a stream of payload frames into a raw
// baseband sample file, demonstrating the modem core's TX path end to end.
// Flag parsing follows the teacher's cmd/direwolf pflag idiom.
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/openrtx/m17-modem/config"
	"github.com/openrtx/m17-modem/internal/basebandsink"
	"github.com/openrtx/m17-modem/internal/m17log"
	"github.com/openrtx/m17-modem/m17"
	"github.com/openrtx/m17-modem/modem"
)

func main() {
	src := pflag.StringP("src", "s", "", "Source callsign.")
	dst := pflag.StringP("dst", "d", "ALL", "Destination callsign.")
	can := pflag.Uint8P("can", "c", 0, "Channel access number, 0-15.")
	configFile := pflag.StringP("config", "f", "", "Session config file (YAML). Overrides other flags when set.")
	outPath := pflag.StringP("out", "o", "out.raw", "Output raw baseband file (16-bit signed PCM, little-endian).")
	frames := pflag.IntP("frames", "n", 10, "Number of stream frames to encode.")
	pflag.Parse()

	session := config.DefaultSession()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "m17mod: %v\n", err)
			os.Exit(1)
		}
		session = loaded
	} else {
		session.Src = *src
		session.Dst = *dst
		session.CAN = *can
	}

	logger := m17log.New("info")

	srcCall, err := m17.EncodeCallsign(session.Src, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "m17mod: %v\n", err)
		os.Exit(1)
	}
	dstCall, err := m17.EncodeCallsign(session.Dst, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "m17mod: %v\n", err)
		os.Exit(1)
	}

	lsf := m17.LSF{
		Dst:  dstCall,
		Src:  srcCall,
		Type: m17.StreamType{DataMode: m17.DataModeStream, DataType: m17.DataTypeVoice, CAN: session.CAN & 0xF},
	}

	enc := modem.NewFrameEncoder(lsf)
	sink := basebandsink.NewMemorySink()
	mod := modem.NewModulator(sink)
	mod.Init()

	lsfBody := enc.EncodeLSF(lsf)
	if err := mod.Send(m17.SyncLSF, lsfBody, false); err != nil {
		fmt.Fprintf(os.Stderr, "m17mod: %v\n", err)
		os.Exit(1)
	}

	var payload [16]byte
	for i := 0; i < *frames; i++ {
		for j := range payload {
			payload[j] = byte((i*16 + j) & 0xFF)
		}
		isLast := i == *frames-1
		body := enc.EncodeStreamFrame(payload, isLast)
		// The EOS bit is already embedded in the frame's own frame-number
		// field; transmission itself only tears down after the trailing EOT
		// marker frame below (spec.md: "currently-queued frame plus an EOT
		// marker, tears down the stream").
		if err := mod.Send(m17.SyncStream, body, false); err != nil {
			fmt.Fprintf(os.Stderr, "m17mod: %v\n", err)
			os.Exit(1)
		}
	}

	if err := mod.Send(m17.SyncEOT, modem.EncodeEOTFrame(), true); err != nil {
		fmt.Fprintf(os.Stderr, "m17mod: %v\n", err)
		os.Exit(1)
	}

	if err := writeRaw(*outPath, sink.Samples); err != nil {
		fmt.Fprintf(os.Stderr, "m17mod: %v\n", err)
		os.Exit(1)
	}

	logger.Report(m17log.Stats{FramesDecoded: *frames + 2, StreamDecoded: *frames, LSFDecoded: 1})
}

func writeRaw(path string, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, 2)
	for _, s := range samples {
		binary.LittleEndian.PutUint16(buf, uint16(s))
		if _, err := f.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
