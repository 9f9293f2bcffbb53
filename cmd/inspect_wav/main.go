package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"amp-trainer/wav"
)

// inspect_wav prints the header info of a WAV file plus a simple peak
// measurement, for checking a capture pair before training.
func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatalf("usage: inspect_wav <file.wav> [more.wav ...]")
	}

	for _, path := range flag.Args() {
		info, err := wav.ReadWavInfo(path)
		if err != nil {
			log.Fatalf("ERROR: %s: %v", path, err)
		}

		fmt.Printf("%s\n", path)
		fmt.Printf("  sample rate: %d Hz\n", info.SampleRate)
		fmt.Printf("  channels:    %d\n", info.Channels)
		fmt.Printf("  bit depth:   %d\n", info.BitsPerSample)
		fmt.Printf("  duration:    %.3f s (%d frames)\n", info.Duration, info.NumFrames())

		if info.BitsPerSample == 16 {
			samples, err := wav.WavBytesToSamples(info.Data)
			if err != nil {
				log.Fatalf("ERROR: %s: %v", path, err)
			}
			var peak float64
			for _, s := range samples {
				if abs := math.Abs(s); abs > peak {
					peak = abs
				}
			}
			fmt.Printf("  peak:        %.4f (%.1f dBFS)\n", peak, 20*math.Log10(math.Max(peak, 1e-9)))
		}
	}
}
