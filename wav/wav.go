package wav

// Minimal RIFF/PCM reader and writer. The training wrapper only needs each
// file's sample rate and duration to validate an input/target pair, but the
// decoded samples are exposed as well for the diagnostic tooling.

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// WavInfo holds the decoded header of a PCM WAV file plus its raw data chunk.
type WavInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	Data          []byte
	Duration      float64
}

// NumFrames returns the number of sample frames in the data chunk.
func (w *WavInfo) NumFrames() int {
	bytesPerFrame := w.Channels * w.BitsPerSample / 8
	if bytesPerFrame == 0 {
		return 0
	}
	return len(w.Data) / bytesPerFrame
}

// ReadWavInfo parses the file's RIFF header and returns its format info and
// raw PCM data. Only uncompressed PCM (format tag 1) is supported.
func ReadWavInfo(path string) (*WavInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav file: %w", err)
	}

	if len(raw) < 12 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}

	info := &WavInfo{}
	var haveFmt, haveData bool

	// Walk the chunk list; fmt and data are the only chunks we care about.
	pos := 12
	for pos+8 <= len(raw) {
		chunkID := string(raw[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(raw[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkSize > len(raw) {
			chunkSize = len(raw) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, errors.New("fmt chunk too short")
			}
			audioFormat := binary.LittleEndian.Uint16(raw[body : body+2])
			if audioFormat != 1 {
				return nil, fmt.Errorf("unsupported audio format %d (only PCM)", audioFormat)
			}
			info.Channels = int(binary.LittleEndian.Uint16(raw[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(raw[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(raw[body+14 : body+16]))
			haveFmt = true
		case "data":
			info.Data = raw[body : body+chunkSize]
			haveData = true
		}

		// Chunks are word aligned.
		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}

	if !haveFmt || !haveData {
		return nil, errors.New("missing fmt or data chunk")
	}
	if info.SampleRate <= 0 || info.Channels <= 0 {
		return nil, errors.New("invalid fmt chunk values")
	}

	bytesPerSecond := info.SampleRate * info.Channels * info.BitsPerSample / 8
	if bytesPerSecond > 0 {
		info.Duration = float64(len(info.Data)) / float64(bytesPerSecond)
	}

	return info, nil
}

// WavBytesToSamples converts 16-bit little-endian PCM bytes into float64
// samples in [-1, 1).
func WavBytesToSamples(data []byte) ([]float64, error) {
	if len(data)%2 != 0 {
		return nil, errors.New("pcm data length is not sample aligned")
	}

	samples := make([]float64, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		samples[i] = float64(v) / 32768.0
	}
	return samples, nil
}

// WriteWavFile writes raw PCM bytes to path with a standard 44-byte header.
func WriteWavFile(path string, data []byte, sampleRate, channels, bitsPerSample int) error {
	if sampleRate <= 0 || channels <= 0 || bitsPerSample <= 0 {
		return errors.New("invalid wav format parameters")
	}

	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(data)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitsPerSample))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(data)))

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(header); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	return nil
}
