// Package audio decodes WAV payloads into the float32 waveform the emotion
// feature extractor consumes. Only RIFF/WAVE containers with PCM or IEEE
// float samples are supported; multi-channel audio is mixed down to mono.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// Decode parses a WAV payload at its native sample rate and returns the
// mono waveform normalized to [-1, 1].
func Decode(data []byte) ([]float32, int, error) {
	if len(data) < 12 {
		return nil, 0, fmt.Errorf("wav payload too short (%d bytes)", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE payload")
	}

	var (
		audioFormat   uint16
		channels      uint16
		sampleRate    uint32
		bitsPerSample uint16
		haveFormat    bool
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return nil, 0, fmt.Errorf("truncated %q chunk", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, fmt.Errorf("fmt chunk too short (%d bytes)", chunkSize)
			}
			audioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFormat = true
		case "data":
			if !haveFormat {
				return nil, 0, fmt.Errorf("data chunk before fmt chunk")
			}
			samples, err := decodeSamples(data[body:body+chunkSize], audioFormat, channels, bitsPerSample)
			if err != nil {
				return nil, 0, err
			}
			return samples, int(sampleRate), nil
		}

		// Chunks are word-aligned.
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	return nil, 0, fmt.Errorf("no data chunk found")
}

func decodeSamples(raw []byte, audioFormat, channels, bitsPerSample uint16) ([]float32, error) {
	if channels == 0 {
		return nil, fmt.Errorf("invalid channel count 0")
	}

	bytesPerSample := int(bitsPerSample) / 8
	if bytesPerSample == 0 {
		return nil, fmt.Errorf("invalid bits per sample %d", bitsPerSample)
	}
	frameSize := bytesPerSample * int(channels)
	frames := len(raw) / frameSize
	samples := make([]float32, 0, frames)

	read, err := sampleReader(audioFormat, bitsPerSample)
	if err != nil {
		return nil, err
	}

	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < int(channels); c++ {
			pos := f*frameSize + c*bytesPerSample
			sum += read(raw[pos : pos+bytesPerSample])
		}
		samples = append(samples, float32(sum/float64(channels)))
	}
	return samples, nil
}

func sampleReader(audioFormat, bitsPerSample uint16) (func([]byte) float64, error) {
	switch {
	case audioFormat == formatPCM && bitsPerSample == 16:
		return func(b []byte) float64 {
			return float64(int16(binary.LittleEndian.Uint16(b))) / 32768.0
		}, nil
	case audioFormat == formatPCM && bitsPerSample == 32:
		return func(b []byte) float64 {
			return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648.0
		}, nil
	case audioFormat == formatIEEEFloat && bitsPerSample == 32:
		return func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}, nil
	default:
		return nil, fmt.Errorf("unsupported sample encoding: format %d, %d bits", audioFormat, bitsPerSample)
	}
}
