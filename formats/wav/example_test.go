// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/stagemix/audio"
	"github.com/ik5/stagemix/formats/wav"
	"github.com/ik5/stagemix/utils"
)

// Example_bounceMix writes a float mix to a stereo WAV and reads it back
// the way the loader does, as a planar buffer.
func Example_bounceMix() {
	// Interleaved L/R, including one frame that overshoots full scale.
	mix := []float32{0.5, -0.5, 0.25, -0.25, 1.4, -1.4}

	pcm := make([]int16, len(mix))
	for i, v := range mix {
		pcm[i] = utils.Float32ToInt16(v)
	}

	var file bytes.Buffer
	if err := wav.WriteWAV16(&file, 44100, 2, pcm); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("WAV size: %d bytes\n", file.Len())

	source, err := wav.Decoder{}.Decode(&file)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	buf, err := audio.ReadAll(source)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("%d Hz, %d channels, %d frames\n", buf.SampleRate(), buf.Channels(), buf.Frames())
	for f := range buf.Frames() {
		fmt.Printf("  frame %d: %+.2f %+.2f\n", f, buf.Data[0][f], buf.Data[1][f])
	}
	// Output:
	// WAV size: 56 bytes
	// 44100 Hz, 2 channels, 3 frames
	//   frame 0: +0.50 -0.50
	//   frame 1: +0.25 -0.25
	//   frame 2: +1.00 -1.00
}

// Example_stereo writes interleaved stereo and reads the frame count back.
func Example_stereo() {
	// L/R pairs
	samples := []int16{16384, -16384, 8192, -8192, 0, 0}

	wavData := new(bytes.Buffer)
	if err := wav.WriteWAV16(wavData, 44100, 2, samples); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	source, err := wav.Decoder{}.Decode(bytes.NewReader(wavData.Bytes()))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	buf, _ := audio.ReadAll(source)
	fmt.Printf("Channels: %d, frames: %d\n", buf.Channels(), buf.Frames())
	fmt.Printf("Left: %v\n", buf.Data[0])
	fmt.Printf("Right: %v\n", buf.Data[1])
	// Output:
	// Channels: 2, frames: 3
	// Left: [0.5 0.25 0]
	// Right: [-0.5 -0.25 0]
}

// Example_rejectedInput shows the sentinel errors callers branch on.
func Example_rejectedInput() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("ID3 tagged mp3, not RIFF")))
	fmt.Println("not a wav:", errors.Is(err, wav.ErrNotWavFile))

	// Three samples cannot be split into stereo frames.
	err = wav.WriteWAV16(new(bytes.Buffer), 44100, 2, []int16{1, 2, 3})
	fmt.Println("odd stereo:", errors.Is(err, wav.ErrInvalidChannels))

	err = wav.WriteWAV16(new(bytes.Buffer), 0, 1, nil)
	fmt.Println("no rate:", errors.Is(err, wav.ErrUnsupportedWavLayout))
	// Output:
	// not a wav: true
	// odd stereo: true
	// no rate: true
}
