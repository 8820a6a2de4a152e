// Copyright © 2026 vampirefrog
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"errors"
	"log"
	"os"

	"github.com/dh1tw/gosamplerate"
	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vampirefrog/muxaudio"
	"github.com/vampirefrog/muxaudio/codec"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <input.wav> <output>",
	Short: "Encode a WAV file into a multiplexed audio stream",
	Long: `Encode a WAV file into a multiplexed audio stream.

The audio is compressed with the selected codec. An optional side
channel file is interleaved losslessly with the audio frames. With
--streams=1 the encoded audio is written back to back without framing
(only meaningful for self-delimiting codecs).`,
	Args: cobra.ExactArgs(2),
	Run:  runEncode,
}

func init() {
	RootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("codec", "c", "opus", "audio codec (see 'muxaudio codecs')")
	encodeCmd.Flags().Float64P("bitrate", "b", 0, "bitrate in kbps (0 = codec default)")
	encodeCmd.Flags().Int("complexity", -1, "encoding complexity (-1 = codec default)")
	encodeCmd.Flags().Bool("dtx", false, "enable discontinuous transmission")
	encodeCmd.Flags().StringP("side", "s", "", "file interleaved into the side channel")
	encodeCmd.Flags().Int("streams", 2, "stream count: 2 = framed audio + side channel, 1 = passthrough")
	encodeCmd.Flags().IntP("resample", "r", 0, "resample the input to this rate in Hz before encoding")

	viper.BindPFlag("encode.codec", encodeCmd.Flags().Lookup("codec"))
	viper.BindPFlag("encode.bitrate", encodeCmd.Flags().Lookup("bitrate"))
	viper.BindPFlag("encode.streams", encodeCmd.Flags().Lookup("streams"))
}

func runEncode(cmd *cobra.Command, args []string) {
	codecName, _ := cmd.Flags().GetString("codec")
	bitrate, _ := cmd.Flags().GetFloat64("bitrate")
	complexity, _ := cmd.Flags().GetInt("complexity")
	dtx, _ := cmd.Flags().GetBool("dtx")
	sideFile, _ := cmd.Flags().GetString("side")
	streams, _ := cmd.Flags().GetInt("streams")
	resample, _ := cmd.Flags().GetInt("resample")

	c, err := muxaudio.CodecByName(codecName)
	if err != nil {
		log.Fatal(err)
	}

	samples, format, err := readWav(args[0])
	if err != nil {
		log.Fatal(err)
	}

	rate := format.SampleRate
	if resample != 0 && resample != rate {
		samples, err = resampleAudio(samples, format.NumChannels, rate, resample)
		if err != nil {
			log.Fatal(err)
		}
		rate = resample
	}

	var params []codec.Param
	if bitrate > 0 {
		params = append(params, codec.Param{Name: "bitrate", Value: bitrate})
	}
	if complexity >= 0 {
		params = append(params, codec.Param{Name: "complexity", Value: complexity})
	}
	if dtx {
		params = append(params, codec.Param{Name: "dtx", Value: true})
	}

	enc, err := muxaudio.NewEncoder(c, rate, format.NumChannels, streams, params)
	if err != nil {
		log.Fatal(err)
	}
	defer enc.Close()

	var side []byte
	if sideFile != "" {
		if streams != 2 {
			log.Fatal("a side channel requires --streams=2")
		}
		side, err = os.ReadFile(sideFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	out, err := os.Create(args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	audio := samplesToBytes(samples)
	drain := make([]byte, 8192)

	// interleave audio and side channel data
	const audioChunk = 4096
	const sideChunk = 256
	for len(audio) > 0 || len(side) > 0 {
		if len(audio) > 0 {
			n := audioChunk
			if n > len(audio) {
				n = len(audio)
			}
			consumed, err := enc.Encode(audio[:n], codec.StreamAudio)
			if err != nil {
				log.Fatal(err)
			}
			audio = audio[consumed:]
		}
		if len(side) > 0 {
			n := sideChunk
			if n > len(side) {
				n = len(side)
			}
			if _, err := enc.Encode(side[:n], codec.StreamSideChannel); err != nil {
				log.Fatal(err)
			}
			side = side[n:]
		}
		if err := drainEncoder(enc, out, drain); err != nil {
			log.Fatal(err)
		}
	}

	if err := enc.Finalize(); err != nil {
		log.Fatal(err)
	}
	if err := drainEncoder(enc, out, drain); err != nil {
		log.Fatal(err)
	}
}

func drainEncoder(enc *muxaudio.Encoder, out *os.File, buf []byte) error {
	for {
		n, err := enc.Read(buf)
		if errors.Is(err, codec.ErrNeedMoreData) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := out.Write(buf[:n]); err != nil {
			return err
		}
	}
}

// readWav loads a complete WAV file into memory.
func readWav(path string) ([]int, *ga.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, nil, errors.New("invalid WAV file")
	}

	buf := &ga.IntBuffer{
		Data:   make([]int, 4096),
		Format: dec.Format(),
	}

	var samples []int
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, nil, err
		}
		if n == 0 {
			break
		}
		samples = append(samples, buf.Data[:n]...)
	}
	return samples, dec.Format(), nil
}

// resampleAudio converts the samples to the target rate with libsamplerate.
func resampleAudio(samples []int, channels, from, to int) ([]int, error) {
	src, err := gosamplerate.New(gosamplerate.SRC_SINC_FASTEST, channels, 65536)
	if err != nil {
		return nil, err
	}
	defer gosamplerate.Delete(src)

	in := make([]float32, len(samples))
	for i, s := range samples {
		in[i] = float32(s) / 32768
	}

	out, err := src.Process(in, float64(to)/float64(from), true)
	if err != nil {
		return nil, err
	}

	resampled := make([]int, len(out))
	for i, f := range out {
		s := int(f * 32768)
		if s > 32767 {
			s = 32767
		} else if s < -32768 {
			s = -32768
		}
		resampled[i] = s
	}
	return resampled, nil
}

// samplesToBytes serializes samples as 16-bit little-endian PCM.
func samplesToBytes(samples []int) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[i*2] = byte(uint16(int16(s)))
		out[i*2+1] = byte(uint16(int16(s)) >> 8)
	}
	return out
}
