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
	"io"
	"log"
	"os"

	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"
	"github.com/spf13/cobra"

	"github.com/vampirefrog/muxaudio"
	"github.com/vampirefrog/muxaudio/codec"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <input> <output.wav>",
	Short: "Decode a multiplexed audio stream into a WAV file",
	Long: `Decode a multiplexed audio stream into a WAV file.

Side channel payloads are written to the file given with --side. The
stream format carries no codec identifier, so the codec and stream
count must match the ones used for encoding.`,
	Args: cobra.ExactArgs(2),
	Run:  runDecode,
}

func init() {
	RootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringP("codec", "c", "opus", "audio codec (see 'muxaudio codecs')")
	decodeCmd.Flags().Int("streams", 2, "stream count the input was encoded with")
	decodeCmd.Flags().IntP("sample-rate", "r", 48000, "sample rate of the decoded audio in Hz")
	decodeCmd.Flags().Int("channels", 1, "number of audio channels")
	decodeCmd.Flags().StringP("side", "s", "", "file receiving the side channel payloads")
}

func runDecode(cmd *cobra.Command, args []string) {
	codecName, _ := cmd.Flags().GetString("codec")
	streams, _ := cmd.Flags().GetInt("streams")
	rate, _ := cmd.Flags().GetInt("sample-rate")
	channels, _ := cmd.Flags().GetInt("channels")
	sideFile, _ := cmd.Flags().GetString("side")

	c, err := muxaudio.CodecByName(codecName)
	if err != nil {
		log.Fatal(err)
	}

	// codecs with a fixed sample rate override the flag
	if rates, err := muxaudio.SupportedSampleRates(c); err == nil {
		if !rates.IsRange && len(rates.Rates) == 1 {
			rate = rates.Rates[0]
			channels = 1
		}
	}

	dec, err := muxaudio.NewDecoder(c, streams, []codec.Param{
		{Name: "sample_rate", Value: rate},
		{Name: "channels", Value: channels},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer dec.Close()

	in, err := os.Open(args[0])
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	out, err := os.Create(args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	wavEnc := wav.NewEncoder(out, rate, 16, channels, 1)

	var side *os.File
	if sideFile != "" {
		side, err = os.Create(sideFile)
		if err != nil {
			log.Fatal(err)
		}
		defer side.Close()
	}

	chunk := make([]byte, 4096)
	drain := make([]byte, 65536)
	for {
		n, err := in.Read(chunk)
		if n > 0 {
			if _, derr := dec.Decode(chunk[:n]); derr != nil {
				log.Fatal(derr)
			}
			if derr := drainDecoder(dec, wavEnc, side, rate, channels, drain); derr != nil {
				log.Fatal(derr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
	}

	if err := dec.Finalize(); err != nil {
		log.Fatal(err)
	}
	if err := drainDecoder(dec, wavEnc, side, rate, channels, drain); err != nil {
		log.Fatal(err)
	}

	if err := wavEnc.Close(); err != nil {
		log.Fatal(err)
	}
}

func drainDecoder(dec *muxaudio.Decoder, wavEnc *wav.Encoder, side *os.File, rate, channels int, buf []byte) error {
	for {
		n, stream, err := dec.Read(buf)
		if errors.Is(err, codec.ErrNeedMoreData) {
			return nil
		}
		if err != nil {
			return err
		}

		if stream == codec.StreamSideChannel {
			if side == nil {
				log.Printf("dropping %d side channel bytes (no --side file)", n)
				continue
			}
			if _, err := side.Write(buf[:n]); err != nil {
				return err
			}
			continue
		}

		pcm := &ga.IntBuffer{
			Data: make([]int, n/2),
			Format: &ga.Format{
				SampleRate:  rate,
				NumChannels: channels,
			},
		}
		for i := range pcm.Data {
			pcm.Data[i] = int(int16(uint16(buf[i*2]) | uint16(buf[i*2+1])<<8))
		}
		if err := wavEnc.Write(pcm); err != nil {
			return err
		}
	}
}
