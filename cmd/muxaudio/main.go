package main

import (
	// register the cgo codec adapters
	_ "github.com/vampirefrog/muxaudio/codec/aac"
	_ "github.com/vampirefrog/muxaudio/codec/amr"
	_ "github.com/vampirefrog/muxaudio/codec/amrwb"
	_ "github.com/vampirefrog/muxaudio/codec/opus"
)

func main() {
	Execute()
}
