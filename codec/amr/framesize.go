package amr

import "github.com/vampirefrog/muxaudio/codec"

// frameSizes gives the total encoded frame size in bytes, including the
// mode byte, for each AMR-NB frame type. Zero marks a reserved type.
var frameSizes = [16]int{
	13, // mode 0: 4.75 kbps
	14, // mode 1: 5.15 kbps
	16, // mode 2: 5.90 kbps
	18, // mode 3: 6.70 kbps
	20, // mode 4: 7.40 kbps
	21, // mode 5: 7.95 kbps
	27, // mode 6: 10.2 kbps
	32, // mode 7: 12.2 kbps
	6,  // mode 8: SID (comfort noise)
	0, 0, 0, 0, 0, 0, // modes 9-14: reserved
	1, // mode 15: NO_DATA
}

// FrameSize returns the size in bytes of the encoded frame announced by its
// leading mode byte. The frame type sits in bits 3-6 of the byte. A
// reserved frame type is reported as a decoding error; callers never see a
// sentinel size.
func FrameSize(modeByte byte) (int, error) {
	frameType := (modeByte >> 3) & 0x0f
	size := frameSizes[frameType]
	if size == 0 {
		return 0, codec.Errorf(codec.Decoding,
			"reserved AMR frame type %d", frameType)
	}
	return size, nil
}
