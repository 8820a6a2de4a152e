package g711

const (
	mulawBias = 0x84
	mulawClip = 32635
	alawClip  = 32635
)

// EncodeALaw compresses one 16-bit linear PCM sample to an 8-bit A-law
// companded sample. The result is XORed with 0x55 (the alternating pattern
// G.711 specifies for transmission).
func EncodeALaw(pcm int16) byte {
	sign := byte(pcm>>8) & 0x80
	if sign != 0 {
		pcm = -pcm
	}
	if pcm > alawClip {
		pcm = alawClip
	}

	sample := int(pcm)
	var exponent int
	var mantissa int
	if sample < 256 {
		exponent = 0
		mantissa = sample >> 4
	} else {
		for exponent = 1; exponent < 8; exponent++ {
			if sample < 256<<exponent {
				break
			}
		}
		mantissa = (sample >> (exponent + 3)) & 0x0f
	}

	return (sign | byte(exponent<<4) | byte(mantissa)) ^ 0x55
}

// DecodeALaw expands one 8-bit A-law sample back to 16-bit linear PCM.
func DecodeALaw(alaw byte) int16 {
	alaw ^= 0x55

	sign := alaw & 0x80
	exponent := int(alaw>>4) & 0x07
	mantissa := int(alaw) & 0x0f

	var sample int
	if exponent == 0 {
		sample = mantissa<<4 + 8
	} else {
		sample = (mantissa<<4 + 264) << (exponent - 1)
	}

	if sign != 0 {
		return int16(-sample)
	}
	return int16(sample)
}

// EncodeMuLaw compresses one 16-bit linear PCM sample to an 8-bit mu-law
// companded sample. Mu-law stores the result with all bits inverted.
func EncodeMuLaw(pcm int16) byte {
	sign := byte(pcm>>8) & 0x80
	if sign != 0 {
		pcm = -pcm
	}
	if pcm > mulawClip {
		pcm = mulawClip
	}

	sample := int(pcm) + mulawBias

	exponent := 7
	for ; exponent > 0; exponent-- {
		if sample&(1<<(exponent+7)) != 0 {
			break
		}
	}
	mantissa := (sample >> (exponent + 3)) & 0x0f

	return ^(sign | byte(exponent<<4) | byte(mantissa))
}

// DecodeMuLaw expands one 8-bit mu-law sample back to 16-bit linear PCM.
func DecodeMuLaw(mulaw byte) int16 {
	mulaw = ^mulaw

	sign := mulaw & 0x80
	exponent := int(mulaw>>4) & 0x07
	mantissa := int(mulaw) & 0x0f

	sample := (mantissa<<3+mulawBias)<<exponent - mulawBias

	if sign != 0 {
		return int16(-sample)
	}
	return int16(sample)
}
