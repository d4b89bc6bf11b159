/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Sample rate and pitch of the tone.
	///
	sampleRate = 22050
	toneHz     = 441

	/// Samples queued ahead while the tone plays, a little more than one
	/// 60 Hz timer tick.
	///
	toneChunk = sampleRate / 50
)

/// Beeper plays a square wave on an SDL audio device while the CHIP-8
/// sound timer is running.
///
type Beeper struct {
	device sdl.AudioDeviceID
	tone   []byte
	on     bool
}

/// OpenBeeper opens the default audio device for queued 8-bit mono audio.
///
func OpenBeeper() (*Beeper, error) {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	b := &Beeper{
		device: device,
		tone:   squareWave(toneChunk, sampleRate/toneHz),
	}

	// start playing whatever gets queued
	sdl.PauseAudioDevice(device, false)

	return b, nil
}

/// squareWave fills n unsigned 8-bit samples with a wave of the given
/// period, in samples.
///
func squareWave(n, period int) []byte {
	buf := make([]byte, n)

	for i := range buf {
		if i%period < period/2 {
			buf[i] = 0xA0
		} else {
			buf[i] = 0x60
		}
	}

	return buf
}

/// Beep keeps the tone queued while on, and silences it at once when off.
///
func (b *Beeper) Beep(on bool) {
	if !on {
		if b.on {
			sdl.ClearQueuedAudio(b.device)
		}
		b.on = false
		return
	}

	b.on = true

	// keep about two chunks ahead of the device
	if sdl.GetQueuedAudioSize(b.device) < uint32(2*len(b.tone)) {
		_ = sdl.QueueAudio(b.device, b.tone)
	}
}

/// Close stops and releases the audio device.
///
func (b *Beeper) Close() {
	sdl.ClearQueuedAudio(b.device)
	sdl.CloseAudioDevice(b.device)
}
