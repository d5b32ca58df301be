package basebandsink

import "github.com/gordonklaus/portaudio"

// PortAudioSink streams baseband samples to a live sound device via
// gordonklaus/portaudio, demonstrating that the Modulator's injected Sink
// (spec.md §9) can be a real device rather than only an in-memory buffer.
// It uses the library's blocking I/O mode: a fixed-size buffer is bound to
// the stream at open time and Write() sends whatever is currently in it.
type PortAudioSink struct {
	stream *portaudio.Stream
	buf    []int16
}

// NewPortAudioSink opens the default output device's stream at sampleRate
// with one channel of int16 samples, framesPerBuffer frames per call.
func NewPortAudioSink(sampleRate float64, framesPerBuffer int) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	buf := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, framesPerBuffer, &buf)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}

	return &PortAudioSink{stream: stream, buf: buf}, nil
}

// PushSamples writes samples to the device framesPerBuffer at a time,
// blocking until the driver has accepted each chunk.
func (s *PortAudioSink) PushSamples(samples []int16) error {
	for len(samples) > 0 {
		n := copy(s.buf, samples)
		for i := n; i < len(s.buf); i++ {
			s.buf[i] = 0
		}
		if err := s.stream.Write(); err != nil {
			return err
		}
		samples = samples[n:]
	}
	return nil
}

// WaitDrained blocks until the device has finished playing every sample
// pushed so far.
func (s *PortAudioSink) WaitDrained() error {
	return s.stream.Stop()
}

// Close stops the stream and releases the underlying PortAudio resources.
func (s *PortAudioSink) Close() error {
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}
