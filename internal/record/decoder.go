package record

import (
	"errors"
	"fmt"
	"io"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/ascan"
)

var (
	ErrTruncated      = errors.New("record truncated")
	ErrInvalidChannel = errors.New("invalid channel index")
)

// StopReason tells why decoding completed.
type StopReason int

const (
	StopNone StopReason = iota
	StopEndOfStream
	StopTruncated
	StopInvalidChannel
	StopRecordLimit
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "running"
	case StopEndOfStream:
		return "end_of_stream"
	case StopTruncated:
		return "truncated"
	case StopInvalidChannel:
		return "invalid_channel"
	case StopRecordLimit:
		return "record_limit"
	default:
		return "unknown"
	}
}

// Partial reports whether the stop left unread or undecodable bytes behind.
func (r StopReason) Partial() bool {
	return r == StopTruncated || r == StopInvalidChannel
}

// StopState records where and why the decoder reached its terminal state.
// Offset is the start of the record that triggered the stop.
type StopState struct {
	Reason  StopReason
	Offset  int64
	Records int
	Channel int
}

// StopError is returned instead of io.EOF by a strict decoder when the stream
// ends on a truncated record or an invalid channel byte.
type StopError struct {
	StopState
	err error
}

func (e *StopError) Error() string {
	if e.Reason == StopInvalidChannel {
		return fmt.Sprintf("%v %d at offset %d after %d records", e.err, e.Channel, e.Offset, e.Records)
	}
	return fmt.Sprintf("%v at offset %d after %d records", e.err, e.Offset, e.Records)
}

func (e *StopError) Unwrap() error { return e.err }

// Scan is one decoded record.
type Scan struct {
	Channel  int
	Offset   int64
	Waveform ascan.Waveform
}

// DecoderOption tunes a Decoder.
type DecoderOption func(*Decoder)

// WithStrict makes truncation and invalid channel bytes surface as *StopError.
func WithStrict() DecoderOption {
	return func(d *Decoder) { d.strict = true }
}

// WithMaxRecords stops decoding after n records have been read. n <= 0 means
// no limit.
func WithMaxRecords(n int) DecoderOption {
	return func(d *Decoder) { d.maxRecords = n }
}

// Decoder walks a .utd byte stream one fixed-size record at a time. It is the
// only owner of the stream position.
type Decoder struct {
	r          io.Reader
	layout     Layout
	buf        []byte
	offset     int64
	records    int
	maxRecords int
	strict     bool
	stop       StopState
	err        error
}

// NewDecoder validates the layout and prepares a decoder over r.
func NewDecoder(r io.Reader, layout Layout, opts ...DecoderOption) (*Decoder, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	d := &Decoder{
		r:      r,
		layout: layout,
		buf:    make([]byte, layout.RecordSize()),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Layout returns the layout the decoder was built with.
func (d *Decoder) Layout() Layout { return d.layout }

// Offset is the number of bytes consumed so far.
func (d *Decoder) Offset() int64 { return d.offset }

// Stop returns the terminal state. Reason is StopNone while decoding.
func (d *Decoder) Stop() StopState { return d.stop }

// Next decodes the next record. It returns io.EOF once decoding is complete:
// at end of stream, on a truncated record, on an out-of-range channel byte or
// when the record limit is hit. A strict decoder returns *StopError for the
// truncated and invalid-channel cases. Other read errors are returned as is.
func (d *Decoder) Next() (Scan, error) {
	if d.err != nil {
		return Scan{}, d.err
	}
	if d.maxRecords > 0 && d.records >= d.maxRecords {
		return Scan{}, d.finish(d.offset, StopRecordLimit, -1)
	}
	start := d.offset
	n, err := io.ReadFull(d.r, d.buf)
	d.offset += int64(n)
	switch {
	case errors.Is(err, io.EOF):
		return Scan{}, d.finish(start, StopEndOfStream, -1)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return Scan{}, d.finish(start, StopTruncated, -1)
	case err != nil:
		d.err = fmt.Errorf("read record at offset %d: %w", start, err)
		return Scan{}, d.err
	}
	ch := int(d.buf[d.layout.HeaderBytes])
	if ch >= d.layout.Channels {
		return Scan{}, d.finish(start, StopInvalidChannel, ch)
	}
	d.records++
	payload := d.buf[d.layout.payloadOffset():]
	return Scan{
		Channel:  ch,
		Offset:   start,
		Waveform: d.layout.Policy.Normalize(payload),
	}, nil
}

func (d *Decoder) finish(offset int64, reason StopReason, ch int) error {
	d.stop = StopState{Reason: reason, Offset: offset, Records: d.records, Channel: ch}
	if d.strict && reason.Partial() {
		var cause error = ErrTruncated
		if reason == StopInvalidChannel {
			cause = ErrInvalidChannel
		}
		d.err = &StopError{StopState: d.stop, err: cause}
		return d.err
	}
	d.err = io.EOF
	return d.err
}
