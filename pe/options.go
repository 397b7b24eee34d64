// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

type options struct {
	maxSize     int64
	maxSections int
	strict      bool
}

// Option configures Decode.
type Option func(o *options)

// WithMaxSize makes Decode reject buffers longer than n bytes with
// ErrBufferTooLarge. n <= 0 means no limit.
func WithMaxSize(n int64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// WithMaxSections makes Decode reject images declaring more than n sections
// with ErrTooManySections. n <= 0 means no limit.
func WithMaxSections(n int) Option {
	return func(o *options) {
		o.maxSections = n
	}
}

// WithStrict makes Decode fail with the first Warning instead of attaching
// warnings to the returned Image.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}
