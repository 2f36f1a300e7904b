package logger

import "io"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Option applies a configuration option to Init.
type Option func(*options)

type options struct {
	out    io.Writer
	errOut io.Writer
	format string
}

// WithOutput sets the writers for regular records and for error records.
func WithOutput(out, errOut io.Writer) Option {
	return func(o *options) {
		if out != nil {
			o.out = out
		}
		if errOut != nil {
			o.errOut = errOut
		}
	}
}

// WithFormat selects text or json encoding. Unknown values keep text.
func WithFormat(format string) Option {
	return func(o *options) {
		if format == FormatJSON || format == FormatText {
			o.format = format
		}
	}
}
