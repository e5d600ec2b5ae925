package strider

// Options contains per-request configuration for a chat provider call.
type Options struct {
	// Model overrides the provider's default model.
	Model string

	// MaxTokens limits the response length. Providers apply their own
	// default when 0.
	MaxTokens int

	// Temperature controls sampling randomness. Nil leaves the provider default.
	Temperature *float64

	// Tools is the catalogue of callable tools advertised to the model.
	Tools []Tool

	// ToolChoice controls how the model uses the advertised tools.
	ToolChoice ToolChoice
}

// Option is a functional option for configuring a chat request.
type Option func(*Options)

// WithModel sets the model for this request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens limits the response length.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithTools advertises tools to the model for this request.
func WithTools(tools []Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithToolChoice controls how the model uses the advertised tools.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
