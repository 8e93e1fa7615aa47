package store

import "io"

// Config selects and tunes the backend opened by Open.
type Config struct {
	// Mode is one of direct, mapped, mem or bytes.
	Mode string `yaml:"mode"`
	// FileName is the backing file, or the label of in-memory stores.
	FileName     string `yaml:"fileName"`
	BlockSize    int    `yaml:"blockSize"`
	SegmentSize  int    `yaml:"segmentSize"`
	GrowthFactor int    `yaml:"growthFactor"`
	SafeMode     bool   `yaml:"safeMode"`
	Trace        bool   `yaml:"trace"`
	// LogLevel is handed to damrey, which prints every level up to it.
	LogLevel  int       `yaml:"logLevel"`
	LogWriter io.Writer `yaml:"-"`
}
