package store

import (
	"os"
	"path/filepath"

	"github.com/infinivision/blockaccess/block"
	"github.com/infinivision/blockaccess/bytearray"
	"github.com/infinivision/blockaccess/constant"
	"github.com/infinivision/blockaccess/direct"
	"github.com/infinivision/blockaccess/errmsg"
	"github.com/infinivision/blockaccess/mapped"
	"github.com/infinivision/blockaccess/mem"
	"github.com/infinivision/blockaccess/trace"
	"github.com/nnsgmsone/damrey/logger"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func DefaultConfig() Config {
	return Config{
		Mode:         constant.ModeDirect,
		FileName:     "blocks.dat",
		BlockSize:    constant.BlockSize,
		SegmentSize:  constant.SegmentSize,
		GrowthFactor: constant.GrowthFactor,
		SafeMode:     true,
		LogLevel:     logger.ERROR,
		LogWriter:    os.Stderr,
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errmsg.Wrap(errmsg.OpenFailed, err, "config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errmsg.Wrap(errmsg.OpenFailed, err, "config %s", path)
	}
	return cfg, nil
}

func Open(cfg Config) (block.Access, error) {
	if cfg.LogWriter == nil {
		cfg.LogWriter = os.Stderr
	}
	log := logger.New(cfg.LogWriter, "blockaccess")
	log.SetLevel(cfg.LogLevel)
	a, err := open(cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.Trace {
		return trace.New(a, log), nil
	}
	return a, nil
}

func open(cfg Config, log logger.Log) (block.Access, error) {
	switch cfg.Mode {
	case constant.ModeDirect:
		if err := checkDir(filepath.Dir(cfg.FileName)); err != nil {
			return nil, err
		}
		d, err := direct.New(cfg.FileName, cfg.BlockSize, log)
		if err != nil {
			return nil, err
		}
		return d, nil
	case constant.ModeMapped:
		if err := checkDir(filepath.Dir(cfg.FileName)); err != nil {
			return nil, err
		}
		m, err := mapped.New(cfg.FileName, cfg.BlockSize, cfg.SegmentSize, cfg.GrowthFactor, log)
		if err != nil {
			return nil, err
		}
		return m, nil
	case constant.ModeMem:
		m, err := mem.New(cfg.FileName, cfg.BlockSize, cfg.SafeMode, log)
		if err != nil {
			return nil, err
		}
		return m, nil
	case constant.ModeBytes:
		return bytearray.New(cfg.FileName, log), nil
	}
	return nil, errmsg.Wrap(errmsg.UnknownMode, nil, "%q", cfg.Mode)
}

func checkDir(dir string) error {
	st, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.FileMode(0775)); err != nil {
			return errmsg.Wrap(errmsg.OpenFailed, err, "%s", dir)
		}
		return nil
	}
	if err != nil {
		return errmsg.Wrap(errmsg.OpenFailed, err, "%s", dir)
	}
	if !st.IsDir() {
		return errmsg.Wrap(errmsg.OpenFailed, errors.New("not a directory"), "%s", dir)
	}
	return nil
}
