package proteintree

import (
	"io"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// IndexConf holds the construction parameters of a protein tree.
type IndexConf struct {
	// Length of the tags used as root keys. Peptides shorter than this
	// cannot be looked up.
	InitialTagSize int `mapstructure:"initial-tag-size" yaml:"initial-tag-size"`

	// Nodes holding more occurrences than this are split on the next
	// residue. Large nodes are fast to build and slow to query.
	MaxNodeSize int `mapstructure:"max-node-size" yaml:"max-node-size"`

	// Length of the longest peptide that will be looked up. Nodes at this
	// depth are never split, however large. Zero means no limit.
	MaxPeptideSize int `mapstructure:"max-peptide-size" yaml:"max-peptide-size"`

	// Number of goroutines used to build the tree. Zero means one per CPU.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// Number of peptide lookups to remember. Zero disables the cache.
	CacheSize int `mapstructure:"cache-size" yaml:"cache-size"`
}

var DefaultIndexConf = IndexConf{
	InitialTagSize: 3,
	MaxNodeSize:    500,
	MaxPeptideSize: 0,
	Workers:        0,
	CacheSize:      10000,
}

// Validate checks the parameters and returns an error wrapping ErrUsage for
// the first one that is out of range.
func (conf IndexConf) Validate() error {
	if conf.InitialTagSize < 1 {
		return usageErrorf("initial tag size must be at least 1, got %d",
			conf.InitialTagSize)
	}
	if conf.MaxNodeSize < 1 {
		return usageErrorf("max node size must be at least 1, got %d",
			conf.MaxNodeSize)
	}
	if conf.MaxPeptideSize < 0 {
		return usageErrorf("max peptide size cannot be negative, got %d",
			conf.MaxPeptideSize)
	}
	if conf.MaxPeptideSize > 0 && conf.MaxPeptideSize < conf.InitialTagSize {
		return usageErrorf("max peptide size %d is shorter than the tag size %d",
			conf.MaxPeptideSize, conf.InitialTagSize)
	}
	if conf.Workers < 0 {
		return usageErrorf("worker count cannot be negative, got %d",
			conf.Workers)
	}
	if conf.CacheSize < 0 {
		return usageErrorf("cache size cannot be negative, got %d",
			conf.CacheSize)
	}
	return nil
}

func (conf IndexConf) workers() int {
	if conf.Workers > 0 {
		return conf.Workers
	}
	return max(1, runtime.GOMAXPROCS(0))
}

// LoadIndexConf reads a YAML configuration. Missing keys keep their
// DefaultIndexConf values.
func LoadIndexConf(r io.Reader) (IndexConf, error) {
	conf := DefaultIndexConf
	if err := yaml.NewDecoder(r).Decode(&conf); err != nil && err != io.EOF {
		return IndexConf{}, errors.Wrap(err, "could not decode index configuration")
	}
	if err := conf.Validate(); err != nil {
		return IndexConf{}, err
	}
	return conf, nil
}

func (conf IndexConf) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(conf); err != nil {
		return err
	}
	return enc.Close()
}
