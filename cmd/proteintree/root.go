package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ndaniels/proteintree"
)

var (
	flagConfig     = ""
	flagCpuProfile = ""
	flagMemProfile = ""

	cpuProfiling = false
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "proteintree",
	Short: "Map peptides back to the proteins containing them",
	Long: `
proteintree indexes a protein FASTA database and finds every protein, and
every position, where a peptide occurs. With an enzyme, only peptides
starting at a protein's N-terminus or right after a cleavage site are
indexed.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfiles()
	},
}

func init() {
	conf := proteintree.DefaultIndexConf
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&flagConfig, "config", flagConfig,
		"YAML file with default values for any of the flags below.")
	flags.String("fasta", "",
		"The protein FASTA database to index.")
	flags.String("enzyme", "",
		"Only index peptides produced by this enzyme.\n"+
			"'proteintree enzymes' lists the known enzymes.")
	flags.String("enzymes-file", "",
		"YAML file with extra enzymes.")
	flags.String("ignore", "",
		"Residues replaced with 'X' when reading the database.")
	flags.Int("initial-tag-size", conf.InitialTagSize,
		"The length of the tags at the root of the tree.\n"+
			"Shorter peptides cannot be looked up.")
	flags.Int("max-node-size", conf.MaxNodeSize,
		"Nodes with more occurrences than this are split.")
	flags.Int("max-peptide-size", conf.MaxPeptideSize,
		"The longest peptide that will be looked up. Nodes this deep are\n"+
			"never split. Zero means no limit.")
	flags.Int("workers", conf.Workers,
		"The number of goroutines building the index. Zero means one per CPU.")
	flags.Int("cache-size", conf.CacheSize,
		"The number of lookups to cache. Zero disables the cache.")
	flags.Bool("quiet", false,
		"When set, the only outputs will be errors echoed to stderr.")
	flags.StringVar(&flagCpuProfile, "cpuprofile", flagCpuProfile,
		"When set, a CPU profile will be written to the file specified.")
	flags.StringVar(&flagMemProfile, "memprofile", flagMemProfile,
		"When set, a memory profile will be written to the file specified.")

	for _, name := range []string{
		"fasta", "enzyme", "enzymes-file", "ignore", "initial-tag-size",
		"max-node-size", "max-peptide-size", "workers", "cache-size", "quiet",
	} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetEnvPrefix("proteintree")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func setup(cmd *cobra.Command, args []string) error {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "could not read config '%s'", flagConfig)
		}
	}

	// If the quiet flag isn't set, enable verbose output.
	if !viper.GetBool("quiet") {
		logger, err := zap.NewDevelopment(zap.WithCaller(false))
		if err != nil {
			return errors.Wrap(err, "could not create logger")
		}
		proteintree.SetLogger(logger.Sugar())
		proteintree.Verbose = true
	}

	if len(flagCpuProfile) > 0 {
		f, err := os.Create(flagCpuProfile)
		if err != nil {
			return errors.Wrapf(err, "could not create '%s'", flagCpuProfile)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return errors.Wrap(err, "could not start CPU profile")
		}
		cpuProfiling = true
	}
	return nil
}

func stopProfiles() {
	if cpuProfiling {
		pprof.StopCPUProfile()
		cpuProfiling = false
	}
	if len(flagMemProfile) > 0 {
		writeMemProfile(flagMemProfile)
	}
}

func writeMemProfile(name string) {
	f, err := os.Create(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not create memory profile '%s': %s\n", name, err)
		return
	}
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		fmt.Fprintf(os.Stderr, "Could not write memory profile '%s': %s\n", name, err)
	}
}

// indexConf reads the construction parameters from flags, the environment
// and the config file.
func indexConf() (proteintree.IndexConf, error) {
	conf := proteintree.DefaultIndexConf
	if err := viper.Unmarshal(&conf); err != nil {
		return conf, errors.Wrap(err, "could not read index configuration")
	}
	return conf, conf.Validate()
}

// oracle returns the enzyme named by --enzyme, or nil when none is set.
func oracle() (proteintree.CleavageOracle, error) {
	name := viper.GetString("enzyme")
	if name == "" {
		return nil, nil
	}
	extra, err := extraEnzymes()
	if err != nil {
		return nil, err
	}
	e, ok := proteintree.FindEnzyme(name, extra...)
	if !ok {
		return nil, errors.Errorf("unknown enzyme '%s'", name)
	}
	return e, nil
}

func extraEnzymes() ([]proteintree.Enzyme, error) {
	fileName := viper.GetString("enzymes-file")
	if fileName == "" {
		return nil, nil
	}
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open '%s'", fileName)
	}
	defer f.Close()
	return proteintree.ReadEnzymes(f)
}

// buildIndex indexes the --fasta database. An interrupt cancels the build.
func buildIndex(ctx context.Context) (*proteintree.Index, error) {
	fasta := viper.GetString("fasta")
	if fasta == "" {
		return nil, errors.New("a FASTA database must be given with --fasta")
	}
	conf, err := indexConf()
	if err != nil {
		return nil, err
	}
	enzyme, err := oracle()
	if err != nil {
		return nil, err
	}
	seqs, err := proteintree.NewFastaSequences(fasta,
		[]byte(strings.ToUpper(viper.GetString("ignore"))))
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	bar := &proteintree.ProgressBar{}
	idx, err := proteintree.Build(ctx, seqs, conf, enzyme, bar)
	proteintree.Vprint("\n")
	if err != nil {
		return nil, err
	}
	return idx, nil
}
