package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/ralt/pkgcompare/internal/compare"
	"github.com/ralt/pkgcompare/internal/models"
	"github.com/ralt/pkgcompare/internal/output"
	"github.com/ralt/pkgcompare/internal/signer"
	"github.com/ralt/pkgcompare/internal/source"
	"github.com/ralt/pkgcompare/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// NewCompareCmd creates the compare command
func NewCompareCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the packages of two branches",
		Long: `Fetches the binary packages of the base and candidate branches,
compares them and writes the selected result to <output-dir>/<output>.json.

Every flag can also be set in .pkgcompare.yaml or through a
PKGCOMPARE_<FLAG> environment variable (dashes become underscores).`,
		Example: `  pkgcompare compare --arch x86_64 --output higher_in_sisyphus
  pkgcompare compare --base p11 --candidate sisyphus --shape flat --compress xz
  pkgcompare compare --base-dir ./p10/RPMS --candidate-dir ./sisyphus/RPMS`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(v, cmd)
			if err != nil {
				return err
			}

			opts, err := validateConfig(config)
			if err != nil {
				return err
			}

			logrus.Info("Starting branch comparison...")
			logrus.Debugf("Configuration: %+v", redacted(config))

			return runComparison(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	// Branch flags
	cmd.Flags().String("base", defaultBase, "Base branch")
	cmd.Flags().String("candidate", defaultCandidate, "Candidate branch")
	cmd.Flags().StringP("arch", "a", "", "Only compare packages of this architecture")
	cmd.Flags().StringSlice("known-branches", source.DefaultKnownBranches, "Branches served by the package database")

	// Package source flags
	cmd.Flags().String("base-url", source.DefaultBaseURL, "Package database API URL")
	cmd.Flags().Duration("timeout", source.DefaultTimeout, "Timeout of a single branch request")
	cmd.Flags().String("base-dir", "", "Read the base branch from a directory of .rpm files")
	cmd.Flags().String("candidate-dir", "", "Read the candidate branch from a directory of .rpm files")

	// Comparison flags
	cmd.Flags().String("key", "arch-name", "Package identity: arch-name or name")
	cmd.Flags().String("shape", "grouped", "Report shape: grouped or flat")

	// Output flags
	cmd.Flags().StringP("output", "o", output.SelectAll,
		"Result to write: only_in_<base>, only_in_<candidate>, higher_in_<candidate> or all_packages")
	cmd.Flags().String("output-dir", ".", "Output directory")
	cmd.Flags().String("compress", "none", "Compress the output file: none, gzip or xz")
	cmd.Flags().String("checksum", "none", "Write <output file>.<algorithm> with a checksum: none, md5, sha1, sha256 or sha512")
	cmd.Flags().String("color", "auto", "Colorize the summary table: yes, no or auto")

	// GPG signing flags
	cmd.Flags().StringP("gpg-key", "k", "", "Path to GPG private key used to sign the output file")
	cmd.Flags().StringP("gpg-passphrase", "p", "", "GPG key passphrase")

	return cmd
}

// runOptions is a validated configuration with its enumerations parsed
type runOptions struct {
	config      *models.CompareConfig
	policy      compare.KeyPolicy
	shape       compare.Shape
	compression utils.Compression
	checksum    utils.HashType
	useColors   bool
}

func validateConfig(config *models.CompareConfig) (*runOptions, error) {
	invalid := func(subject string, err error) error {
		return models.NewError(models.ErrInvalidConfig, subject, err)
	}

	config.Base = strings.TrimSpace(config.Base)
	config.Candidate = strings.TrimSpace(config.Candidate)
	if config.Base == "" {
		return nil, invalid("base", fmt.Errorf("base branch is required"))
	}
	if config.Candidate == "" {
		return nil, invalid("candidate", fmt.Errorf("candidate branch is required"))
	}
	if config.Base == config.Candidate {
		return nil, invalid("candidate", fmt.Errorf("base and candidate are both %q", config.Base))
	}

	if config.OutputDir == "" {
		return nil, invalid("output-dir", fmt.Errorf("output-dir is required"))
	}
	if config.Timeout <= 0 {
		return nil, invalid("timeout", fmt.Errorf("timeout must be positive, got %s", config.Timeout))
	}

	opts := &runOptions{config: config}
	var err error
	if opts.policy, err = compare.ParseKeyPolicy(config.KeyPolicy); err != nil {
		return nil, invalid("key", err)
	}
	if opts.shape, err = compare.ParseShape(config.Shape); err != nil {
		return nil, invalid("shape", err)
	}
	if opts.compression, err = utils.ParseCompression(config.Compression); err != nil {
		return nil, invalid("compress", err)
	}
	if opts.checksum, err = utils.ParseHashType(config.Checksum); err != nil {
		return nil, invalid("checksum", err)
	}
	if opts.useColors, err = resolveColors(config.Color); err != nil {
		return nil, invalid("color", err)
	}

	// bucket names derive from the branch names
	result := compare.Result{Base: config.Base, Candidate: config.Candidate}
	selectors := append(result.BucketNames(), output.SelectAll)
	if !slices.Contains(selectors, config.Output) {
		return nil, invalid("output", fmt.Errorf("unknown output %q (want one of %s)",
			config.Output, strings.Join(selectors, ", ")))
	}

	return opts, nil
}

func resolveColors(mode string) (bool, error) {
	switch strings.ToLower(mode) {
	case "yes", "always", "true":
		return true, nil
	case "no", "never", "false":
		return false, nil
	case "", "auto":
		return !color.NoColor, nil
	default:
		return false, fmt.Errorf("unknown color mode %q (want yes, no or auto)", mode)
	}
}

func redacted(config *models.CompareConfig) models.CompareConfig {
	c := *config
	if c.GPGPassphrase != "" {
		c.GPGPassphrase = "***"
	}
	return c
}

func newSource(config *models.CompareConfig, dir string) source.Source {
	if dir != "" {
		return source.NewRPMDir(dir)
	}
	return source.NewAPIClient(config.BaseURL, config.Timeout, config.KnownBranches)
}

func runComparison(ctx context.Context, opts *runOptions, stdout io.Writer) error {
	config := opts.config

	// Step 1: Initialize signer and output directory before any download
	var sig signer.Signer
	if config.GPGKeyPath != "" {
		gpgSigner, err := signer.NewGPGSigner(config.GPGKeyPath, config.GPGPassphrase)
		if err != nil {
			return models.NewError(models.ErrSigning, config.GPGKeyPath,
				fmt.Errorf("failed to initialize GPG signer: %w", err))
		}
		logrus.Infof("GPG signer initialized (key %s)", gpgSigner.Fingerprint())
		sig = gpgSigner
	}

	if err := utils.EnsureDir(config.OutputDir); err != nil {
		return models.NewError(models.ErrFileOp, config.OutputDir, err)
	}

	// Step 2: Fetch both branches, the first failure cancels the other
	baseSrc := newSource(config, config.BaseDir)
	candidateSrc := newSource(config, config.CandidateDir)

	var base, candidate *models.BranchPackages
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = baseSrc.Fetch(gctx, config.Base, config.Arch)
		return err
	})
	g.Go(func() error {
		var err error
		candidate, err = candidateSrc.Fetch(gctx, config.Candidate, config.Arch)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logPackages(base)
	logPackages(candidate)

	// Step 3: Compare
	result := compare.NewEngine(opts.policy).Compare(base, candidate)
	logrus.Infof("%d packages only in %s, %d only in %s, %d higher in %s",
		len(result.OnlyInBase), result.Base,
		len(result.OnlyInCandidate), result.Candidate,
		len(result.HigherInCandidate), result.Candidate)

	report, err := result.Report(opts.shape)
	if err != nil {
		return err
	}

	if err := output.WriteSummary(stdout, report, output.SummaryOptions{
		UseColors: opts.useColors,
		Base:      config.Base,
		Candidate: config.Candidate,
	}); err != nil {
		return fmt.Errorf("error writing summary: %w", err)
	}

	// Step 4: Write the selected result
	payload, err := output.Payload(report, config.Output, config.Arch)
	if err != nil {
		return models.NewError(models.ErrInvalidConfig, "output", err)
	}

	path, err := output.NewWriter(config.OutputDir, opts.compression, opts.checksum, sig).Save(config.Output, payload)
	if err != nil {
		return err
	}

	logrus.Info("Comparison completed successfully!")
	logrus.Infof("Output file: %s", path)
	return nil
}

func logPackages(pkgs *models.BranchPackages) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	for _, p := range pkgs.Packages {
		logrus.Debugf("%s: name: %s, release: %s, version: %s", pkgs.Branch, p.Name, p.Release, p.Version)
	}
}
