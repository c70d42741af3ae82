package models

import "time"

// CompareConfig contains the resolved configuration of a comparison run
type CompareConfig struct {
	// Remote package database
	BaseURL string        `mapstructure:"base-url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// Branches
	Base          string   `mapstructure:"base"`
	Candidate     string   `mapstructure:"candidate"`
	KnownBranches []string `mapstructure:"known-branches"`

	// Local directories of .rpm files used instead of the API
	BaseDir      string `mapstructure:"base-dir"`
	CandidateDir string `mapstructure:"candidate-dir"`

	// Comparison
	Arch      string `mapstructure:"arch"`
	KeyPolicy string `mapstructure:"key"`   // arch-name or name
	Shape     string `mapstructure:"shape"` // grouped or flat

	// Output
	Output      string `mapstructure:"output"` // bucket name or all_packages
	OutputDir   string `mapstructure:"output-dir"`
	Compression string `mapstructure:"compress"` // none, gzip, xz
	Color       string `mapstructure:"color"`    // yes, no, auto
	Checksum    string `mapstructure:"checksum"` // none, md5, sha1, sha256, sha512

	// Signing
	GPGKeyPath    string `mapstructure:"gpg-key"`
	GPGPassphrase string `mapstructure:"gpg-passphrase"`
}
