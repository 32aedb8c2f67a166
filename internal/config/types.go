package config

// Config is the root of the netgrep TOML configuration.
type Config struct {
	General *GeneralConfig `toml:"general" validate:"required"`
	Aliases []*AliasConfig `toml:"alias,omitempty" validate:"dive"`

	_absConfigFilePath string
}

// GeneralConfig holds tool-wide settings.
type GeneralConfig struct {
	// FilePattern is the default glob searched when -f is not given.
	// A leading ~ or $HOME is expanded at load time.
	FilePattern string `toml:"file_pattern" validate:"required"`

	// MaxExpand caps the total number of addresses a single invocation
	// may expand to. Guards against /8-sized typos.
	MaxExpand int `toml:"max_expand" validate:"required,min=1"`

	// FallbackDNS is queried for alias hostnames when resolv.conf is
	// unusable. Empty means resolv.conf only.
	FallbackDNS string `toml:"fallback_dns,omitempty" validate:"omitempty,ip4_addr"`
}

// AliasConfig maps a symbolic region name to its member networks.
// Exactly one of Hosts or File must be set. Entries may be bare IPv4
// addresses, CIDR blocks or DNS hostnames.
type AliasConfig struct {
	Name  string   `toml:"name" validate:"required,alias_name"`
	Hosts []string `toml:"hosts,omitempty"`
	File  string   `toml:"file,omitempty"`
}

// Type returns the source type of the alias, for diagnostics.
func (a *AliasConfig) Type() string {
	if a.File != "" {
		return "file"
	}
	return "hosts"
}
