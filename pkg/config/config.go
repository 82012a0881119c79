package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "EPISODEMERGE"

// ConfigName is the base name of the project configuration file; viper picks
// the extension (.yaml, .yml, .toml, .json).
const ConfigName = ".episodemerge"

// Config holds all configuration for episodemerge
type Config struct {
	ProjectDirectory    string          `mapstructure:"project_directory"`
	BuildDirectory      string          `mapstructure:"build_directory"`
	BaseDirectory       string          `mapstructure:"base_directory"`
	Verbose             bool            `mapstructure:"verbose"`
	EpisodeFiles        []string        `mapstructure:"episode_files"`
	ExcludeFiles        []string        `mapstructure:"exclude_files"`
	UseJakartaNamespace bool            `mapstructure:"use_jakarta_namespace"`
	Strategy            string          `mapstructure:"strategy"`
	AcceptNamespaces    []string        `mapstructure:"accept_namespaces"`
	Resources           ResourcesConfig `mapstructure:"resources"`

	// ConfigFile is the file the values were read from, empty when none was found
	ConfigFile string `mapstructure:"-"`
}

// ResourcesConfig locates the resource list to reconcile
type ResourcesConfig struct {
	Manifest string `mapstructure:"manifest"`
	POM      string `mapstructure:"pom"`
	Output   string `mapstructure:"output"`
}

var defaultConfig = Config{
	ProjectDirectory:    ".",
	EpisodeFiles:        []string{episode.DefaultPattern},
	ExcludeFiles:        []string{},
	UseJakartaNamespace: true,
	Strategy:            string(episode.DefaultStrategy),
	AcceptNamespaces:    episode.DefaultAcceptNamespaces(),
}

// flagKeys maps the flags registered by RegisterFlags to configuration keys
var flagKeys = map[string]string{
	"project-dir":      "project_directory",
	"build-dir":        "build_directory",
	"base-dir":         "base_directory",
	"verbose":          "verbose",
	"episode-files":    "episode_files",
	"exclude":          "exclude_files",
	"jakarta":          "use_jakarta_namespace",
	"strategy":         "strategy",
	"accept-namespace": "accept_namespaces",
	"manifest":         "resources.manifest",
	"pom":              "resources.pom",
	"resources-output": "resources.output",
}

// RegisterFlags adds the configuration flags to fs. Only flags the user sets
// override the configuration file and environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("project-dir", "C", defaultConfig.ProjectDirectory, "Project directory holding the configuration file")
	fs.String("build-dir", "", "Build output directory (default <project-dir>/target)")
	fs.String("base-dir", "", "Directory scanned for episode files (default the build directory)")
	fs.BoolP("verbose", "v", false, "Log merge progress at info level")
	fs.StringSlice("episode-files", defaultConfig.EpisodeFiles, "Episode file patterns, relative to the base directory")
	fs.StringSlice("exclude", nil, "Additional exclude patterns")
	fs.Bool("jakarta", defaultConfig.UseJakartaNamespace, "Use the Jakarta binding namespace for the merged file")
	fs.String("strategy", defaultConfig.Strategy, "Merge strategy: splice, splice-lines or dom")
	fs.StringSlice("accept-namespace", nil, "Source root namespaces accepted by the dom strategy (default the legacy namespace)")
	fs.String("manifest", "", "Resource manifest (.yaml, .toml or .json) to reconcile")
	fs.String("pom", "", "Maven POM whose resources seed the manifest")
	fs.String("resources-output", "", "Where to write the reconciled manifest")
}

// LoadOptions controls Load
type LoadOptions struct {
	// Flags holds flags registered by RegisterFlags; may be nil
	Flags *pflag.FlagSet
	// ConfigFile overrides the project configuration file lookup
	ConfigFile string
}

// Load merges defaults, the project configuration file, EPISODEMERGE_*
// environment variables and changed flags, in increasing precedence, and
// resolves every path against the project directory.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("project_directory", defaultConfig.ProjectDirectory)
	v.SetDefault("build_directory", "")
	v.SetDefault("base_directory", "")
	v.SetDefault("verbose", false)
	v.SetDefault("episode_files", defaultConfig.EpisodeFiles)
	v.SetDefault("exclude_files", defaultConfig.ExcludeFiles)
	v.SetDefault("use_jakarta_namespace", defaultConfig.UseJakartaNamespace)
	v.SetDefault("strategy", defaultConfig.Strategy)
	v.SetDefault("accept_namespaces", defaultConfig.AcceptNamespaces)
	v.SetDefault("resources.manifest", "")
	v.SetDefault("resources.pom", "")
	v.SetDefault("resources.output", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, &episode.ConfigurationError{Field: key, Message: err.Error()}
			}
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(v.GetString("project_directory"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, &episode.ConfigurationError{Message: fmt.Sprintf("failed to read configuration: %v", err)}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &episode.ConfigurationError{Message: fmt.Sprintf("error unmarshaling config: %v", err)}
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolve makes every path absolute and fills in the derived defaults
func (c *Config) resolve() error {
	project, err := filepath.Abs(c.ProjectDirectory)
	if err != nil {
		return &episode.ConfigurationError{Field: "project_directory", Message: err.Error()}
	}
	c.ProjectDirectory = project

	if c.BuildDirectory == "" {
		c.BuildDirectory = "target"
	}
	c.BuildDirectory = c.abs(c.BuildDirectory)
	if c.BaseDirectory == "" {
		c.BaseDirectory = c.BuildDirectory
	}
	c.BaseDirectory = c.abs(c.BaseDirectory)

	if c.Resources.Manifest != "" {
		c.Resources.Manifest = c.abs(c.Resources.Manifest)
	}
	if c.Resources.POM != "" {
		c.Resources.POM = c.abs(c.Resources.POM)
	}
	switch {
	case c.Resources.Output != "":
		c.Resources.Output = c.abs(c.Resources.Output)
	case c.Resources.Manifest != "":
		c.Resources.Output = c.Resources.Manifest
	case c.Resources.POM != "":
		c.Resources.Output = filepath.Join(c.BuildDirectory, episode.OutputFolder, "resources.yaml")
	}
	return nil
}

func (c *Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.ProjectDirectory, p)
}

// Request converts the configuration to a merge request
func (c *Config) Request() (episode.Request, error) {
	strategy, err := episode.ParseStrategy(c.Strategy)
	if err != nil {
		return episode.Request{}, err
	}
	return episode.Request{
		BaseDirectory:    c.BaseDirectory,
		BuildDirectory:   c.BuildDirectory,
		Include:          c.EpisodeFiles,
		Exclude:          c.ExcludeFiles,
		UseJakarta:       c.UseJakartaNamespace,
		Verbose:          c.Verbose,
		Strategy:         strategy,
		AcceptNamespaces: c.AcceptNamespaces,
	}, nil
}

// HasResources reports whether a resource list is configured for reconciliation
func (c *Config) HasResources() bool {
	return c.Resources.Manifest != "" || c.Resources.POM != ""
}
