package am

// Config represents the xraydb configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database" yaml:"database"`
	Sources  SourcesConfig  `mapstructure:"sources" toml:"sources" json:"sources" yaml:"sources"`
	Build    BuildConfig    `mapstructure:"build" toml:"build" json:"build" yaml:"build"`
}

// DatabaseConfig configures the destination SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
}

// SourcesConfig locates the reference data files.
// Relative file names are resolved against Dir.
type SourcesConfig struct {
	Dir              string `mapstructure:"dir" toml:"dir" json:"dir" yaml:"dir"`
	Elam             string `mapstructure:"elam" toml:"elam" json:"elam" yaml:"elam"`
	Waasmaier        string `mapstructure:"waasmaier" toml:"waasmaier" json:"waasmaier" yaml:"waasmaier"`
	KeskiRahkonen    string `mapstructure:"keski_rahkonen" toml:"keski_rahkonen" json:"keski_rahkonen" yaml:"keski_rahkonen"`
	ChantlerDir      string `mapstructure:"chantler_dir" toml:"chantler_dir" json:"chantler_dir" yaml:"chantler_dir"`
	ChantlerElements int    `mapstructure:"chantler_elements" toml:"chantler_elements" json:"chantler_elements" yaml:"chantler_elements"` // 0 = default (92)
}

// BuildConfig controls how an existing destination and missing sources are treated
type BuildConfig struct {
	Force   bool `mapstructure:"force" toml:"force" json:"force" yaml:"force"`       // remove an existing destination first
	Silent  bool `mapstructure:"silent" toml:"silent" json:"silent" yaml:"silent"`   // skip instead of failing on missing source / existing destination
	Workers int  `mapstructure:"workers" toml:"workers" json:"workers" yaml:"workers"` // Chantler file readers (0 = default)
}

// Defaults shared between SetDefaults and zero-value fallbacks
const (
	DefaultDatabasePath     = "xraydb.sqlite"
	DefaultElamFile         = "elam.dat"
	DefaultWaasmaierFile    = "waasmaeir_kirfel.dat"
	DefaultKeskiRahkonen    = "keskirahkonen_krause.dat"
	DefaultChantlerDir      = "chantler"
	DefaultChantlerElements = 92
	DefaultWorkers          = 4
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
