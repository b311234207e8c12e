package config

import "github.com/spf13/pflag"

// Flags are the command-line overrides shared by every tracker command.
type Flags struct {
	ConfigFile  string
	DatabaseDSN string
	LogLevel    string
	LogFile     string
	MaxPages    int
}

// Bind registers the flags on fs.
//
//	-c, --config     JSON configuration file
//	-d, --dsn        PostgreSQL DSN
//	    --log-level  debug, info, warn or error
//	    --log-file   rotate logs into this file instead of stdout
//	    --max-pages  page cap per sync run
func (f *Flags) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "JSON configuration file")
	fs.StringVarP(&f.DatabaseDSN, "dsn", "d", "", "database DSN")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level")
	fs.StringVar(&f.LogFile, "log-file", "", "log file (rotated)")
	fs.IntVar(&f.MaxPages, "max-pages", 0, "page cap per sync run")
}

// apply copies only the flags the user actually set.
func (f *Flags) apply(fs *pflag.FlagSet, config *Config) {
	if fs.Changed("dsn") {
		config.DatabaseDSN = f.DatabaseDSN
	}
	if fs.Changed("log-level") {
		config.LogLevel = f.LogLevel
	}
	if fs.Changed("log-file") {
		config.LogFile = f.LogFile
	}
	if fs.Changed("max-pages") {
		config.MaxPages = f.MaxPages
	}
}
