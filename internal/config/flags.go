package config

import "flag"

// Flags are the global command-line options shared by every command.
type Flags struct {
	Config  string
	Debug   bool
	LogFile string
	Paks    []string
}

// RegisterFlags adds the global options to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also log to this file, with rotation")
	fs.Func("pak", "Search this .pak archive for models and textures (repeatable)", func(v string) error {
		f.Paks = append(f.Paks, v)
		return nil
	})
	return f
}

// apply overrides cfg with any flags that were set.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if len(f.Paks) > 0 {
		cfg.Data.Paks = f.Paks
	}
}
