// Package config provides configuration management for stemline.
//
// This package handles:
//   - Loading settings from a JSON or YAML file with viper
//   - STEMLINE_* environment overrides (e.g. STEMLINE_LOG_LEVEL=debug)
//   - Default configuration values
//   - Freezing settings into the immutable Config the pipeline runs with
//
// # Loading
//
//	settings, err := config.Load("") // config.DefaultPath()
//	if err != nil {
//	    // the file exists but could not be parsed
//	}
//
// A missing file is not an error: the defaults are used.
//
// # Building the Run Configuration
//
// Build combines settings with the values that are read once at startup,
// the platform and the dependency check:
//
//	report := env.NewChecker().Check(p, settings.Manifest())
//	cfg, err := config.Build(settings, p, report)
//
// Config is never modified afterwards; components receive it by reference.
//
// # Configuration Options
//
// Settings includes options for:
//   - The work folder template ({title}, {year}, {month}, {day})
//   - Primary and secondary download strategies and yt-dlp player clients
//   - Demucs model, shifts and overlap per separation mode
//   - Prompt retry limit (0 means unbounded)
//   - Stem playlist and run log output
//   - Diagnostic log level, format and file
package config
