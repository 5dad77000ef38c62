// Package config holds the application configuration for psmap.
//
// A Config is built from defaults (NewConfig), overlaid with PSMAP_*
// environment variables (ApplyEnv) and finally with CLI flags, then
// validated once before anything runs. It is passed to components
// explicitly; nothing in this module reads configuration globals.
package config
