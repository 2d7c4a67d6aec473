// Package config handles configuration loading and merging for btfilter.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--theme, --no-color, --format, --system-path, --debug)
//  2. Environment variables (BTFILTER_THEME, BTFILTER_NO_COLOR, NO_COLOR, BTFILTER_DEBUG)
//  3. YAML config file (.btfilter.yaml in the local directory or
//     $XDG_CONFIG_HOME/btfilter/.btfilter.yaml; BTFILTER_CONFIG or --config
//     names a file explicitly)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # File Format
//
//	theme: default
//	no_color: false
//	format: auto
//	system_path: /usr
//	prefixes: [Tests, oc::mosaic, oc, std]
//	colors:
//	  argument: {foreground: yellow}
//	  function: {foreground: black, background: magenta}
//	filters:
//	  elide_std: {enabled: true, priority: 1}
//
// Color values are validated when applied to a color registry. A rejected
// value is reported and the item keeps its previous setting.
package config
