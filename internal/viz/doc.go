// Package viz renders simulation output for the terminal: lipgloss styles,
// the parameter table, validation reports and asciigraph plots of a
// trajectory. Both the run commands and the interactive shell use it.
package viz
