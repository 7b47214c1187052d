// Package config provides configuration structures and utilities for solhydra.
// It defines where the analysis workspace lives, where the report goes,
// which tools are known and how their output is interpreted.
package config
