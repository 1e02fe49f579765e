// Package config provides configuration structures and utilities for mdtrans.
// It defines the main options for document translation runs, the
// .mdtrans.yaml project file, and summary output preferences.
package config
