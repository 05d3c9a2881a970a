// Package config provides configuration management for songexport.
//
// This package handles:
//   - Built-in defaults for every key
//   - Reading .songexport.yaml from the working or home directory
//   - SONGEXPORT_* environment variables (dots become underscores)
//   - Validation of the loaded values
//
// # Loading
//
//	v := config.New("")
//	if err := config.Read(v, false); err != nil {
//	    return err
//	}
//	cfg, err := config.Load(v)
//
// Flags bound with v.BindPFlag override file and environment values.
//
// # Example File
//
//	source:
//	  kind: churchtools
//	churchtools:
//	  url: https://example.church.tools
//	  token: "..."
//	output:
//	  format: html
//	  path: songs.html
//	  footer: "{count} songs, {date}"
package config
