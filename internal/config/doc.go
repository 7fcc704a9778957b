// Package config holds the orchestrator configuration for the dc-scaffold CLI.
//
// A Config is assembled in three layers: built-in defaults (Default), an
// optional project file (.dc-scaffold.yml, .dc-scaffold.yaml or
// .dc-scaffold.json), and command-line flags applied by the cli package.
// Resolve then fills gaps, makes the working directory absolute and
// validates the derived project name. The resolved value is treated as
// immutable from that point on.
//
// YAML files are parsed with gopkg.in/yaml.v3. JSON files may contain
// comments and trailing commas; github.com/tidwall/jsonc strips them
// before encoding/json parses the result.
package config
