// Package config defines the format-agnostic build configuration: where the
// compiled markup, bundles and assets are written, and the dev server port.
//
// A Config always starts from Default(). Configuration files are read by a
// format-specific Loader (see the hcl and yamlconfig packages) into a Patch, which is merged
// over the defaults field by field, so a file only names what it changes.
package config
