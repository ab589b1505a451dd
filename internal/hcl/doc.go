// Package hcl provides the concrete implementation of config.Loader. It reads
// configuration written either in HCL native syntax (.hcl) or in HCL's JSON
// syntax (.json) and translates it into a config.Patch.
//
// Expressions are evaluated with an `env` object holding the process
// environment and a small set of string functions, so a file may say
// `port = env.PORT` or `dir = lower(env.SITE)`.
package hcl
