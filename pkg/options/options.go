package options

import "github.com/spf13/pflag"

// IOptions is implemented by every component's options struct so they
// can be validated and registered uniformly by a command's flag setup.
type IOptions interface {
	Validate() []error
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}
