package utils

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ParseBuildArgs maps the build command's positional arguments to their
// roles. The registry is always the last argument; release and component
// narrow the matrix and select the whole axis when empty:
//
//	build REGISTRY
//	build RELEASE REGISTRY
//	build RELEASE COMPONENT REGISTRY
func ParseBuildArgs(args []string) (release, component, registry string, err error) {
	switch len(args) {
	case 1:
		registry = args[0]
	case 2:
		release, registry = args[0], args[1]
	case 3:
		release, component, registry = args[0], args[1], args[2]
	default:
		return "", "", "", fmt.Errorf("expected [RELEASE [COMPONENT]] REGISTRY, got %d arguments", len(args))
	}
	if registry == "" {
		return "", "", "", fmt.Errorf("registry must not be empty")
	}
	return release, component, registry, nil
}

// OverrideBoolIfUnset applies a config file value to target unless the flag
// was set explicitly on the command line.
func OverrideBoolIfUnset(flagSet *pflag.FlagSet, flagName string, target *bool, value *bool) {
	if value == nil {
		return
	}
	if flag := flagSet.Lookup(flagName); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

// OverrideStringIfUnset applies a config file value to target unless the
// flag was set explicitly on the command line.
func OverrideStringIfUnset(flagSet *pflag.FlagSet, flagName string, target *string, value string) {
	if value == "" {
		return
	}
	if flag := flagSet.Lookup(flagName); flag != nil && flag.Changed {
		return
	}
	*target = value
}
