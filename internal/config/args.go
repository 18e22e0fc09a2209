package config

import "os"

// osArgs returns command line arguments without the program name.
var osArgs = func() []string {
	if len(os.Args) < 2 {
		return nil
	}
	return os.Args[1:]
}
