package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	EnvironmentVariablePrefix = "TFMETRICS_"
	fileSuffix                = "_FILE"
)

// SetFlagsFromEnvVariables sets flags from env variables whose names start
// with `TFMETRICS_`. If a variable's name also ends with `_FILE` then its value
// is treated as a path and the flag is set to the contents of that file,
// less any trailing whitespace.
// Flags explicitly set on the command line take precedence.
func SetFlagsFromEnvVariables(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		envVar := flagToEnvVarName(f)
		if val, present := os.LookupEnv(envVar); present {
			err = fs.Set(f.Name, val)
			return
		}
		if strings.HasSuffix(strings.ToUpper(f.Name), fileSuffix) {
			return
		}
		if path, present := os.LookupEnv(envVar + fileSuffix); present {
			var contents []byte
			contents, err = os.ReadFile(path)
			if err != nil {
				err = fmt.Errorf("reading %s: %w", envVar+fileSuffix, err)
				return
			}
			err = fs.Set(f.Name, strings.TrimRight(string(contents), " \t\r\n"))
		}
	})
	return err
}

func flagToEnvVarName(f *pflag.Flag) string {
	return fmt.Sprintf("%s%s", EnvironmentVariablePrefix, strings.Replace(strings.ToUpper(f.Name), "-", "_", -1))
}
