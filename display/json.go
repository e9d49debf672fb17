// Package display renders command results for terminals and scripts.
package display

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/plaszyme/errors"
)

// OutputEnv forces JSON output when set to "json", for scripted callers
// that cannot pass --json to every command.
const OutputEnv = "PLASZYME_OUTPUT"

// ShouldOutputJSON reports whether cmd should print JSON: an explicit
// --json flag wins, then the PLASZYME_OUTPUT environment variable.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd != nil {
		if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
			v, _ := cmd.Flags().GetBool("json")
			return v
		}
	}
	return os.Getenv(OutputEnv) == "json"
}

// MarshalJSON marshals v with two-space indentation.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// OutputJSON writes v to w as indented JSON followed by a newline.
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
