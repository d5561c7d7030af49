// Command grove inspects YAML schema declarations: it validates them and
// prints the record types their registries generate.
package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	grove "github.com/grovedb/grove"
	"github.com/grovedb/grove/decl"
)

func main() {
	root := &cobra.Command{
		Use:           "grove",
		Short:         "Inspect grove schema declarations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(checkCommand(), registryCommand())
	if err := root.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func checkCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a schema declaration",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := parseSchema(file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d record types\n", sc.Registry().Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "schema declaration file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func registryCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Print the generated record types as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := parseSchema(file)
			if err != nil {
				return err
			}
			type entry struct {
				Name   string   `json:"name"`
				Fields []string `json:"fields"`
			}
			reg := sc.Registry()
			entries := make([]entry, 0, reg.Len())
			for _, name := range reg.Names() {
				t := reg.MustType(name)
				entries = append(entries, entry{Name: name, Fields: t.Fields()})
			}
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "schema declaration file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func parseSchema(file string) (*grove.Schema, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return decl.Parse(data)
}
