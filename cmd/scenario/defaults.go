package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aescanero/scenario/internal/params"
)

func (a *app) defaultsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "defaults <worker>",
		Short: "Print a worker's default parameters",
		Long: `Print the parameters a worker accepts together with their defaults,
in declaration order.

Examples:
  scenario defaults pricing-elasticity
  scenario defaults macro --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.registry.Lookup(args[0])
			if err != nil {
				return err
			}
			defaults := m.Info().Defaults

			switch format {
			case "json":
				return writeDefaultsJSON(cmd.OutOrStdout(), defaults)
			case "yaml":
				return writeDefaultsYAML(cmd.OutOrStdout(), defaults)
			default:
				return fmt.Errorf("unsupported format: %s (must be json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}

// writeDefaultsJSON writes the defaults as one JSON object line, keys in
// declaration order.
func writeDefaultsJSON(w io.Writer, defaults params.DefaultSet) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range defaults.Params() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return err
		}
		value, err := json.Marshal(p.Default.Interface())
		if err != nil {
			return fmt.Errorf("failed to encode default %s: %w", p.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeDefaultsYAML(w io.Writer, defaults params.DefaultSet) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range defaults.Params() {
		var value yaml.Node
		if err := value.Encode(p.Default.Interface()); err != nil {
			return fmt.Errorf("failed to encode default %s: %w", p.Name, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Name},
			&value)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode defaults: %w", err)
	}
	return enc.Close()
}
