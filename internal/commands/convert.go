package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"freedesktop.org/appstream/internal/metadata"
)

var (
	convertTo     string
	convertOutput string
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a metadata file between formats",
	Long: `Parse one metadata document (metainfo XML, catalog XML or DEP-11 YAML,
optionally gzip-compressed) and write it back in another format.

Target formats:
  metainfo     one metainfo XML document (single-component input only)
  catalog-xml  catalog XML with all parsed components
  catalog-yaml DEP-11 YAML with all parsed components

Examples:
  appstream convert catalog.xml.gz --to catalog-yaml
  appstream convert org.example.App.metainfo.xml --to catalog-xml -o out.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "catalog-xml", "target format (metainfo, catalog-xml, catalog-yaml)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default: stdout)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	parsed, err := metadata.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot parse %s: %w", args[0], err)
	}
	for _, w := range parsed.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if len(parsed.Components) == 0 {
		return fmt.Errorf("%s contains no valid components", args[0])
	}

	var out []byte
	switch convertTo {
	case "metainfo":
		if len(parsed.Components) != 1 {
			return fmt.Errorf("metainfo output needs exactly one component, input has %d", len(parsed.Components))
		}
		out = metadata.SerializeMetainfo(parsed.Components[0])
	case "catalog-xml":
		out = metadata.SerializeCatalogXML(parsed.Components, parsed.Origin, parsed.Architecture)
	case "catalog-yaml":
		out, err = metadata.SerializeCatalogYAML(parsed.Components, parsed.Origin, parsed.Architecture)
		if err != nil {
			return fmt.Errorf("cannot serialize: %w", err)
		}
	default:
		return fmt.Errorf("unknown target format %q", convertTo)
	}

	if convertOutput == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(convertOutput, out, 0o644)
}
