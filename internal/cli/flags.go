package cli

import (
	"github.com/spf13/cobra"
)

// registerMappingFlag adds the --mappings flag to a cobra command.
func registerMappingFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "mappings", "m", "", "mapping file (SRG, TSRG or TSRG2)")
}

// registerToolFlags adds the remapping tool selection flags to a cobra command.
func registerToolFlags(cmd *cobra.Command, opts *remapOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.mode, "mode", "", "remapping tool: specialsource (official -> srg) or vignette (official -> mojang)")
	f.StringVar(&opts.side, "side", "", "artifact side label, e.g. client or server")
	f.StringArrayVar(&opts.classpath, "classpath", nil, "tool classpath entry (repeatable, or separated by the OS path list separator)")
	f.StringArrayVar(&opts.libraries, "library", nil, "library jar passed to Vignette as -e=<path> (repeatable)")
	f.StringVar(&opts.profile, "profile", "", "named profile from the config file")
}

// registerRemapFlags registers all shared remap flags (mappings, tool
// selection, output) on a cobra command.
func registerRemapFlags(cmd *cobra.Command, opts *remapOptions) {
	registerMappingFlag(cmd, &opts.mappings)
	registerToolFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "destination for the remapped jar")
}
