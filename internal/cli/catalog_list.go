package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"transim/internal/catalog"
	"transim/internal/transit"
)

var catalogListQuiet bool
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the built-in system catalog",
	Long: `Inspect the planetary systems built into this binary.

Catalog entries supply the orbital parameters and host-star properties the
run command simulates (see "transim run --help").

Examples:
  # List all available systems
  transim catalog list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available systems",
	Long: `List all systems registered in this build, sorted by name.

Examples:
  transim catalog list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range catalog.List() {
			if catalogListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), s.Name)
			} else {
				printSystem(cmd.OutOrStdout(), s)
			}
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [system]",
	Short: "Show details of a specific system",
	Long: `Show details of a specific system by name.

Examples:
  transim catalog show Kepler-62
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := catalog.Resolve(args[0])
		if err != nil {
			return err
		}
		printSystem(cmd.OutOrStdout(), s)
		return nil
	},
}

func printSystem(w io.Writer, s catalog.System) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "SYSTEM: %s\n", s.Name)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "%s, Teff=%.0f K, J=%.2f, limb darkening u1=%.2f u2=%.2f\n",
		s.Star.SpectralType, s.Star.Teff, s.Star.JMag, s.Star.LimbDark1, s.Star.LimbDark2)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Planets:")
	for _, p := range s.Planets {
		d := transit.FromCatalog(p, s.Star).Duration()
		fmt.Fprintf(w, "  %s  P=%.5f d  t0=%.5f d  rp=%.4f  a/Rs=%.1f  i=%.2f deg  T14=%.4f d\n",
			p.Letter, p.Period, p.T0, p.RadiusRatio, p.SemiMajorAxis, p.Inclination, d)
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogListCmd.Flags().BoolVarP(&catalogListQuiet, "quiet", "q", false, "Only print system names")
	catalogCmd.AddCommand(catalogShowCmd)
}
