// srgjar produces remapped Minecraft jars with SpecialSource or Vignette.
package main

import (
	"os"

	"github.com/hupe1980/srgjar/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
