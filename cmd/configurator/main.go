// Command configurator runs the headless part configurator.
package main

import "github.com/mesh-intelligence/configurator/internal/cli"

func main() {
	cli.Execute()
}
