package main

import cmd "github.com/rohmanhakim/lobo/internal/cli"

func main() {
	cmd.Execute()
}
