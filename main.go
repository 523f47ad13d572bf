package main

import "github.com/Spencer17x/vue-next-zh/cmd"

func main() {
	cmd.Execute()
}
