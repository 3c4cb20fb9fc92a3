package main

import "kf2-manager/cmd"

func main() {
	cmd.Execute()
}
