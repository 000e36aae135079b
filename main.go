package main

import "github.com/Mohsinsiddi/piggybank/cmd"

func main() {
	cmd.Execute()
}
