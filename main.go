package main

import "github.com/acahn/sourcedesk/cmd"

func main() {
	cmd.Execute()
}
