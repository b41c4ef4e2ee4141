package main

import "github.com/mrobin/strbuf/cmd"

var version = "v0.1.0"

func main() {
	cmd.Execute(version)
}
