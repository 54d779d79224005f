package main

import "github.com/baarbz/DecentralizedExchange/cmd/cli"

func main() {
	cli.Execute()
}
