package main

import "genebank/dbcli"

func main() {
	dbcli.Execute()
}
