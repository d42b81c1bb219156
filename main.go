package main

import "mailrag-backend/cmd"

func main() {
	cmd.Execute()
}
