package main

import "github.com/waltsai2483/NachOS-MPX/cmd"

func main() {
	cmd.Execute()
}
