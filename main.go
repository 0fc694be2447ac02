package main

import "github.com/khrees2412/jobdash/cmd"

func main() {
	cmd.Execute()
}
