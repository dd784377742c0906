package main

import "github.com/naka-gawa/github-grader/cmd"

func main() {
	cmd.Execute()
}
