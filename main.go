package main

import "github.com/llehouerou/tartil/cmd"

func main() {
	cmd.Execute()
}
