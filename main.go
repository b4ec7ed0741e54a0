package main

import "github.com/pulseline/ppg-monitor/cmd"

func main() {
	cmd.Execute()
}
