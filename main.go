package main

import "github.com/fakhrymubarak/weather-widget/cmd"

func main() {
	cmd.Execute()
}
