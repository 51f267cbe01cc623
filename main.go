package main

import "github.com/Taichi-iskw/yt-metrics/cmd"

func main() {
	cmd.Execute()
}
