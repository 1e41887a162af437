package main

import (
	"go-channel-archiver/cmd/channel-archiver/cmd"
	"go-channel-archiver/internal/api"
)

func main() {
	// Ensure all API log file buffers are flushed and files closed on exit
	defer api.CloseAllLoggingTransports()

	cmd.Execute()
}
