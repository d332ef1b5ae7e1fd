package main

import (
	"blog-app/viewer"
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "base URL of the blog server")
	flag.Parse()

	program := tea.NewProgram(viewer.NewModel(viewer.NewClient(*baseURL)), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("post list exited with error: %v", err)
	}
}
