package viewer

import (
	"blog-app/models"
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
)

// postsLoadedMsg carries the outcome of the single fetch.
type postsLoadedMsg struct {
	posts []models.Post
	err   error
}

// postItem implements list.Item.
type postItem struct {
	post models.Post
}

func (i postItem) Title() string       { return i.post.Title }
func (i postItem) Description() string { return i.post.Content }
func (i postItem) FilterValue() string { return i.post.Title }

// Model is the bubbletea model for the list screen.
type Model struct {
	client *Client
	list   list.Model
	loaded bool
	err    error
}

func NewModel(client *Client) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Posts"
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.SetShowStatusBar(false)
	return Model{client: client, list: l}
}

// Init fires the one and only fetch.
func (m Model) Init() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		posts, err := client.FetchPosts(context.Background())
		return postsLoadedMsg{posts: posts, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postsLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.posts))
		for _, post := range msg.posts {
			items = append(items, postItem{post: post})
		}
		return m, m.list.SetItems(items)
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Could not load posts: %v", m.err)) + "\n" +
			hintStyle.Render("press q to quit") + "\n"
	}
	if !m.loaded {
		return ""
	}
	return m.list.View() + "\n" + hintStyle.Render("press q to quit")
}

// Items returns the posts currently shown.
func (m Model) Items() []models.Post {
	posts := make([]models.Post, 0, len(m.list.Items()))
	for _, item := range m.list.Items() {
		if p, ok := item.(postItem); ok {
			posts = append(posts, p.post)
		}
	}
	return posts
}

// Err returns the fetch error, if any.
func (m Model) Err() error {
	return m.err
}
