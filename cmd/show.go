/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/joecammo/Daemon/deck"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f2f2f2"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c6f80"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555866")).Padding(0, 1)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List the loaded abilities and deck",
	Long:  `Loads the feeds and prints every ability and the shuffled deck, tinted by affinity`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, _, err := loadSession(cmd)
		if err != nil {
			return err
		}
		b := s.Builder()
		fmt.Println(boxStyle.Render(abilityList(b.Abilities())))
		fmt.Println(boxStyle.Render(deckList(b)))
		return nil
	},
}

func abilityList(index deck.Index) string {
	titles := make([]string, 0, len(index))
	for t := range index {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	lines := []string{titleStyle.Render(fmt.Sprintf("Abilities (%d)", len(index)))}
	for _, t := range titles {
		def := index[t]
		tint := lipgloss.NewStyle().Foreground(lipgloss.Color(def.Affinity.Hex()))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			tint.Width(3).Render(fmt.Sprint(def.Cost)),
			tint.Bold(true).Width(18).Render(def.Title),
			dimStyle.Width(8).Render(def.Kind.String()),
			def.Text,
		))
	}
	return strings.Join(lines, "\n")
}

func deckList(b *deck.Builder) string {
	pool := b.Pool()
	lines := []string{titleStyle.Render(fmt.Sprintf("Deck (%d, draw order)", len(pool)))}
	for i, e := range pool {
		tint := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color(e).Hex()))
		daemon := e.Daemon
		if daemon == "" {
			daemon = "-"
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			dimStyle.Width(4).Render(fmt.Sprint(i+1)),
			tint.Width(18).Render(e.Def.Title),
			dimStyle.Render(daemon),
		))
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
}
