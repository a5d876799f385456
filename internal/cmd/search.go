package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/config"
	"github.com/aesconnect/cli/pkg/manager"
	"github.com/aesconnect/cli/pkg/output"
)

var searchLive bool

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search users and posts",
}

var searchUsersCmd = &cobra.Command{
	Use:   "users [query]",
	Short: "Search members by username or full name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, manager.SearchUsers, args)
	},
}

var searchPostsCmd = &cobra.Command{
	Use:   "posts [query]",
	Short: "Search post content",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, manager.SearchPosts, args)
	},
}

func runSearch(cmd *cobra.Command, kind manager.SearchKind, args []string) error {
	if searchLive {
		return liveSearch(cmd, kind)
	}

	if len(args) == 0 {
		return fmt.Errorf("une requête est nécessaire (ou utilisez --live)")
	}

	res, err := app.Search.Search(cmd.Context(), kind, args[0])
	if err != nil {
		return err
	}

	return printSearchResults(kind, res)
}

// liveSearch reruns the search on every line typed, debounced the way
// the web client debounces keystrokes.
func liveSearch(cmd *cobra.Command, kind manager.SearchKind) error {
	output.PrintInfo("Recherche en direct. Tapez votre requête, ligne vide pour quitter.")

	app.Cache.StartSweeper(cmd.Context(), config.GetDuration("cache.sweep_minutes", time.Minute))

	type liveResult struct {
		res manager.SearchResults
		err error
	}
	results := make(chan liveResult, 1)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			return nil
		}

		app.Search.DebouncedSearch(cmd.Context(), kind, query, func(res manager.SearchResults, err error) {
			results <- liveResult{res: res, err: err}
		})

		select {
		case r := <-results:
			if r.err != nil {
				output.PrintError("%v", r.err)
				continue
			}
			if err := printSearchResults(kind, r.res); err != nil {
				return err
			}
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	}
}

func printSearchResults(kind manager.SearchKind, res manager.SearchResults) error {
	if kind == manager.SearchPosts {
		if len(res.Posts) == 0 {
			output.PrintInfo("Aucune publication trouvée")
			return nil
		}
		return printPosts(res.Posts)
	}

	if len(res.Users) == 0 {
		output.PrintInfo("Aucun membre trouvé")
		return nil
	}

	if output.GetFormat() == output.FormatJSON {
		return output.Print("", res.Users)
	}
	for _, u := range res.Users {
		line := "@" + u.Username
		if u.FullName != "" {
			line += " · " + u.FullName
		}
		if u.Country != "" {
			line += " · " + u.Country
		}
		fmt.Println(line)
	}
	return nil
}

func init() {
	searchCmd.PersistentFlags().BoolVar(&searchLive, "live", false, "Interactive mode: search as you type")

	searchCmd.AddCommand(searchUsersCmd)
	searchCmd.AddCommand(searchPostsCmd)
}
