package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/output"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "View the feed",
	Long:  "View the latest posts from the AESConnect community, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		posts, err := app.Posts.LoadPosts(cmd.Context())
		if err != nil {
			return err
		}

		if len(posts) == 0 {
			output.PrintInfo("Aucune publication pour le moment")
			return nil
		}

		return printPosts(posts)
	},
}

func printPosts(posts []api.Post) error {
	switch output.GetFormat() {
	case output.FormatJSON:
		return output.Print("", posts)
	case output.FormatTable:
		rows := make([][]string, 0, len(posts))
		for _, p := range posts {
			rows = append(rows, []string{
				strconv.Itoa(p.ID),
				p.Username,
				truncate(p.Content, 60),
				strconv.Itoa(p.LikesCount),
				strconv.Itoa(p.CommentsCount),
				likedMark(p.UserLiked),
			})
		}
		return output.PrintList("", rows, []string{"ID", "Auteur", "Contenu", "J'aime", "Commentaires", ""})
	default:
		for _, p := range posts {
			author := p.Username
			if p.FullName != "" {
				author = fmt.Sprintf("%s (@%s)", p.FullName, p.Username)
			}
			fmt.Printf("#%d %s · %s\n", p.ID, author, p.CreatedAt.Format("02/01/2006 15:04"))
			fmt.Println(p.Content)
			if p.ImageURL != "" {
				fmt.Printf("[image] %s\n", p.ImageURL)
			}
			fmt.Printf("%s %d j'aime · %d commentaires\n\n", likedMark(p.UserLiked), p.LikesCount, p.CommentsCount)
		}
		return nil
	}
}

func likedMark(liked bool) string {
	if liked {
		return "♥"
	}
	return "♡"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
