package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/manager"
	"github.com/aesconnect/cli/pkg/output"
	"github.com/aesconnect/cli/pkg/prompter"
)

var (
	postContent string
	postImage   string
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post commands",
	Long:  "Create posts, like them and manage comments",
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	RunE: func(cmd *cobra.Command, args []string) error {
		content := postContent
		if content == "" && postImage == "" {
			var err error
			if content, err = prompter.PromptMultiline("Votre publication"); err != nil {
				return err
			}
		}

		post, err := app.Posts.CreatePost(cmd.Context(), content, postImage)
		if err != nil {
			return err
		}

		output.PrintSuccess("Publication #%d créée", post.ID)
		return nil
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like or unlike a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}

		// The toggle needs the local post to flip; load the feed first.
		if _, err := app.Posts.LoadPosts(cmd.Context()); err != nil {
			return err
		}

		if err := app.Posts.ToggleLike(cmd.Context(), id); err != nil {
			if errors.Is(err, manager.ErrToggleInFlight) {
				output.PrintWarning("Un like est déjà en cours pour cette publication")
				return nil
			}
			return err
		}

		p, _ := app.Posts.Post(id)
		if p.UserLiked {
			output.PrintSuccess("Vous aimez la publication #%d (%d j'aime)", id, p.LikesCount)
		} else {
			output.PrintInfo("Vous n'aimez plus la publication #%d (%d j'aime)", id, p.LikesCount)
		}
		return nil
	},
}

var postCommentsCmd = &cobra.Command{
	Use:   "comments <post-id>",
	Short: "List the comments of a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}

		comments, err := app.Posts.Comments(cmd.Context(), id)
		if err != nil {
			return err
		}

		if len(comments) == 0 {
			output.PrintInfo("Aucun commentaire")
			return nil
		}

		if output.GetFormat() == output.FormatJSON {
			return output.Print("", comments)
		}
		for _, c := range comments {
			fmt.Printf("@%s · %s\n%s\n\n", c.Username, c.CreatedAt.Format("02/01/2006 15:04"), c.Content)
		}
		return nil
	},
}

var postCommentCmd = &cobra.Command{
	Use:   "comment <post-id> <content>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}

		content := strings.Join(args[1:], " ")
		comment, err := app.Posts.AddComment(cmd.Context(), id, content)
		if err != nil {
			return err
		}

		output.PrintSuccess("Commentaire #%d ajouté", comment.ID)
		return nil
	},
}

func parsePostID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("identifiant de publication invalide: %s", arg)
	}
	return id, nil
}

func init() {
	postCreateCmd.Flags().StringVarP(&postContent, "content", "c", "", "Post content")
	postCreateCmd.Flags().StringVarP(&postImage, "image", "i", "", "Path to an image to attach")

	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postCommentsCmd)
	postCmd.AddCommand(postCommentCmd)
}
