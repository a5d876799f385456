package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/output"
)

var (
	profileFullName string
	profileBio      string
	profileCountry  string
	profileCity     string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile commands",
}

var profileViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := app.Session.CurrentViewer(cmd.Context())
		if err != nil {
			return err
		}

		return output.PrintRecord("Profil", map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"full_name":  user.FullName,
			"bio":        user.Bio,
			"country":    user.Country,
			"city":       user.City,
			"avatar_url": user.AvatarURL,
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := app.Client.UpdateProfile(cmd.Context(), api.UpdateProfileRequest{
			FullName: profileFullName,
			Bio:      profileBio,
			Country:  profileCountry,
			City:     profileCity,
		})
		if err != nil {
			return err
		}

		// The cached profile is stale after a successful update.
		app.Client.InvalidatePath("/auth/profile")

		output.PrintSuccess("Profil mis à jour: %s", user.Username)
		return nil
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <image-path>",
	Short: "Upload a new profile picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := app.Client.UploadAvatar(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		app.Client.InvalidatePath("/auth/profile")

		output.PrintSuccess("Avatar mis à jour: %s", url)
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileFullName, "full-name", "", "Full name")
	profileUpdateCmd.Flags().StringVar(&profileBio, "bio", "", "Short bio")
	profileUpdateCmd.Flags().StringVar(&profileCountry, "country", "", "Country")
	profileUpdateCmd.Flags().StringVar(&profileCity, "city", "", "City")

	profileCmd.AddCommand(profileViewCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileAvatarCmd)
}
