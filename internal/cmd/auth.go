package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/output"
	"github.com/aesconnect/cli/pkg/prompter"
)

var loginUsername string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Log in, log out and manage your AESConnect account",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to AESConnect",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := loginUsername
		if username == "" {
			var err error
			if username, err = prompter.PromptString("Nom d'utilisateur ou email: "); err != nil {
				return err
			}
		}

		password, err := prompter.PromptPassword("Mot de passe: ")
		if err != nil {
			return err
		}

		user, err := app.Session.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}

		output.PrintSuccess("Connecté en tant que %s", user.Username)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Session.Logout(cmd.Context())
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an AESConnect account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := prompter.PromptString("Nom d'utilisateur: ")
		if err != nil {
			return err
		}
		email, err := prompter.PromptString("Email: ")
		if err != nil {
			return err
		}
		fullName, err := prompter.PromptString("Nom complet: ")
		if err != nil {
			return err
		}
		country, err := prompter.PromptString("Pays (Mali, Burkina Faso, Niger, ...): ")
		if err != nil {
			return err
		}
		password, err := prompter.PromptPassword("Mot de passe: ")
		if err != nil {
			return err
		}

		user, err := app.Session.Register(cmd.Context(), api.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
			FullName: fullName,
			Country:  country,
		})
		if err != nil {
			return err
		}

		output.PrintSuccess("Compte créé: %s", user.Username)
		return nil
	},
}

var authMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the authenticated profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := app.Session.CurrentViewer(cmd.Context())
		if err != nil {
			return err
		}

		return output.PrintRecord("Profil", map[string]interface{}{
			"id":        user.ID,
			"username":  user.Username,
			"full_name": user.FullName,
			"email":     user.Email,
			"bio":       user.Bio,
			"country":   user.Country,
			"city":      user.City,
		})
	},
}

func init() {
	authLoginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username or email")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authMeCmd)
}
