package cmd

import (
	"errors"
	"fmt"

	"github.com/corecanvas/canvas-cli/internal/gallery"
	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your artist profile",
}

var (
	profileName string
	profileBio  string
)

var profileShowCmd = &cobra.Command{
	Use:   "show [address]",
	Short: "Show an artist profile (defaults to your own)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		s, err := a.restoreSession(cmd.Context())
		if err != nil {
			return err
		}

		address := s.Account
		if len(args) == 1 {
			address = args[0]
		}

		profile, err := a.profiles.Get(cmd.Context(), address)
		if errors.Is(err, gallery.ErrProfileNotFound) {
			fmt.Println(ui.Meta("No profile for " + ui.TruncateAddr(address) + " — run `canvas profile create`"))
			return nil
		}
		if err != nil {
			return err
		}

		verified := "no"
		if profile.Verified {
			verified = "yes"
		}
		fmt.Println(ui.KeyValueBlock(profile.Name, [][2]string{
			{"Bio", profile.Bio},
			{"Wallet", profile.Wallet},
			{"Followers", fmt.Sprintf("%d", profile.FollowerCount)},
			{"Following", fmt.Sprintf("%d", profile.FollowingCount)},
			{"Verified", verified},
		}))
		return nil
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create your artist profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfileWrite(cmd, "create", func(a *app) (*gallery.Profile, string, error) {
			return a.profiles.Create(cmd.Context(), profileName, profileBio)
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your artist profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfileWrite(cmd, "update", func(a *app) (*gallery.Profile, string, error) {
			return a.profiles.Update(cmd.Context(), profileName, profileBio)
		})
	},
}

var profileFollowCmd = &cobra.Command{
	Use:   "follow <artist>",
	Short: "Follow an artist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfileWrite(cmd, "follow", func(a *app) (*gallery.Profile, string, error) {
			return a.profiles.Follow(cmd.Context(), args[0])
		})
	},
}

var profileUnfollowCmd = &cobra.Command{
	Use:   "unfollow <artist>",
	Short: "Unfollow an artist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfileWrite(cmd, "unfollow", func(a *app) (*gallery.Profile, string, error) {
			return a.profiles.Unfollow(cmd.Context(), args[0])
		})
	},
}

var profileFollowingCmd = &cobra.Command{
	Use:   "following <artist>",
	Short: "Check whether you follow an artist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		s, err := a.restoreSession(cmd.Context())
		if err != nil {
			return err
		}

		following, err := a.profiles.IsFollowing(cmd.Context(), s.Account, args[0])
		if err != nil {
			return err
		}
		if following {
			fmt.Println(ui.Success("Following " + ui.TruncateAddr(args[0])))
		} else {
			fmt.Println(ui.Meta("Not following " + ui.TruncateAddr(args[0])))
		}
		return nil
	},
}

// runProfileWrite restores the session, runs a profile write and prints the
// transaction with its explorer link. The adapter reads the profile back
// after the write; when only that read-back fails the transaction is still
// reported as confirmed, with a warning.
func runProfileWrite(cmd *cobra.Command, verb string, fn func(*app) (*gallery.Profile, string, error)) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.restoreSession(cmd.Context()); err != nil {
		return err
	}

	sp := ui.NewSpinner("Waiting for transaction…")
	sp.Start()
	profile, hash, err := fn(a)
	sp.Stop()

	var refresh *gallery.ProfileRefreshError
	if errors.As(err, &refresh) {
		fmt.Println(ui.Success("Profile " + verb + " confirmed"))
		fmt.Println(ui.Meta("  tx: ") + ui.Addr(a.chain.TxURL(hash)))
		fmt.Println(ui.Warn(fmt.Sprintf("could not read the profile back: %v", refresh.Cause)))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(ui.Success("Profile " + verb + " confirmed"))
	fmt.Println(ui.Meta("  tx: ") + ui.Addr(a.chain.TxURL(hash)))
	fmt.Println(ui.KeyValueBlock(profile.Name, [][2]string{
		{"Bio", profile.Bio},
		{"Followers", fmt.Sprintf("%d", profile.FollowerCount)},
		{"Following", fmt.Sprintf("%d", profile.FollowingCount)},
	}))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{profileCreateCmd, profileUpdateCmd} {
		c.Flags().StringVar(&profileName, "name", "", "display name")
		c.Flags().StringVar(&profileBio, "bio", "", "short bio")
		c.MarkFlagRequired("name") //nolint:errcheck
	}
	profileCmd.AddCommand(profileShowCmd, profileCreateCmd, profileUpdateCmd,
		profileFollowCmd, profileUnfollowCmd, profileFollowingCmd)
}
