package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/state"
	"github.com/mmynk/basket/internal/style"
)

var friendsCmd = &cobra.Command{
	Use:     "friends",
	GroupID: GroupList,
	Short:   "Manage your friends",
	Long: `Manage your friends.

Friends are found by username or email, ignoring case.

Examples:
  basket friends add bob
  basket friends add carol@example.com
  basket friends users`,
	RunE: requireSubcommand,
}

var friendsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your friends",
	Args:  cobra.NoArgs,
	RunE:  runFriendsList,
}

var friendsAddCmd = &cobra.Command{
	Use:   "add <username|email>",
	Short: "Add a friend",
	Args:  cobra.ExactArgs(1),
	RunE:  runFriendsAdd,
}

var friendsRmCmd = &cobra.Command{
	Use:     "rm <username|email>",
	Aliases: []string{"remove"},
	Short:   "Remove a friend",
	Args:    cobra.ExactArgs(1),
	RunE:    runFriendsRm,
}

var friendsUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Show every known user",
	Long:  `Show every known user. You are marked with *, friends with a check mark.`,
	Args:  cobra.NoArgs,
	RunE:  runFriendsUsers,
}

func init() {
	rootCmd.AddCommand(friendsCmd)
	friendsCmd.AddCommand(friendsListCmd, friendsAddCmd, friendsRmCmd, friendsUsersCmd)
}

func runFriendsList(cmd *cobra.Command, args []string) error {
	if _, err := env.requireSession(cmd.Context()); err != nil {
		return err
	}
	printFriends(cmd.OutOrStdout(), env.app.Friends.Friends())
	return nil
}

func runFriendsAdd(cmd *cobra.Command, args []string) error {
	if _, err := env.requireSession(cmd.Context()); err != nil {
		return err
	}
	friend, err := env.app.Friends.AddFriend(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s as a friend\n", style.SuccessPrefix, style.Bold.Render(friend.Username))
	return nil
}

func runFriendsRm(cmd *cobra.Command, args []string) error {
	if _, err := env.requireSession(cmd.Context()); err != nil {
		return err
	}
	friend, err := findFriend(env.app.Friends, args[0])
	if err != nil {
		return err
	}
	if err := env.app.Friends.RemoveFriend(cmd.Context(), friend.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", style.SuccessPrefix, style.Bold.Render(friend.Username))
	return nil
}

func runFriendsUsers(cmd *cobra.Command, args []string) error {
	id, err := env.requireSession(cmd.Context())
	if err != nil {
		return err
	}
	printUsers(cmd.OutOrStdout(), env.app.Friends.ListAllKnownUsers(), id.ID, env.app.Friends.Friends())
	return nil
}

// findFriend resolves ref through the directory, then checks it is a friend.
func findFriend(friends *state.FriendStore, ref string) (models.Friend, error) {
	u, ok := friends.FindByUsername(ref)
	if !ok {
		u, ok = friends.FindByEmail(ref)
	}
	for _, f := range friends.Friends() {
		if (ok && f.ID == u.ID) || f.ID == ref {
			return f, nil
		}
	}
	return models.Friend{}, fmt.Errorf("%q is not a friend: %w", ref, state.ErrNotFound)
}
